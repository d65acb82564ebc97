// Package views holds the state and actions behind the contact pages:
// the filtered and sorted contact list, and the form creating contacts.
//
// Views never edit cached data themselves. Mutations go to the backend and,
// once confirmed, invalidate the cached list so that the next read fetches it again.
package views

import (
	"context"
	"log/slog"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
	"github.com/oaiiae/huma-contacts-ui/notify"
	"github.com/oaiiae/huma-contacts-ui/querycache"
)

// API is the backend as seen by the views. It is implemented by [contactsapi.Client].
type API interface {
	List(context.Context) ([]contacts.Contact, error)
	Create(context.Context, contacts.Draft) (*contacts.Contact, error)
	Delete(context.Context, contacts.ContactID) error
}

var _ API = (*contactsapi.Client)(nil)

// Env holds what the views share. Logger may be nil.
type Env struct {
	API      API
	Cache    *querycache.Cache
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// WithNotifier returns a copy of e reporting to n. The copy shares the backend and the cache.
func (e *Env) WithNotifier(n notify.Notifier) *Env {
	c := *e
	c.Notifier = n
	return &c
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// fetchContacts reads the contact list through the cache.
func (e *Env) fetchContacts(ctx context.Context) ([]contacts.Contact, error) {
	cs, err := querycache.Query(ctx, e.Cache, contacts.QueryKey, e.API.List)
	if err != nil {
		e.Notifier.Error(contactsapi.MsgFetchFailed)
		return nil, err
	}
	return cs, nil
}

// confirm runs after a successful mutation.
func (e *Env) confirm(msg string) {
	e.Cache.Invalidate(contacts.QueryKey)
	e.Notifier.Success(msg)
}
