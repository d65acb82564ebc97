package views

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
)

const MsgDeleted = "Contact deleted"

// ContactList is the list of contacts filtered by name and sorted by name.
type ContactList struct {
	Env       *Env
	Filter    string
	Ascending bool
}

// ContactList returns a list sorted in ascending order with no filter.
func (e *Env) ContactList() *ContactList {
	return &ContactList{Env: e, Ascending: true}
}

func (l *ContactList) SetFilter(filter string) { l.Filter = filter }
func (l *ContactList) ToggleSort()             { l.Ascending = !l.Ascending }

// Contacts returns the cached contacts as filtered and sorted by l.
func (l *ContactList) Contacts(ctx context.Context) ([]contacts.Contact, error) {
	cs, err := l.Env.fetchContacts(ctx)
	if err != nil {
		return nil, err
	}
	return Derive(cs, l.Filter, l.Ascending), nil
}

// Delete removes the contact from the backend.
// The list is refreshed from the backend once the deletion is confirmed.
func (l *ContactList) Delete(ctx context.Context, id contacts.ContactID) error {
	err := l.Env.API.Delete(ctx, id)
	if err != nil {
		l.Env.logger().LogAttrs(ctx, slog.LevelError, "error deleting contact",
			slog.String("id", id.String()),
			slog.Any("err", err),
		)
		l.Env.Notifier.Error(contactsapi.MsgDeleteFailed)
		return err
	}
	l.Env.confirm(MsgDeleted)
	return nil
}

// Derive returns the contacts of cs whose name contains filter, ignoring case,
// sorted by name. Contacts with equal names keep their relative order.
// cs is left untouched.
func Derive(cs []contacts.Contact, filter string, ascending bool) []contacts.Contact {
	filter = strings.ToLower(filter)
	out := make([]contacts.Contact, 0, len(cs))
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Name), filter) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b contacts.Contact) int {
		if ascending {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(b.Name, a.Name)
	})
	return out
}
