package views

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/querycache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory [API] counting its calls.
type fakeAPI struct {
	mu        sync.Mutex
	contacts  []contacts.Contact
	lists     int
	creates   []contacts.Draft
	deletes   []contacts.ContactID
	listErr   error
	createErr error
	deleteErr error
}

func (a *fakeAPI) List(context.Context) ([]contacts.Contact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lists++
	if a.listErr != nil {
		return nil, a.listErr
	}
	return append([]contacts.Contact(nil), a.contacts...), nil
}

func (a *fakeAPI) Create(_ context.Context, d contacts.Draft) (*contacts.Contact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creates = append(a.creates, d)
	if a.createErr != nil {
		return nil, a.createErr
	}
	c := contacts.Contact{ID: contacts.NextID(a.contacts), Name: d.Name, Position: d.Position}
	a.contacts = append(a.contacts, c)
	return &c, nil
}

func (a *fakeAPI) Delete(_ context.Context, id contacts.ContactID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deletes = append(a.deletes, id)
	if a.deleteErr != nil {
		return a.deleteErr
	}
	for i, c := range a.contacts {
		if c.ID == id {
			a.contacts = append(a.contacts[:i], a.contacts[i+1:]...)
			break
		}
	}
	return nil
}

func (a *fakeAPI) listCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lists
}

// recorder is a [notify.Notifier] remembering what it was told.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Success(msg string) { r.add("success:" + msg) }
func (r *recorder) Error(msg string)   { r.add("error:" + msg) }
func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, s)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func setupEnv(t *testing.T, cs ...contacts.Contact) (*Env, *fakeAPI, *recorder, *bytes.Buffer) {
	t.Helper()
	api := &fakeAPI{contacts: cs}
	rec := &recorder{}
	logs := &bytes.Buffer{}
	env := &Env{
		API:      api,
		Cache:    querycache.New(querycache.Options{StaleTime: time.Hour}),
		Notifier: rec,
		Logger:   slog.New(slog.NewTextHandler(logs, nil)),
	}
	return env, api, rec, logs
}

var (
	johnDoe   = contacts.Contact{ID: "1", Name: "John Doe", Position: "Frontend"}
	janeSmith = contacts.Contact{ID: "2", Name: "Jane Smith", Position: "Backend"}
)

func names(cs []contacts.Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
