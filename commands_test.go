package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/huma-contacts-ui/cli/api"
	"github.com/oaiiae/huma-contacts-ui/cli/printer"
	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
	"github.com/oaiiae/huma-contacts-ui/notify"
	"github.com/oaiiae/huma-contacts-ui/views"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

// backend is a fake contacts backend.
type backend struct {
	mu       sync.Mutex
	contacts []contacts.Contact
	posts    int
	fail     bool
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(b.contacts)
	case http.MethodPost:
		b.posts++
		var c contacts.Contact
		_ = json.NewDecoder(r.Body).Decode(&c)
		b.contacts = append(b.contacts, c)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	case http.MethodDelete:
		id := contacts.ContactID(strings.TrimPrefix(r.URL.Path, "/contacts/"))
		for i, c := range b.contacts {
			if c.ID == id {
				b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupApp(t *testing.T, cs ...contacts.Contact) (*api.App, *backend, *bytes.Buffer) {
	t.Helper()
	b := &backend{contacts: cs}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	stderr := &bytes.Buffer{}
	app := api.NewApp(
		&contactsapi.Options{BackendURL: srv.URL + "/contacts"},
		&api.CacheOptions{},
		&notify.Options{ToastCapacity: 8},
		&printer.Notifier{Out: stderr},
		slog.New(slog.DiscardHandler),
	)
	return app, b, stderr
}

var (
	johnDoe   = contacts.Contact{ID: "1", Name: "John Doe", Position: "Frontend"}
	janeSmith = contacts.Contact{ID: "2", Name: "Jane Smith", Position: "Backend"}
)

func TestRunList(t *testing.T) {
	t.Run("sorted table", func(t *testing.T) {
		app, _, _ := setupApp(t, johnDoe, janeSmith)
		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), app, &out, "", false))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "NAME")
		assert.Contains(t, lines[1], "Jane Smith")
		assert.Contains(t, lines[2], "John Doe")
	})

	t.Run("filter and desc", func(t *testing.T) {
		app, _, _ := setupApp(t, johnDoe, janeSmith, contacts.Contact{ID: "3", Name: "Johnny", Position: "Other"})
		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), app, &out, "john", true))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "Johnny")
		assert.Contains(t, lines[2], "John Doe")
	})

	t.Run("backend failure", func(t *testing.T) {
		app, b, stderr := setupApp(t)
		b.fail = true
		var out bytes.Buffer
		err := runList(context.Background(), app, &out, "", false)

		var fetchErr *contactsapi.FetchError
		assert.ErrorAs(t, err, &fetchErr)
		assert.Empty(t, out.String())
		assert.Equal(t, "✗ Failed to fetch contacts\n", stderr.String())
	})
}

func TestRunAdd(t *testing.T) {
	t.Run("prints the created row", func(t *testing.T) {
		app, b, stderr := setupApp(t, johnDoe)
		var out bytes.Buffer
		require.NoError(t, runAdd(context.Background(), app, &out, "Jane Smith", "Backend"))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, []string{"2", "Jane", "Smith", "Backend"}, strings.Fields(lines[1]))
		assert.Equal(t, "✓ Contact created\n", stderr.String())
		assert.Equal(t, 1, b.posts)
	})

	t.Run("field errors in order", func(t *testing.T) {
		app, b, stderr := setupApp(t)
		var out bytes.Buffer
		err := runAdd(context.Background(), app, &out, "", "")

		assert.ErrorIs(t, err, views.ErrInvalid)
		assert.Equal(t, "✗ Name is required\n✗ Position is required\n", stderr.String())
		assert.Empty(t, out.String())
		assert.Zero(t, b.posts, "no network call")
	})

	t.Run("backend failure", func(t *testing.T) {
		app, b, stderr := setupApp(t)
		b.fail = true
		var out bytes.Buffer
		err := runAdd(context.Background(), app, &out, "Jane Smith", "Backend")

		var createErr *contactsapi.CreateError
		require.ErrorAs(t, err, &createErr)
		assert.Equal(t, contactsapi.StepRead, createErr.Step)
		assert.Equal(t, "✗ Failed to add contact\n", stderr.String())
	})
}

func TestRunDelete(t *testing.T) {
	app, b, stderr := setupApp(t, johnDoe, janeSmith)

	require.NoError(t, runDelete(context.Background(), app, "1"))
	assert.Equal(t, []contacts.Contact{janeSmith}, b.contacts)

	err := runDelete(context.Background(), app, "9")
	var deleteErr *contactsapi.DeleteError
	assert.ErrorAs(t, err, &deleteErr)
	assert.Equal(t, "✓ Contact deleted\n✗ Failed to delete contact\n", stderr.String())
}
