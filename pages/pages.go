// Package pages serves the contact views as HTML.
package pages

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/notify"
	"github.com/oaiiae/huma-contacts-ui/views"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.ParseFS(files, "templates/*.html")) //nolint: gochecknoglobals

// SessionCookie names the cookie identifying whose notifications a request reads and writes.
const SessionCookie = "session"

// Pages serves the contact views. Middleware, when set, wraps the handler of each page
// and is given the pattern it is registered with.
type Pages struct {
	Views      *views.Env
	Sessions   *notify.Sessions
	Logger     *slog.Logger
	Middleware func(pattern string, next http.Handler) http.Handler
}

// Register mounts the pages on mux.
func (p *Pages) Register(mux *http.ServeMux) {
	p.handle(mux, "GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/contacts", http.StatusFound)
	})
	p.handle(mux, "GET /contacts", p.contacts)
	p.handle(mux, "POST /contacts/{id}/delete", p.delete)
	p.handle(mux, "GET /contacts/create", p.createForm)
	p.handle(mux, "POST /contacts/create", p.create)
}

func (p *Pages) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	var handler http.Handler = h
	if p.Middleware != nil {
		handler = p.Middleware(pattern, handler)
	}
	mux.Handle(pattern, handler)
}

type Page struct {
	Title  string
	Toasts []notify.Toast
}

type contactsPage struct {
	Page
	Filter       string
	Ascending    bool
	Order        string
	ToggledOrder string
	Contacts     []contacts.Contact
}

type createPage struct {
	Page
	Form      *views.CreateForm
	Positions []string
}

// session returns the views reporting to the inbox of the request's session.
// A session is started when the request carries none.
func (p *Pages) session(w http.ResponseWriter, r *http.Request) (*views.Env, *notify.Inbox) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil && uuid.Validate(c.Value) == nil {
		id = c.Value
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	inbox := p.Sessions.Inbox(id)
	return p.Views.WithNotifier(inbox), inbox
}

// listFromQuery restores the list state carried by the filter and order parameters.
func listFromQuery(env *views.Env, q url.Values) *views.ContactList {
	list := env.ContactList()
	list.SetFilter(q.Get("filter"))
	if q.Get("order") == "desc" {
		list.ToggleSort()
	}
	return list
}

func (p *Pages) contacts(w http.ResponseWriter, r *http.Request) {
	env, inbox := p.session(w, r)
	list := listFromQuery(env, r.URL.Query())
	cs, _ := list.Contacts(r.Context()) // failure is reported as a toast

	data := contactsPage{
		Filter:       list.Filter,
		Ascending:    list.Ascending,
		Order:        "asc",
		ToggledOrder: "desc",
		Contacts:     cs,
	}
	if !list.Ascending {
		data.Order, data.ToggledOrder = "desc", "asc"
	}
	data.Page = Page{Title: "Contact List", Toasts: inbox.Drain()}
	p.render(w, http.StatusOK, "contacts.html", data)
}

func (p *Pages) delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	env, _ := p.session(w, r)
	list := listFromQuery(env, r.PostForm)
	_ = list.Delete(r.Context(), contacts.ContactID(r.PathValue("id"))) // reported as a toast

	back := url.Values{}
	back.Set("filter", r.PostForm.Get("filter"))
	back.Set("order", r.PostForm.Get("order"))
	http.Redirect(w, r, "/contacts?"+back.Encode(), http.StatusSeeOther)
}

func (p *Pages) createForm(w http.ResponseWriter, r *http.Request) {
	env, inbox := p.session(w, r)
	p.renderForm(w, http.StatusOK, env.CreateForm(), inbox)
}

func (p *Pages) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	env, inbox := p.session(w, r)
	form := env.CreateForm()
	form.SetName(r.PostForm.Get("name"))
	form.SetPosition(r.PostForm.Get("position"))

	mutation, err := form.Submit(r.Context())
	if errors.Is(err, views.ErrInvalid) {
		p.renderForm(w, http.StatusUnprocessableEntity, form, inbox)
		return
	}
	<-mutation.Done() // outcome is reported as a toast
	p.renderForm(w, http.StatusOK, form, inbox)
}

func (p *Pages) renderForm(w http.ResponseWriter, status int, form *views.CreateForm, inbox *notify.Inbox) {
	p.render(w, status, "create.html", createPage{
		Page:      Page{Title: "Create new contact", Toasts: inbox.Drain()},
		Form:      form,
		Positions: contacts.Positions,
	})
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger().Error("could not render page", "page", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
