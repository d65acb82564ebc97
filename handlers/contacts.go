package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
	"github.com/oaiiae/huma-contacts-ui/notify"
	"github.com/oaiiae/huma-contacts-ui/views"
)

// Contacts serves the contact views. Outcomes are reported to the inbox of the session
// named by the session cookie when Sessions is set, and to the views' notifier otherwise.
type Contacts struct {
	Views        *views.Env
	Sessions     *notify.Sessions
	ErrorHandler func(context.Context, error)
}

func (h *Contacts) env(session string) *views.Env {
	if h.Sessions == nil {
		return h.Views
	}
	return h.Views.WithNotifier(h.Sessions.Inbox(session))
}

type ContactModel struct {
	ID       contacts.ContactID `json:"id"       example:"1" readOnly:"true"`
	Name     string             `json:"name"     example:"John Doe"`
	Position string             `json:"position" example:"Frontend"`
}

func contactModel(c *contacts.Contact) ContactModel {
	return ContactModel{ID: c.ID, Name: c.Name, Position: c.Position}
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusBadGateway),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, input *struct {
	Filter  string `query:"filter"   doc:"keep contacts whose name contains this text, ignoring case" example:"john"`
	Order   string `query:"order"    doc:"sort by name in this order" enum:"asc,desc" default:"asc"`
	Session string `cookie:"session" doc:"session to notify"`
}) (*ContactsListOutput, error) {
	list := h.env(input.Session).ContactList()
	list.SetFilter(input.Filter)
	if input.Order == "desc" {
		list.ToggleSort()
	}

	cs, err := list.Contacts(ctx)
	if err != nil {
		return nil, badGateway(contactsapi.MsgFetchFailed, err)
	}

	body := make([]ContactModel, 0, len(cs))
	for i := range cs {
		body = append(body, contactModel(&cs[i]))
	}
	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opStatus(http.StatusCreated),
		opErrors(http.StatusUnprocessableEntity, http.StatusBadGateway),
	)
}

type ContactsCreateOutput struct {
	Body ContactModel
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body struct {
		Name     string `json:"name,omitempty"     example:"John Doe"`
		Position string `json:"position,omitempty" example:"Frontend"`
	}
	Session string `cookie:"session" doc:"session to notify"`
}) (*ContactsCreateOutput, error) {
	form := h.env(input.Session).CreateForm()
	form.SetName(input.Body.Name)
	form.SetPosition(input.Body.Position)

	mutation, err := form.Submit(ctx)
	if errors.Is(err, views.ErrInvalid) {
		var details []error
		if form.NameError != "" {
			details = append(details, &huma.ErrorDetail{Location: "body.name", Message: form.NameError, Value: input.Body.Name})
		}
		if form.PositionError != "" {
			details = append(details, &huma.ErrorDetail{Location: "body.position", Message: form.PositionError, Value: input.Body.Position})
		}
		return nil, huma.Error422UnprocessableEntity("invalid contact", details...)
	}

	contact, err := mutation.Wait(ctx)
	if err != nil {
		return nil, badGateway(contactsapi.MsgCreateFailed, err)
	}
	return &ContactsCreateOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusBadGateway),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID      string `path:"id"        example:"1" doc:"ID of the contact to delete"`
	Session string `cookie:"session"             doc:"session to notify"`
}) (*struct{}, error) {
	err := h.env(input.Session).ContactList().Delete(ctx, contacts.ContactID(input.ID))
	if err != nil {
		return nil, badGateway(contactsapi.MsgDeleteFailed, err)
	}
	return nil, nil //nolint: nilnil // no content
}
