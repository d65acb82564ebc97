package views

import (
	"context"
	"errors"

	"github.com/oaiiae/huma-contacts-ui/contacts"
	"github.com/oaiiae/huma-contacts-ui/contactsapi"
)

const (
	MsgCreated          = "Contact created"
	MsgNameRequired     = "Name is required"
	MsgPositionRequired = "Position is required"
)

var ErrInvalid = errors.New("views: form has errors")

type Field int

const (
	FieldName Field = iota
	FieldPosition
)

// CreateForm is the state of the form creating a contact.
//
// Errors are set on submission and cleared when the field is left non-empty,
// not while it is being edited.
type CreateForm struct {
	Env *Env

	Name     string
	Position string

	NameError     string
	PositionError string
}

func (e *Env) CreateForm() *CreateForm { return &CreateForm{Env: e} }

func (f *CreateForm) SetName(name string)         { f.Name = name }
func (f *CreateForm) SetPosition(position string) { f.Position = position }

// Blur acknowledges the correction of field once it is left non-empty.
func (f *CreateForm) Blur(field Field) {
	switch field {
	case FieldName:
		if f.Name != "" {
			f.NameError = ""
		}
	case FieldPosition:
		if f.Position != "" {
			f.PositionError = ""
		}
	}
}

// Validate checks every field and reports whether the form can be submitted.
func (f *CreateForm) Validate() bool {
	f.NameError, f.PositionError = "", ""
	if f.Name == "" {
		f.NameError = MsgNameRequired
	}
	if f.Position == "" {
		f.PositionError = MsgPositionRequired
	}
	return f.NameError == "" && f.PositionError == ""
}

// Errors returns the current error of each field that has one.
func (f *CreateForm) Errors() map[Field]string {
	errs := make(map[Field]string, 2) //nolint: mnd // two fields
	if f.NameError != "" {
		errs[FieldName] = f.NameError
	}
	if f.PositionError != "" {
		errs[FieldPosition] = f.PositionError
	}
	return errs
}

// Submit validates the form and starts creating the contact.
// The fields are cleared without waiting for the creation to complete.
// It returns [ErrInvalid] without contacting the backend when validation fails.
func (f *CreateForm) Submit(ctx context.Context) (*Mutation, error) {
	if !f.Validate() {
		return nil, ErrInvalid
	}

	draft := contacts.Draft{Name: f.Name, Position: f.Position}
	m := &Mutation{done: make(chan struct{})}
	go func() {
		defer close(m.done)
		m.contact, m.err = f.Env.API.Create(ctx, draft)
		if m.err != nil {
			f.Env.Notifier.Error(contactsapi.MsgCreateFailed)
			return
		}
		f.Env.confirm(MsgCreated)
	}()

	f.Name, f.Position = "", ""
	return m, nil
}

// Mutation is a contact creation in progress.
type Mutation struct {
	done    chan struct{}
	contact *contacts.Contact
	err     error
}

// Done is closed once the creation has completed and its outcome was reported.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Wait returns the created contact once the creation has completed.
func (m *Mutation) Wait(ctx context.Context) (*contacts.Contact, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return m.contact, m.err
	}
}
