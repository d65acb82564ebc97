package contactsapi

import (
	"fmt"
	"net/http"

	"github.com/oaiiae/huma-contacts-ui/contacts"
)

// Messages shown to users when an operation fails.
const (
	MsgFetchFailed  = "Failed to fetch contacts"
	MsgCreateFailed = "Failed to add contact"
	MsgDeleteFailed = "Failed to delete contact"
)

// StatusError reports a response with a non-successful status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FetchError is returned by [Client.List].
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "contactsapi: fetch contacts: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// Step identifies which request of [Client.Create] failed.
type Step int

const (
	StepRead  Step = iota + 1 // the preliminary list
	StepWrite                 // the write itself
)

func (s Step) String() string {
	switch s {
	case StepRead:
		return "read"
	case StepWrite:
		return "write"
	default:
		return "unknown"
	}
}

// CreateError is returned by [Client.Create].
type CreateError struct {
	Step Step
	Err  error
}

func (e *CreateError) Error() string {
	return "contactsapi: add contact (" + e.Step.String() + " failed): " + e.Err.Error()
}
func (e *CreateError) Unwrap() error { return e.Err }

// DeleteError is returned by [Client.Delete].
type DeleteError struct {
	ID  contacts.ContactID
	Err error
}

func (e *DeleteError) Error() string {
	return "contactsapi: delete contact " + e.ID.String() + ": " + e.Err.Error()
}
func (e *DeleteError) Unwrap() error { return e.Err }
