// Package notify collects the short-lived messages that report the outcome of user actions.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier reports outcomes to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Toast struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"    enum:"success,error"`
	Message string    `json:"message" example:"Contact deleted"`
	Created time.Time `json:"created"`
}

type Options struct {
	ToastAutoClose time.Duration `doc:"how long notifications stay visible"  default:"4s"`
	ToastCapacity  int           `doc:"maximum pending notifications"       default:"32"`
	ToastSessions  int           `doc:"maximum sessions with notifications" default:"1024"`
}

// Inbox implements [Notifier] by keeping toasts until they are read, dismissed or closed.
// It is safe for concurrent use.
type Inbox struct {
	autoClose time.Duration
	capacity  int
	now       func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

var _ Notifier = (*Inbox)(nil)

func NewInbox(options *Options) *Inbox {
	return &Inbox{
		autoClose: options.ToastAutoClose,
		capacity:  max(options.ToastCapacity, 1),
		now:       time.Now,
	}
}

func (i *Inbox) Success(msg string) { i.push(KindSuccess, msg) }
func (i *Inbox) Error(msg string)   { i.push(KindError, msg) }

func (i *Inbox) push(kind Kind, msg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expire()
	if len(i.toasts) == i.capacity {
		i.toasts = slices.Delete(i.toasts, 0, 1)
	}
	i.toasts = append(i.toasts, Toast{ID: uuid.New(), Kind: kind, Message: msg, Created: i.now()})
}

// Pending returns the open toasts, oldest first.
func (i *Inbox) Pending() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expire()
	return slices.Clone(i.toasts)
}

// Drain returns the open toasts and closes them.
func (i *Inbox) Drain() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expire()
	toasts := i.toasts
	i.toasts = nil
	return toasts
}

// Dismiss closes the toast with id and reports whether it was open.
func (i *Inbox) Dismiss(id uuid.UUID) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expire()
	n := len(i.toasts)
	i.toasts = slices.DeleteFunc(i.toasts, func(t Toast) bool { return t.ID == id })
	return len(i.toasts) != n
}

// expire drops toasts older than autoClose. Must be called with mu held.
func (i *Inbox) expire() {
	if i.autoClose <= 0 {
		return
	}
	now := i.now()
	i.toasts = slices.DeleteFunc(i.toasts, func(t Toast) bool { return now.Sub(t.Created) >= i.autoClose })
}

// Sessions keeps one [Inbox] per session so that a user only sees the outcome of their own actions.
// When full, the session created first is dropped.
type Sessions struct {
	options  Options
	capacity int

	mu      sync.Mutex
	inboxes map[string]*Inbox
	order   []string
}

func NewSessions(options *Options) *Sessions {
	return &Sessions{
		options:  *options,
		capacity: max(options.ToastSessions, 1),
		inboxes:  make(map[string]*Inbox),
	}
}

// Inbox returns the inbox of session id, creating it if needed.
func (s *Sessions) Inbox(id string) *Inbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inbox, ok := s.inboxes[id]; ok {
		return inbox
	}
	if len(s.order) == s.capacity {
		delete(s.inboxes, s.order[0])
		s.order = slices.Delete(s.order, 0, 1)
	}
	inbox := NewInbox(&s.options)
	s.inboxes[id] = inbox
	s.order = append(s.order, id)
	return inbox
}
