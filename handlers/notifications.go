package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oaiiae/huma-contacts-ui/notify"
)

// Notifications serves the notifications of the session named by the session cookie.
// Requests without one share an anonymous session.
type Notifications struct {
	Sessions *notify.Sessions
}

func (h *Notifications) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/", h.list)
}

type NotificationsListOutput struct {
	Body []notify.Toast
}

// list hands out the pending notifications, which closes them.
func (h *Notifications) list(_ context.Context, input *struct {
	Session string `cookie:"session" doc:"session whose notifications to read"`
}) (*NotificationsListOutput, error) {
	toasts := h.Sessions.Inbox(input.Session).Drain()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	return &NotificationsListOutput{Body: toasts}, nil
}

func (h *Notifications) RegisterDismiss(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}", h.dismiss, opErrors(http.StatusNotFound))
}

func (h *Notifications) dismiss(_ context.Context, input *struct {
	ID      string `path:"id"        doc:"ID of the notification to dismiss"`
	Session string `cookie:"session" doc:"session owning the notification"`
}) (*struct{}, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil || !h.Sessions.Inbox(input.Session).Dismiss(id) {
		return nil, huma.Error404NotFound("notification not found")
	}
	return nil, nil //nolint: nilnil // no content
}
