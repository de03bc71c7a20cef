package handler

import (
	"errors"
	"net/http"
	"time"

	notificationdomain "kidsweek-go/internal/domain/notification"
	"kidsweek-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type notificationResponse struct {
	ID          string                 `json:"id"`
	MemberID    string                 `json:"memberId"`
	ActivityID  *string                `json:"activityId,omitempty"`
	SenderID    *string                `json:"senderId,omitempty"`
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Criticality string                 `json:"criticality,omitempty"`
	Status      string                 `json:"status"`
	Meta        map[string]interface{} `json:"meta"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// The meta object mirrors the per-kind typed columns so clients keep a single
// shape across notification types.
func toNotificationResponse(n *notificationdomain.Notification) notificationResponse {
	meta := map[string]interface{}{}
	switch n.Type {
	case notificationdomain.TypeReminder:
		if n.ReminderAt != nil {
			meta["reminderDate"] = n.ReminderAt
		}
		meta["pushSent"] = n.PushSent
	case notificationdomain.TypeInvitation:
		if n.RespondedAt != nil {
			meta["respondedAt"] = n.RespondedAt
		}
		if n.Accepted != nil {
			meta["accepted"] = *n.Accepted
		}
	}
	return notificationResponse{
		ID:          n.ID,
		MemberID:    n.MemberID,
		ActivityID:  n.ActivityID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		Message:     n.Message,
		Criticality: n.Criticality,
		Status:      n.Status,
		Meta:        meta,
		CreatedAt:   n.CreatedAt,
	}
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	invitations, reminders, err := h.Notifications.Inbox(r.Context(), me.ID)
	if err != nil {
		h.log.InternalError("notifications.list: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	inviteResult := make([]notificationResponse, 0, len(invitations))
	for i := range invitations {
		inviteResult = append(inviteResult, toNotificationResponse(&invitations[i]))
	}
	reminderResult := make([]notificationResponse, 0, len(reminders))
	for i := range reminders {
		reminderResult = append(reminderResult, toNotificationResponse(&reminders[i]))
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"invitations": inviteResult,
		"reminders":   reminderResult,
	})
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	notificationID := chi.URLParam(r, "notificationId")
	n, err := h.Notifications.MarkRead(r.Context(), me.ID, notificationID)
	if err != nil {
		if errors.Is(err, notificationdomain.ErrNotificationNotFound) {
			writeFailure(w, http.StatusNotFound, "notification not found")
			return
		}
		h.log.InternalError("notifications.read: failed", err, "member_id", me.ID, "notification_id", notificationID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"notification": toNotificationResponse(n)})
}
