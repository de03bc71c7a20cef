package handler

import (
	"errors"
	"net/http"
	"time"

	invitedomain "kidsweek-go/internal/domain/invite"
	"kidsweek-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createInviteRequest struct {
	InvitedID string `json:"invitedId"`
	Email     string `json:"emailAddress"`
}

type sendInviteRequest struct {
	InviteID string `json:"inviteId"`
	URL      string `json:"url"`
}

type inviteResponse struct {
	ID        string    `json:"id"`
	InviterID string    `json:"inviterId"`
	InvitedID string    `json:"invitedId"`
	Email     string    `json:"emailAddress"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	InvitedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toInviteResponse(inv *invitedomain.Invite) inviteResponse {
	return inviteResponse{
		ID:        inv.ID,
		InviterID: inv.InviterID,
		InvitedID: inv.InvitedID,
		Email:     inv.Email,
		Token:     inv.Token,
		Status:    inv.Status,
		InvitedAt: inv.InvitedAt,
		ExpiresAt: inv.ExpiresAt,
	}
}

func (h *Handlers) ListInvites(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	invites, err := h.Invites.ListForMember(r.Context(), me.ID)
	if err != nil {
		h.log.InternalError("invites.list: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		result = append(result, toInviteResponse(&invites[i]))
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"invites": result})
}

func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	inv, err := h.Invites.CreateOrRegenerate(r.Context(), me.ID, req.InvitedID, req.Email)
	if err != nil {
		h.log.BusinessError("invites.create: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"invite": toInviteResponse(inv)})
}

// ResolveInvite is public: the accept page calls it before the invited person
// has an account.
func (h *Handlers) ResolveInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	inv, err := h.Invites.Resolve(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, invitedomain.ErrInviteNotFound):
			writeFailure(w, http.StatusNotFound, "invite not found")
		case errors.Is(err, invitedomain.ErrExpired):
			writeFailure(w, http.StatusGone, "invite expired")
		case errors.Is(err, invitedomain.ErrAlreadyUsed):
			writeFailure(w, http.StatusConflict, "invite already used")
		default:
			h.log.InternalError("invites.resolve: failed", err)
			writeFailure(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"invite": inv.Project()})
}

func (h *Handlers) SendInvite(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req sendInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	inv, err := h.Invites.Send(r.Context(), me.ID, req.InviteID, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, invitedomain.ErrInviteNotFound):
			writeFailure(w, http.StatusNotFound, "invite not found")
		case errors.Is(err, invitedomain.ErrNotInviter):
			h.log.BusinessError("invites.send: not inviter", err, "member_id", me.ID)
			writeFailure(w, http.StatusForbidden, "only the inviter may send this invite")
		case errors.Is(err, invitedomain.ErrAlreadyUsed):
			writeFailure(w, http.StatusConflict, "invite already used")
		case errors.Is(err, invitedomain.ErrMailFailed):
			h.log.InternalError("invites.send: mail failed", err, "invite_id", req.InviteID)
			writeFailure(w, http.StatusBadGateway, "could not send invite email")
		default:
			h.log.InternalError("invites.send: failed", err, "invite_id", req.InviteID)
			writeFailure(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"invite": toInviteResponse(inv)})
}
