package handler

import (
	"errors"
	"net/http"
	"time"

	invitedomain "kidsweek-go/internal/domain/invite"
	memberdomain "kidsweek-go/internal/domain/member"
	"kidsweek-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type addMemberRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsChild   bool   `json:"isChildren"`
}

type signupRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	InviteToken string `json:"inviteToken"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pushTokenRequest struct {
	PushToken string `json:"pushToken"`
}

type tutorialRequest struct {
	Key string `json:"key"`
}

type memberResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	Color     string     `json:"color,omitempty"`
	IsChild   bool       `json:"isChildren"`
	Type      string     `json:"type"`
	Tutorial  []string   `json:"dismissedTooltips"`
}

type authMemberResponse struct {
	memberResponse
	Token string `json:"token"`
}

func toMemberResponse(m *memberdomain.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Birthday:  m.Birthday,
		Avatar:    m.Avatar,
		Color:     m.Color,
		IsChild:   m.IsChild,
		Type:      m.Type,
		Tutorial:  m.Tutorial,
	}
}

func toAuthMemberResponse(m *memberdomain.Member) authMemberResponse {
	resp := authMemberResponse{memberResponse: toMemberResponse(m)}
	if m.Token != nil {
		resp.Token = *m.Token
	}
	return resp
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	m, err := h.Members.AddLocal(r.Context(), req.FirstName, req.LastName, req.IsChild)
	if err != nil {
		h.log.BusinessError("members.add: failed", err)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"member": toMemberResponse(m)})
}

// Signup registers a new account. When an invite token is present the signup
// consumes the invite and upgrades the invited placeholder member instead of
// creating a fresh one.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var (
		m   *memberdomain.Member
		err error
	)
	if req.InviteToken != "" {
		m, err = h.Invites.Consume(r.Context(), req.InviteToken, req.FirstName, req.LastName, req.Email, req.Password)
	} else {
		m, err = h.Members.Signup(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	}
	if err != nil {
		switch {
		case errors.Is(err, memberdomain.ErrEmailTaken):
			h.log.BusinessError("members.signup: email taken", err)
			writeFailure(w, http.StatusConflict, "user already exists")
		case errors.Is(err, invitedomain.ErrInviteNotFound),
			errors.Is(err, invitedomain.ErrExpired),
			errors.Is(err, invitedomain.ErrAlreadyUsed):
			h.log.BusinessError("members.signup: invite rejected", err)
			writeFailure(w, http.StatusConflict, err.Error())
		default:
			h.log.InternalError("members.signup: failed", err)
			writeFailure(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"member": toAuthMemberResponse(m)})
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	m, err := h.Members.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, memberdomain.ErrInvalidCredentials) {
			h.log.BusinessError("members.signin: invalid credentials", err)
			writeFailure(w, http.StatusUnauthorized, "user not found")
			return
		}
		h.log.InternalError("members.signin: failed", err)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"member": toAuthMemberResponse(m)})
}

func (h *Handlers) GetMemberByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	m, err := h.Members.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			writeFailure(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.InternalError("members.get: failed", err, "email", email)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"member": toMemberResponse(m)})
}

func (h *Handlers) SetPushToken(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req pushTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.Members.SetPushToken(r.Context(), me.ID, req.PushToken); err != nil {
		h.log.InternalError("members.push_token: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "push token updated"})
}

func (h *Handlers) DismissTooltip(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req tutorialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	m, err := h.Members.DismissTooltip(r.Context(), me.ID, req.Key)
	if err != nil {
		h.log.InternalError("members.tutorial: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"member": toMemberResponse(m)})
}
