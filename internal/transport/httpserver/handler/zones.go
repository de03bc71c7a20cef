package handler

import (
	"errors"
	"net/http"
	"time"

	zonedomain "kidsweek-go/internal/domain/zone"
	"kidsweek-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createZoneRequest struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Members []string `json:"members"`
}

type updateZoneRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type zoneMemberRequest struct {
	MemberID string `json:"memberId"`
	Level    string `json:"level"`
}

type zoneAuthorizationResponse struct {
	MemberID  string    `json:"memberId"`
	Level     string    `json:"level"`
	GrantedAt time.Time `json:"grantedAt"`
}

type zoneResponse struct {
	ID             string                      `json:"id"`
	Name           string                      `json:"name"`
	Color          string                      `json:"color"`
	Authorizations []zoneAuthorizationResponse `json:"authorizations"`
	IsReadOnly     bool                        `json:"isReadOnly"`
}

func toZoneResponse(z *zonedomain.Zone, viewerID string) zoneResponse {
	auths := make([]zoneAuthorizationResponse, 0, len(z.Authorizations))
	for _, auth := range z.Authorizations {
		auths = append(auths, zoneAuthorizationResponse{
			MemberID:  auth.MemberID,
			Level:     auth.Level,
			GrantedAt: auth.GrantedAt,
		})
	}
	return zoneResponse{
		ID:             z.ID,
		Name:           z.Name,
		Color:          z.Color,
		Authorizations: auths,
		IsReadOnly:     !z.CanWrite(viewerID),
	}
}

func (h *Handlers) ListZones(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	zones, err := h.Zones.ListForMember(r.Context(), me.ID)
	if err != nil {
		h.log.InternalError("zones.list: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]zoneResponse, 0, len(zones))
	for i := range zones {
		result = append(result, toZoneResponse(&zones[i], me.ID))
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"zones": result})
}

func (h *Handlers) CreateZone(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req createZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.Zones.Create(r.Context(), me.ID, req.Name, req.Color, req.Members)
	if err != nil {
		h.log.BusinessError("zones.create: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"zone": toZoneResponse(z, me.ID)})
}

func (h *Handlers) UpdateZone(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req updateZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.Zones.Update(r.Context(), me.ID, chi.URLParam(r, "zoneId"), req.Name, req.Color)
	if err != nil {
		h.writeZoneError(w, err, me.ID, "zones.update")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"zone": toZoneResponse(z, me.ID)})
}

func (h *Handlers) DeleteZone(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	z, err := h.Zones.Delete(r.Context(), me.ID, chi.URLParam(r, "zoneId"))
	if err != nil {
		h.writeZoneError(w, err, me.ID, "zones.delete")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"zone": toZoneResponse(z, me.ID)})
}

func (h *Handlers) AddZoneMember(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req zoneMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.Zones.GrantMember(r.Context(), me.ID, chi.URLParam(r, "zoneId"), req.MemberID, req.Level)
	if err != nil {
		h.writeZoneError(w, err, me.ID, "zones.add_member")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"zone": toZoneResponse(z, me.ID)})
}

func (h *Handlers) RemoveZoneMember(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req zoneMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.Zones.RevokeMember(r.Context(), me.ID, chi.URLParam(r, "zoneId"), req.MemberID)
	if err != nil {
		h.writeZoneError(w, err, me.ID, "zones.remove_member")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"zone": toZoneResponse(z, me.ID)})
}

func (h *Handlers) writeZoneError(w http.ResponseWriter, err error, memberID, op string) {
	switch {
	case errors.Is(err, zonedomain.ErrZoneNotFound):
		h.log.BusinessError(op+": zone not found", err, "member_id", memberID)
		writeFailure(w, http.StatusNotFound, "zone not found")
	case errors.Is(err, zonedomain.ErrNotAuthorized):
		h.log.BusinessError(op+": not authorized", err, "member_id", memberID)
		writeFailure(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, zonedomain.ErrInvalidLevel):
		h.log.BusinessError(op+": invalid level", err, "member_id", memberID)
		writeFailure(w, http.StatusBadRequest, "invalid authorization level")
	default:
		h.log.InternalError(op+": failed", err, "member_id", memberID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}
