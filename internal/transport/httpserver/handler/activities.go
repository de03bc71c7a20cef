package handler

import (
	"errors"
	"net/http"
	"time"

	activitydomain "kidsweek-go/internal/domain/activity"
	notificationdomain "kidsweek-go/internal/domain/notification"
	"kidsweek-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type taskRequest struct {
	Name string `json:"name"`
	IsOk bool   `json:"isOk"`
}

type recurrenceDaysRequest struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

type recurrenceRequest struct {
	DateBegin time.Time             `json:"dateBegin"`
	DateEnd   time.Time             `json:"dateEnd"`
	Days      recurrenceDaysRequest `json:"days"`
}

type activityRequest struct {
	Name       string             `json:"name"`
	Place      string             `json:"place"`
	DateBegin  time.Time          `json:"dateBegin"`
	DateEnd    *time.Time         `json:"dateEnd"`
	Reminder   *time.Time         `json:"reminder"`
	Note       string             `json:"note"`
	Color      string             `json:"color"`
	Validation bool               `json:"validation"`
	Members    []string           `json:"members"`
	Tasks      []taskRequest      `json:"tasks"`
	Recurrence *recurrenceRequest `json:"recurrence"`
}

type validateRequest struct {
	Validate bool `json:"validate"`
}

type taskResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	IsOk bool   `json:"isOk"`
}

type recurrenceResponse struct {
	DateBegin time.Time             `json:"dateBegin"`
	DateEnd   time.Time             `json:"dateEnd"`
	Days      recurrenceDaysRequest `json:"days"`
}

type activityResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Place      string              `json:"place,omitempty"`
	DateBegin  time.Time           `json:"dateBegin"`
	DateEnd    *time.Time          `json:"dateEnd,omitempty"`
	Reminder   *time.Time          `json:"reminder,omitempty"`
	Note       string              `json:"note,omitempty"`
	Color      string              `json:"color,omitempty"`
	Validation bool                `json:"validation"`
	OwnerID    string              `json:"owner"`
	Members    []string            `json:"members"`
	Tasks      []taskResponse      `json:"tasks"`
	Recurrence *recurrenceResponse `json:"recurrence,omitempty"`
}

func toActivityInput(req activityRequest) activitydomain.Input {
	input := activitydomain.Input{
		Name:       req.Name,
		Place:      req.Place,
		DateBegin:  req.DateBegin,
		DateEnd:    req.DateEnd,
		Reminder:   req.Reminder,
		Note:       req.Note,
		Color:      req.Color,
		Validation: req.Validation,
		MemberIDs:  req.Members,
	}
	for _, t := range req.Tasks {
		input.Tasks = append(input.Tasks, activitydomain.TaskInput{Name: t.Name, IsOk: t.IsOk})
	}
	if req.Recurrence != nil {
		input.Recurrence = &activitydomain.RecurrenceInput{
			DateBegin: req.Recurrence.DateBegin,
			DateEnd:   req.Recurrence.DateEnd,
			Monday:    req.Recurrence.Days.Monday,
			Tuesday:   req.Recurrence.Days.Tuesday,
			Wednesday: req.Recurrence.Days.Wednesday,
			Thursday:  req.Recurrence.Days.Thursday,
			Friday:    req.Recurrence.Days.Friday,
			Saturday:  req.Recurrence.Days.Saturday,
			Sunday:    req.Recurrence.Days.Sunday,
		}
	}
	return input
}

func toActivityResponse(act *activitydomain.Activity) activityResponse {
	resp := activityResponse{
		ID:         act.ID,
		Name:       act.Name,
		Place:      act.Place,
		DateBegin:  act.DateBegin,
		DateEnd:    act.DateEnd,
		Reminder:   act.Reminder,
		Note:       act.Note,
		Color:      act.Color,
		Validation: act.Validation,
		OwnerID:    act.OwnerID,
		Members:    act.MemberIDs,
		Tasks:      make([]taskResponse, 0, len(act.Tasks)),
	}
	for _, t := range act.Tasks {
		resp.Tasks = append(resp.Tasks, taskResponse{ID: t.ID, Name: t.Name, IsOk: t.IsOk})
	}
	if act.Recurrence != nil {
		resp.Recurrence = &recurrenceResponse{
			DateBegin: act.Recurrence.DateBegin,
			DateEnd:   act.Recurrence.DateEnd,
			Days: recurrenceDaysRequest{
				Monday:    act.Recurrence.Monday,
				Tuesday:   act.Recurrence.Tuesday,
				Wednesday: act.Recurrence.Wednesday,
				Thursday:  act.Recurrence.Thursday,
				Friday:    act.Recurrence.Friday,
				Saturday:  act.Recurrence.Saturday,
				Sunday:    act.Recurrence.Sunday,
			},
		}
	}
	return resp
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	activities, err := h.Activities.ListUpcoming(r.Context(), me.ID, time.Now())
	if err != nil {
		h.log.InternalError("activities.list: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]activityResponse, 0, len(activities))
	for i := range activities {
		result = append(result, toActivityResponse(&activities[i]))
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"activities": result})
}

func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	act, err := h.Activities.Create(r.Context(), me.ID, toActivityInput(req))
	if err != nil {
		if errors.Is(err, activitydomain.ErrInvalidDates) {
			h.log.BusinessError("activities.create: invalid dates", err, "member_id", me.ID)
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.InternalError("activities.create: failed", err, "member_id", me.ID)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"activity": toActivityResponse(act)})
}

func (h *Handlers) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	act, err := h.Activities.Update(r.Context(), me.ID, chi.URLParam(r, "activityId"), toActivityInput(req))
	if err != nil {
		h.writeActivityError(w, err, me.ID, "activities.update")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"activity": toActivityResponse(act)})
}

func (h *Handlers) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Activities.Delete(r.Context(), me.ID, chi.URLParam(r, "activityId")); err != nil {
		h.writeActivityError(w, err, me.ID, "activities.delete")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "activity deleted"})
}

// ValidateActivity accepts or rejects the caller's pending invitation to the
// activity.
func (h *Handlers) ValidateActivity(w http.ResponseWriter, r *http.Request) {
	me, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}

	activityID := chi.URLParam(r, "activityId")
	err := h.Notifications.RespondToInvitation(r.Context(), me.ID, activityID, req.Validate)
	if err != nil {
		switch {
		case errors.Is(err, notificationdomain.ErrNotParticipant):
			h.log.BusinessError("activities.validate: not a participant", err, "member_id", me.ID, "activity_id", activityID)
			writeFailure(w, http.StatusForbidden, "not a participant of this activity")
		case errors.Is(err, activitydomain.ErrActivityNotFound):
			h.log.BusinessError("activities.validate: activity not found", err, "activity_id", activityID)
			writeFailure(w, http.StatusNotFound, "activity not found")
		default:
			h.log.InternalError("activities.validate: failed", err, "member_id", me.ID, "activity_id", activityID)
			writeFailure(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	message := "invitation accepted"
	if !req.Validate {
		message = "invitation rejected"
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": message})
}

func (h *Handlers) writeActivityError(w http.ResponseWriter, err error, memberID, op string) {
	switch {
	case errors.Is(err, activitydomain.ErrActivityNotFound):
		h.log.BusinessError(op+": activity not found", err, "member_id", memberID)
		writeFailure(w, http.StatusNotFound, "activity not found")
	case errors.Is(err, activitydomain.ErrNotOwner):
		h.log.BusinessError(op+": not owner", err, "member_id", memberID)
		writeFailure(w, http.StatusForbidden, "only the owner may modify this activity")
	case errors.Is(err, activitydomain.ErrInvalidDates):
		h.log.BusinessError(op+": invalid dates", err, "member_id", memberID)
		writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		h.log.InternalError(op+": failed", err, "member_id", memberID)
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}
