package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/api/validators"
	"github.com/jmoralesv/turnia-backend/internal/orders"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

type orderCreateRequest struct {
	ClientName    string     `json:"client_name" validate:"required,min=1"`
	Venue         string     `json:"venue" validate:"required,min=1"`
	EventDate     string     `json:"event_date" validate:"required"`
	Shift1Count   int        `json:"shift1_count" validate:"min=0"`
	Shift1Start   string     `json:"shift1_start" validate:"required"`
	Shift1End     string     `json:"shift1_end" validate:"required"`
	Shift2Count   int        `json:"shift2_count" validate:"min=0"`
	Shift2Start   *string    `json:"shift2_start,omitempty"`
	Shift2End     *string    `json:"shift2_end,omitempty"`
	Catering      bool       `json:"catering"`
	TravelMinutes *int       `json:"travel_minutes,omitempty" validate:"omitempty,min=0"`
	ShirtColor    *string    `json:"shirt_color,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CoordinatorID *uuid.UUID `json:"coordinator_id,omitempty"`
}

func (r orderCreateRequest) toInput() (orders.CreateOrderInput, error) {
	eventDate, err := time.Parse(dateLayout, r.EventDate)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "event_date must be YYYY-MM-DD")
	}
	return orders.CreateOrderInput{
		ClientName:    r.ClientName,
		Venue:         r.Venue,
		EventDate:     eventDate,
		Shift1Count:   r.Shift1Count,
		Shift1Start:   r.Shift1Start,
		Shift1End:     r.Shift1End,
		Shift2Count:   r.Shift2Count,
		Shift2Start:   r.Shift2Start,
		Shift2End:     r.Shift2End,
		Catering:      r.Catering,
		TravelMinutes: r.TravelMinutes,
		ShirtColor:    r.ShirtColor,
		Notes:         r.Notes,
		CoordinatorID: r.CoordinatorID,
	}, nil
}

type orderUpdateRequest struct {
	ClientName    *string    `json:"client_name,omitempty" validate:"omitempty,min=1"`
	Venue         *string    `json:"venue,omitempty" validate:"omitempty,min=1"`
	EventDate     *string    `json:"event_date,omitempty"`
	Shift1Count   *int       `json:"shift1_count,omitempty" validate:"omitempty,min=0"`
	Shift1Start   *string    `json:"shift1_start,omitempty"`
	Shift1End     *string    `json:"shift1_end,omitempty"`
	Shift2Count   *int       `json:"shift2_count,omitempty" validate:"omitempty,min=0"`
	Shift2Start   *string    `json:"shift2_start,omitempty"`
	Shift2End     *string    `json:"shift2_end,omitempty"`
	Catering      *bool      `json:"catering,omitempty"`
	TravelMinutes *int       `json:"travel_minutes,omitempty" validate:"omitempty,min=0"`
	ShirtColor    *string    `json:"shirt_color,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CoordinatorID *uuid.UUID `json:"coordinator_id,omitempty"`
}

func (r orderUpdateRequest) toInput() (orders.UpdateOrderInput, error) {
	input := orders.UpdateOrderInput{
		ClientName:    r.ClientName,
		Venue:         r.Venue,
		Shift1Count:   r.Shift1Count,
		Shift1Start:   r.Shift1Start,
		Shift1End:     r.Shift1End,
		Shift2Count:   r.Shift2Count,
		Shift2Start:   r.Shift2Start,
		Shift2End:     r.Shift2End,
		Catering:      r.Catering,
		TravelMinutes: r.TravelMinutes,
		ShirtColor:    r.ShirtColor,
		Notes:         r.Notes,
		CoordinatorID: r.CoordinatorID,
	}
	if r.EventDate != nil {
		eventDate, err := time.Parse(dateLayout, *r.EventDate)
		if err != nil {
			return orders.UpdateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "event_date must be YYYY-MM-DD")
		}
		input.EventDate = &eventDate
	}
	return input, nil
}

// OrdersCreate opens a new staffing request. The PED code is generated
// server-side.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersList returns orders filtered by an optional date window and text
// query.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), orders.ListFilters{
			DateFrom: from,
			DateTo:   to,
			Query:    r.URL.Query().Get("q"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrdersGet returns one order with its roster preloaded.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersUpdate overwrites the provided order fields.
func OrdersUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Update(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersDelete removes an order and its assignments.
func OrdersDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// OrdersMeetingTime computes the call time for a catering order.
func OrdersMeetingTime(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		meeting, err := svc.MeetingTime(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meeting)
	}
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid uuid").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id in path").WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
