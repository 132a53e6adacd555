package controllers

import (
	"net/http"
	"time"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/api/validators"
	"github.com/jmoralesv/turnia-backend/internal/staff"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type staffCreateRequest struct {
	Name   string  `json:"name" validate:"required,min=1"`
	Number string  `json:"number" validate:"required,min=1"`
	Phone  string  `json:"phone" validate:"required,min=1"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Status string  `json:"status,omitempty"`
}

type staffUpdateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Status *string `json:"status,omitempty"`
}

type availabilityEntryRequest struct {
	Day       string  `json:"day" validate:"required"`
	Available bool    `json:"available"`
	Note      *string `json:"note,omitempty"`
}

type availabilityRequest struct {
	Entries []availabilityEntryRequest `json:"entries" validate:"dive"`
}

// StaffCreate registers a new roster member.
func StaffCreate(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload staffCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := staff.CreateStaffInput{
			Name:   payload.Name,
			Number: payload.Number,
			Phone:  payload.Phone,
			Email:  payload.Email,
		}
		if payload.Status != "" {
			status, err := enums.ParseStaffStatus(payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid staff status"))
				return
			}
			input.Status = status
		}
		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// StaffList returns every roster member ordered by number.
func StaffList(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// StaffGet returns one roster member with availability preloaded.
func StaffGet(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := pathUUID(r, "staffID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.Get(r.Context(), staffID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// StaffUpdate edits a roster member, including the apercibido flag.
func StaffUpdate(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := pathUUID(r, "staffID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload staffUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := staff.UpdateStaffInput{
			Name:  payload.Name,
			Phone: payload.Phone,
			Email: payload.Email,
		}
		if payload.Status != nil {
			status, err := enums.ParseStaffStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid staff status"))
				return
			}
			input.Status = &status
		}
		updated, err := svc.Update(r.Context(), staffID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// StaffDelete removes a roster member.
func StaffDelete(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := pathUUID(r, "staffID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), staffID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// StaffSetAvailability replaces a member's availability calendar.
func StaffSetAvailability(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := pathUUID(r, "staffID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries := make([]staff.AvailabilityEntry, 0, len(payload.Entries))
		for _, entry := range payload.Entries {
			day, err := time.Parse(dateLayout, entry.Day)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "day must be YYYY-MM-DD"))
				return
			}
			entries = append(entries, staff.AvailabilityEntry{
				Day:       day,
				Available: entry.Available,
				Note:      entry.Note,
			})
		}
		if err := svc.SetAvailability(r.Context(), staffID, entries); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
