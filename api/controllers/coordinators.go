package controllers

import (
	"net/http"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/api/validators"
	"github.com/jmoralesv/turnia-backend/internal/coordinators"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type coordinatorCreateRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Phone string `json:"phone" validate:"required,min=1"`
}

type coordinatorUpdateRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=1"`
}

// CoordinatorsCreate registers a new coordinator.
func CoordinatorsCreate(svc coordinators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload coordinatorCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), coordinators.CreateCoordinatorInput{
			Name:  payload.Name,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// CoordinatorsList returns every coordinator ordered by name.
func CoordinatorsList(svc coordinators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CoordinatorsGet returns one coordinator.
func CoordinatorsGet(svc coordinators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coordinatorID, err := pathUUID(r, "coordinatorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coordinator, err := svc.Get(r.Context(), coordinatorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coordinator)
	}
}

// CoordinatorsUpdate edits a coordinator record.
func CoordinatorsUpdate(svc coordinators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coordinatorID, err := pathUUID(r, "coordinatorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload coordinatorUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), coordinatorID, coordinators.UpdateCoordinatorInput{
			Name:  payload.Name,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CoordinatorsDelete removes a coordinator.
func CoordinatorsDelete(svc coordinators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coordinatorID, err := pathUUID(r, "coordinatorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), coordinatorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
