package controllers

import (
	"net/http"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/api/validators"
	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type assignmentCreateRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
}

type assignmentStatusRequest struct {
	Status string `json:"status"`
}

type assignmentTimesRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// AssignmentsCreate adds a staff member to an order's roster.
func AssignmentsCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload assignmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		staffID, err := parseUUIDField(payload.StaffID, "staff_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.AssignStaff(r.Context(), orders.AssignStaffInput{
			OrderID: orderID,
			StaffID: staffID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// AssignmentsChangeStatus overwrites one assignment's reply status.
func AssignmentsChangeStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload assignmentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseAssignmentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment status"))
			return
		}
		assignment, err := svc.ChangeAssignmentStatus(r.Context(), orders.ChangeAssignmentStatusInput{
			OrderID:      orderID,
			AssignmentID: assignmentID,
			Status:       status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentsUpdateTimes overrides one assignment's entry and exit times.
func AssignmentsUpdateTimes(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload assignmentTimesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.UpdateAssignmentTimes(r.Context(), orders.UpdateAssignmentTimesInput{
			OrderID:      orderID,
			AssignmentID: assignmentID,
			StartTime:    payload.StartTime,
			EndTime:      payload.EndTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentsRemove drops a staff member from the roster regardless of
// reply status.
func AssignmentsRemove(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveAssignment(r.Context(), orders.RemoveAssignmentInput{
			OrderID:      orderID,
			AssignmentID: assignmentID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
