package controllers

import (
	"net/http"
	"time"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/api/validators"
	"github.com/jmoralesv/turnia-backend/internal/reports"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

// resolveWindow picks the reporting window from the request: a named
// period (today, week, month) or an explicit from/to pair. Defaults to
// the current week.
func resolveWindow(r *http.Request) (reports.Window, error) {
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return reports.Window{}, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return reports.Window{}, err
	}
	if from != nil || to != nil {
		if from == nil || to == nil {
			return reports.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		return reports.Range(*from, *to)
	}

	now := time.Now()
	switch r.URL.Query().Get("period") {
	case "", "week":
		return reports.ThisWeek(now), nil
	case "today":
		return reports.Today(now), nil
	case "month":
		return reports.ThisMonth(now), nil
	}
	return reports.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "period must be today, week or month")
}

// ReportsMetrics returns the aggregate staffing counters for a window.
func ReportsMetrics(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := resolveWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		metrics, err := svc.PeriodMetrics(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

// ReportsPeakDemand returns the maximum simultaneous staff requirement
// inside a window.
func ReportsPeakDemand(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := resolveWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		peak, err := svc.PeakDemand(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, peak)
	}
}
