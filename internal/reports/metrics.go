package reports

import (
	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

// PeriodMetrics aggregates staffing state over every order whose event
// date falls inside a window.
type PeriodMetrics struct {
	EventCount     int `json:"event_count"`
	RequiredStaff  int `json:"required_staff"`
	SentCount      int `json:"sent_count"`
	ConfirmedCount int `json:"confirmed_count"`
	MissingCount   int `json:"missing_count"`
	FlaggedStaff   int `json:"flagged_staff"`
	AvailableStaff int `json:"available_staff"`
}

// ComputePeriodMetrics runs the linear aggregation. Orders outside the
// window are skipped; the staff counters are roster-wide.
func ComputePeriodMetrics(orderList []models.Order, staffList []models.Staff, window Window) PeriodMetrics {
	metrics := PeriodMetrics{}

	for i := range orderList {
		order := &orderList[i]
		if !window.Contains(order.EventDate) {
			continue
		}
		metrics.EventCount++
		metrics.RequiredStaff += orders.RequiredHeadcount(order)
		metrics.MissingCount += orders.StaffingGap(order)
		for _, assignment := range order.Assignments {
			switch assignment.Status {
			case enums.AssignmentStatusSent:
				metrics.SentCount++
			case enums.AssignmentStatusConfirmed:
				metrics.ConfirmedCount++
			}
		}
	}

	for _, staff := range staffList {
		switch staff.Status {
		case enums.StaffStatusFlagged:
			metrics.FlaggedStaff++
		case enums.StaffStatusActive:
			metrics.AvailableStaff++
		}
	}

	return metrics
}
