package reports

import (
	"testing"
	"time"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

func reportOrder(date time.Time, required1, required2 int, statuses ...enums.AssignmentStatus) models.Order {
	order := models.Order{
		EventDate:   date,
		Shift1Count: required1,
		Shift1Start: "12:00",
		Shift1End:   "17:00",
		Shift2Count: required2,
	}
	for _, status := range statuses {
		order.Assignments = append(order.Assignments, models.Assignment{Status: status})
	}
	return order
}

func TestComputePeriodMetrics(t *testing.T) {
	inside := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	window, err := Range(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	orderList := []models.Order{
		// 3 required, 2 assigned (1 confirmed, 1 sent) -> gap 1
		reportOrder(inside, 3, 0, enums.AssignmentStatusConfirmed, enums.AssignmentStatusSent),
		// 2+1 required, 1 confirmed, 1 rejected -> gap 1
		reportOrder(inside, 2, 1, enums.AssignmentStatusConfirmed, enums.AssignmentStatusRejected),
		// outside the window: ignored entirely
		reportOrder(outside, 5, 0, enums.AssignmentStatusConfirmed),
	}
	staffList := []models.Staff{
		{Status: enums.StaffStatusActive},
		{Status: enums.StaffStatusActive},
		{Status: enums.StaffStatusFlagged},
	}

	metrics := ComputePeriodMetrics(orderList, staffList, window)

	if metrics.EventCount != 2 {
		t.Fatalf("expected 2 events got %d", metrics.EventCount)
	}
	if metrics.RequiredStaff != 6 {
		t.Fatalf("expected 6 required got %d", metrics.RequiredStaff)
	}
	if metrics.SentCount != 1 || metrics.ConfirmedCount != 2 {
		t.Fatalf("unexpected sent/confirmed %d/%d", metrics.SentCount, metrics.ConfirmedCount)
	}
	if metrics.MissingCount != 2 {
		t.Fatalf("expected missing 2 got %d", metrics.MissingCount)
	}
	if metrics.FlaggedStaff != 1 || metrics.AvailableStaff != 2 {
		t.Fatalf("unexpected staff counters %d/%d", metrics.FlaggedStaff, metrics.AvailableStaff)
	}
}

func TestComputePeriodMetricsEmpty(t *testing.T) {
	window := Today(time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC))
	metrics := ComputePeriodMetrics(nil, nil, window)
	if metrics != (PeriodMetrics{}) {
		t.Fatalf("expected zero metrics got %+v", metrics)
	}
}
