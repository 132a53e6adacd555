package reports

import (
	"testing"
	"time"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

func peakOrder(date time.Time, count1 int, start1 string, count2 int, start2 *string) models.Order {
	order := models.Order{
		EventDate:   date,
		Shift1Count: count1,
		Shift1Start: start1,
		Shift1End:   "23:00",
		Shift2Count: count2,
		Shift2Start: start2,
	}
	return order
}

func TestPeakSimultaneousDemandOverlap(t *testing.T) {
	day := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	window := Today(day)
	second := "14:00"

	// 12:00 shift occupies 12:00-17:00, 14:00 shift 14:00-19:00; they
	// overlap between 14:00 and 17:00.
	orderList := []models.Order{
		peakOrder(day, 3, "12:00", 0, nil),
		peakOrder(day, 0, "09:00", 2, &second),
	}

	demand := PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 5 {
		t.Fatalf("expected peak 5 got %d", demand.Peak)
	}
	if demand.PeakDay == nil || !demand.PeakDay.Equal(day) {
		t.Fatalf("unexpected peak day %v", demand.PeakDay)
	}
}

func TestPeakFixedFiveHourOccupancy(t *testing.T) {
	day := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	window := Today(day)

	// 10:00 occupies until 15:00 regardless of the entered end; a 15:30
	// shift therefore does not overlap it.
	orderList := []models.Order{
		peakOrder(day, 4, "10:00", 0, nil),
		peakOrder(day, 3, "15:30", 0, nil),
	}

	demand := PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 4 {
		t.Fatalf("expected non-overlapping peak 4 got %d", demand.Peak)
	}

	// Move the second shift inside the five-hour block and they stack.
	orderList[1].Shift1Start = "14:30"
	demand = PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 7 {
		t.Fatalf("expected overlapping peak 7 got %d", demand.Peak)
	}
}

func TestPeakDaysDoNotMix(t *testing.T) {
	window, err := Range(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	dayA := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	dayB := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	orderList := []models.Order{
		peakOrder(dayA, 3, "12:00", 0, nil),
		peakOrder(dayB, 4, "12:00", 0, nil),
	}

	demand := PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 4 {
		t.Fatalf("same-time shifts on different days must not stack, got %d", demand.Peak)
	}
	if demand.PeakDay == nil || !demand.PeakDay.Equal(dayB) {
		t.Fatalf("unexpected peak day %v", demand.PeakDay)
	}
}

func TestPeakTieSettlesOnEarliestDay(t *testing.T) {
	window, err := Range(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	dayA := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dayB := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	orderList := []models.Order{
		peakOrder(dayB, 4, "12:00", 0, nil),
		peakOrder(dayA, 4, "12:00", 0, nil),
	}

	for i := 0; i < 50; i++ {
		demand := PeakSimultaneousDemand(orderList, window)
		if demand.Peak != 4 {
			t.Fatalf("expected peak 4 got %d", demand.Peak)
		}
		if demand.PeakDay == nil || !demand.PeakDay.Equal(dayA) {
			t.Fatalf("tied days must report the earlier one, got %v", demand.PeakDay)
		}
	}
}

func TestPeakIgnoresOrdersOutsideWindow(t *testing.T) {
	window := Today(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC))
	orderList := []models.Order{
		peakOrder(time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), 10, "12:00", 0, nil),
	}

	demand := PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 0 || demand.PeakDay != nil {
		t.Fatalf("expected empty demand got %+v", demand)
	}
}

func TestPeakBothShiftsOfOneOrderStack(t *testing.T) {
	day := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	window := Today(day)
	second := "13:00"
	orderList := []models.Order{
		peakOrder(day, 2, "12:00", 3, &second),
	}

	demand := PeakSimultaneousDemand(orderList, window)
	if demand.Peak != 5 {
		t.Fatalf("expected both shifts to overlap for peak 5, got %d", demand.Peak)
	}
}
