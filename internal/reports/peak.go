package reports

import (
	"sort"
	"time"

	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/db/models"
)

// Every shift is counted as occupying a fixed five-hour block from its
// start, regardless of the entered end time. Planning wants worst-case
// overlap, not exact rosters.
const shiftOccupancyMinutes = 5 * 60

// PeakDemand is the highest simultaneous staff requirement seen on any
// single day of the window.
type PeakDemand struct {
	Peak    int        `json:"peak"`
	PeakDay *time.Time `json:"peak_day,omitempty"`
}

type shiftInterval struct {
	start int
	end   int
	count int
}

// PeakSimultaneousDemand sweeps each calendar day's shift intervals and
// returns the maximum overlapping headcount across the window.
func PeakSimultaneousDemand(orderList []models.Order, window Window) PeakDemand {
	byDay := map[time.Time][]shiftInterval{}

	for i := range orderList {
		order := &orderList[i]
		if !window.Contains(order.EventDate) {
			continue
		}
		day := dateOf(order.EventDate)
		for _, interval := range orderIntervals(order) {
			byDay[day] = append(byDay[day], interval)
		}
	}

	// Walk the window oldest first so a tie settles on the earliest day.
	result := PeakDemand{}
	for _, day := range window.Days() {
		intervals, ok := byDay[day]
		if !ok {
			continue
		}
		peak := sweepPeak(intervals)
		if peak > result.Peak {
			result.Peak = peak
			peakDay := day
			result.PeakDay = &peakDay
		}
	}
	return result
}

// orderIntervals expands an order into fixed-occupancy intervals, one per
// staffed shift.
func orderIntervals(order *models.Order) []shiftInterval {
	intervals := []shiftInterval{}

	if order.Shift1Count > 0 {
		if start, err := orders.ParseClock(order.Shift1Start); err == nil {
			intervals = append(intervals, shiftInterval{
				start: start,
				end:   start + shiftOccupancyMinutes,
				count: order.Shift1Count,
			})
		}
	}
	if order.Shift2Count > 0 && order.Shift2Start != nil {
		if start, err := orders.ParseClock(*order.Shift2Start); err == nil {
			intervals = append(intervals, shiftInterval{
				start: start,
				end:   start + shiftOccupancyMinutes,
				count: order.Shift2Count,
			})
		}
	}
	return intervals
}

// sweepPeak runs the sweep line: net headcount deltas per minute mark in
// ascending order, tracking the running-sum maximum.
func sweepPeak(intervals []shiftInterval) int {
	deltas := map[int]int{}
	for _, interval := range intervals {
		deltas[interval.start] += interval.count
		deltas[interval.end] -= interval.count
	}

	marks := make([]int, 0, len(deltas))
	for mark := range deltas {
		marks = append(marks, mark)
	}
	sort.Ints(marks)

	peak := 0
	running := 0
	for _, mark := range marks {
		running += deltas[mark]
		if running > peak {
			peak = running
		}
	}
	return peak
}
