package orders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

const orderCodePrefix = "PED"

// RequiredHeadcount is the total number of staff the order needs across
// both shifts.
func RequiredHeadcount(order *models.Order) int {
	if order == nil {
		return 0
	}
	return order.Shift1Count + order.Shift2Count
}

// IsFullyStaffed reports whether confirmed assignments cover the required
// headcount. An order that requires nobody, or has an empty roster, is
// never considered fully staffed.
func IsFullyStaffed(order *models.Order) bool {
	if order == nil {
		return false
	}
	required := RequiredHeadcount(order)
	if required == 0 || len(order.Assignments) == 0 {
		return false
	}

	confirmed := 0
	for _, assignment := range order.Assignments {
		if assignment.Status == enums.AssignmentStatusConfirmed {
			confirmed++
		}
	}
	return confirmed >= required
}

// StaffingGap is how many roster slots remain unfilled: required headcount
// minus assignments present, regardless of their reply status. Never
// negative.
func StaffingGap(order *models.Order) int {
	if order == nil {
		return 0
	}
	gap := RequiredHeadcount(order) - len(order.Assignments)
	if gap < 0 {
		return 0
	}
	return gap
}

// nextOrderCode derives the next sequential PED code from the existing
// ones. Malformed codes are skipped; gaps are not reused.
func nextOrderCode(existing []string) string {
	max := 0
	for _, code := range existing {
		trimmed := strings.TrimSpace(code)
		if !strings.HasPrefix(trimmed, orderCodePrefix) {
			continue
		}
		n, err := strconv.Atoi(trimmed[len(orderCodePrefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", orderCodePrefix, max+1)
}

// nextPosition is one past the highest roster position, so a slot freed
// by removal is never reissued and "position ASC" stays unambiguous.
func nextPosition(assignments []models.Assignment) int {
	next := 0
	for _, assignment := range assignments {
		if assignment.Position >= next {
			next = assignment.Position + 1
		}
	}
	return next
}

// shiftForPosition resolves which shift a newly added assignment belongs
// to: the first shift1_count roster slots are shift 1, the rest shift 2.
func shiftForPosition(order *models.Order, position int) (shift int, start, end string) {
	if position < order.Shift1Count || order.Shift2Count == 0 {
		return 1, order.Shift1Start, order.Shift1End
	}

	start = order.Shift1Start
	end = order.Shift1End
	if order.Shift2Start != nil {
		start = *order.Shift2Start
	}
	if order.Shift2End != nil {
		end = *order.Shift2End
	}
	return 2, start, end
}
