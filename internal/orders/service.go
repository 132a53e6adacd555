package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StaffNotifier reaches a staff member on their phone. Matched by the
// WhatsApp client; nil disables outbound messages.
type StaffNotifier interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// EventPublisher pushes assignment events for downstream automation; nil
// disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// TravelEstimator resolves driving minutes to a venue; nil means only the
// order's manual travel value is available.
type TravelEstimator interface {
	EstimateTravelMinutes(ctx context.Context, destination string) (int, error)
}

// RosterMailer emails the client contact once their roster is fully
// confirmed; nil disables the summary email.
type RosterMailer interface {
	SendEmail(ctx context.Context, toEmail, subject, body string) error
}

// Service defines order and roster lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error

	AssignStaff(ctx context.Context, input AssignStaffInput) (*models.Assignment, error)
	ChangeAssignmentStatus(ctx context.Context, input ChangeAssignmentStatusInput) (*models.Assignment, error)
	UpdateAssignmentTimes(ctx context.Context, input UpdateAssignmentTimesInput) (*models.Assignment, error)
	RemoveAssignment(ctx context.Context, input RemoveAssignmentInput) error

	MeetingTime(ctx context.Context, orderID uuid.UUID) (*MeetingTime, error)
}

type service struct {
	repo           Repository
	tx             txRunner
	logg           *logger.Logger
	notifier       StaffNotifier
	publisher      EventPublisher
	travel         TravelEstimator
	mailer         RosterMailer
	rejectionDelay time.Duration
	now            func() time.Time
}

// NewService builds the orders service. notifier, publisher, travel and
// mailer may be nil; the matching side effects are then skipped.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, notifier StaffNotifier, publisher EventPublisher, travel TravelEstimator, mailer RosterMailer, rejectionDelay time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rejectionDelay <= 0 {
		return nil, fmt.Errorf("rejection delay must be positive")
	}
	return &service{
		repo:           repo,
		tx:             tx,
		logg:           logg,
		notifier:       notifier,
		publisher:      publisher,
		travel:         travel,
		mailer:         mailer,
		rejectionDelay: rejectionDelay,
		now:            time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		codes, err := repo.ListOrderCodes(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order codes")
		}

		order := &models.Order{
			Code:          nextOrderCode(codes),
			ClientName:    input.ClientName,
			Venue:         input.Venue,
			EventDate:     input.EventDate,
			Shift1Count:   input.Shift1Count,
			Shift1Start:   input.Shift1Start,
			Shift1End:     input.Shift1End,
			Shift2Count:   input.Shift2Count,
			Shift2Start:   input.Shift2Start,
			Shift2End:     input.Shift2End,
			Catering:      input.Catering,
			TravelMinutes: input.TravelMinutes,
			ShirtColor:    input.ShirtColor,
			Notes:         input.Notes,
			CoordinatorID: input.CoordinatorID,
		}
		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderCode(ctx, created.Code), "order created")
	return created, nil
}

func (s *service) Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	updates, err := buildOrderUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, orderID)
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := findOrder(ctx, repo, orderID); err != nil {
			return err
		}
		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated, err = findOrder(ctx, repo, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return findOrder(ctx, s.repo, orderID)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := findOrder(ctx, repo, orderID); err != nil {
			return err
		}
		if err := repo.DeleteOrder(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) AssignStaff(ctx context.Context, input AssignStaffInput) (*models.Assignment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StaffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}

	var created *models.Assignment
	var order *models.Order
	var staff *models.Staff
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		order, err = findOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		for _, existing := range order.Assignments {
			if existing.StaffID == input.StaffID {
				return pkgerrors.New(pkgerrors.CodeConflict, "staff already assigned to order")
			}
		}

		staff, err = repo.FindStaff(ctx, input.StaffID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
		}

		position := nextPosition(order.Assignments)
		shift, start, end := shiftForPosition(order, len(order.Assignments))

		created, err = repo.CreateAssignment(ctx, &models.Assignment{
			OrderID:     order.ID,
			StaffID:     staff.ID,
			StaffName:   staff.Name,
			StaffNumber: staff.Number,
			Status:      enums.AssignmentStatusUnset,
			Shift:       shift,
			StartTime:   start,
			EndTime:     end,
			Position:    position,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStaffAssigned(ctx, order, staff, created)
	return created, nil
}

func (s *service) ChangeAssignmentStatus(ctx context.Context, input ChangeAssignmentStatusInput) (*models.Assignment, error) {
	if input.OrderID == uuid.Nil || input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and assignment id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid assignment status")
	}

	var updated *models.Assignment
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		order, err = findOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		assignment, err := findOrderAssignment(ctx, repo, input.OrderID, input.AssignmentID)
		if err != nil {
			return err
		}

		updates := map[string]any{"status": input.Status}
		switch {
		case input.Status == enums.AssignmentStatusRejected:
			updates["scheduled_deletion_at"] = s.now().Add(s.rejectionDelay)
		case assignment.Status == enums.AssignmentStatusRejected:
			// Leaving rechazado cancels the pending removal.
			updates["scheduled_deletion_at"] = nil
		}

		if err := repo.UpdateAssignment(ctx, assignment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment status")
		}

		updated, err = repo.FindAssignment(ctx, assignment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, order, updated)
	if updated.Status == enums.AssignmentStatusConfirmed && !IsFullyStaffed(order) && IsFullyStaffed(withAssignment(order, updated)) {
		s.emailRosterComplete(ctx, withAssignment(order, updated))
	}
	return updated, nil
}

// withAssignment returns a copy of the order whose roster reflects the
// given assignment's latest state.
func withAssignment(order *models.Order, assignment *models.Assignment) *models.Order {
	updated := *order
	updated.Assignments = make([]models.Assignment, len(order.Assignments))
	copy(updated.Assignments, order.Assignments)
	for i := range updated.Assignments {
		if updated.Assignments[i].ID == assignment.ID {
			updated.Assignments[i] = *assignment
		}
	}
	return &updated
}

func (s *service) UpdateAssignmentTimes(ctx context.Context, input UpdateAssignmentTimesInput) (*models.Assignment, error) {
	if input.OrderID == uuid.Nil || input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and assignment id required")
	}
	if _, err := ParseClock(input.StartTime); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time must be HH:MM")
	}
	if _, err := ParseClock(input.EndTime); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be HH:MM")
	}

	var updated *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := findOrderAssignment(ctx, repo, input.OrderID, input.AssignmentID)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"start_time": input.StartTime,
			"end_time":   input.EndTime,
		}
		if err := repo.UpdateAssignment(ctx, assignment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment times")
		}

		updated, err = repo.FindAssignment(ctx, assignment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RemoveAssignment(ctx context.Context, input RemoveAssignmentInput) error {
	if input.OrderID == uuid.Nil || input.AssignmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and assignment id required")
	}

	// Removal is unconditional, confirmed assignments included.
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := findOrderAssignment(ctx, repo, input.OrderID, input.AssignmentID)
		if err != nil {
			return err
		}
		if err := repo.DeleteAssignment(ctx, assignment.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
		}
		return nil
	})
}

func (s *service) MeetingTime(ctx context.Context, orderID uuid.UUID) (*MeetingTime, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Catering {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meeting time only applies to catering orders")
	}

	result := &MeetingTime{
		OrderID:    order.ID,
		ShiftStart: order.Shift1Start,
	}

	minutes, ok := s.travelMinutes(ctx, order)
	if !ok {
		result.Omitted = true
		return result, nil
	}

	startMinutes, err := ParseClock(order.Shift1Start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse shift start")
	}

	result.TravelMinutes = minutes
	result.MeetingAt = formatClock(startMinutes - minutes)
	return result, nil
}

// travelMinutes resolves the drive estimate, preferring the live routing
// service and falling back to the order's manual value.
func (s *service) travelMinutes(ctx context.Context, order *models.Order) (int, bool) {
	if s.travel != nil {
		minutes, err := s.travel.EstimateTravelMinutes(ctx, order.Venue)
		if err == nil && minutes >= 0 {
			return minutes, true
		}
		if err != nil {
			s.logg.Warn(s.logg.WithOrderCode(ctx, order.Code), fmt.Sprintf("travel estimate failed: %v", err))
		}
	}
	if order.TravelMinutes != nil && *order.TravelMinutes >= 0 {
		return *order.TravelMinutes, true
	}
	return 0, false
}

// notifyStaffAssigned sends the staffing request after the roster write
// committed; a messaging failure never fails the assignment.
func (s *service) notifyStaffAssigned(ctx context.Context, order *models.Order, staff *models.Staff, assignment *models.Assignment) {
	if s.notifier == nil || staff == nil || staff.Phone == "" {
		return
	}

	body := fmt.Sprintf(
		"Nuevo pedido %s: %s, %s el %s de %s a %s. Confirma tu disponibilidad.",
		order.Code, order.ClientName, order.Venue,
		order.EventDate.Format("02/01/2006"),
		assignment.StartTime, assignment.EndTime,
	)
	if _, err := s.notifier.SendText(ctx, staff.Phone, body); err != nil {
		s.logg.Warn(s.logg.WithStaffID(ctx, staff.ID.String()), fmt.Sprintf("staffing request send failed: %v", err))
	}
}

// emailRosterComplete tells the client their event is fully staffed. The
// order references clients by name; a missing or email-less client record
// skips the mail. Send failures are logged and swallowed.
func (s *service) emailRosterComplete(ctx context.Context, order *models.Order) {
	if s.mailer == nil {
		return
	}

	client, err := s.repo.FindClientByName(ctx, order.ClientName)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logg.Warn(s.logg.WithOrderCode(ctx, order.Code), fmt.Sprintf("load client for roster email failed: %v", err))
		}
		return
	}
	if client.Email == nil || *client.Email == "" {
		return
	}

	var roster strings.Builder
	for _, assignment := range order.Assignments {
		fmt.Fprintf(&roster, "- %s (%s) %s-%s\n", assignment.StaffName, assignment.StaffNumber, assignment.StartTime, assignment.EndTime)
	}
	subject := fmt.Sprintf("Equipo confirmado para %s", order.Code)
	body := fmt.Sprintf(
		"El equipo para %s en %s el %s está completo:\n\n%s",
		order.Code, order.Venue, order.EventDate.Format("02/01/2006"), roster.String(),
	)
	if err := s.mailer.SendEmail(ctx, *client.Email, subject, body); err != nil {
		s.logg.Warn(s.logg.WithOrderCode(ctx, order.Code), fmt.Sprintf("roster email send failed: %v", err))
	}
}

// publishStatusEvent emits a domain event when an assignment reaches a
// terminal reply state. Publish failures are logged and swallowed.
func (s *service) publishStatusEvent(ctx context.Context, order *models.Order, assignment *models.Assignment) {
	if s.publisher == nil || assignment == nil {
		return
	}

	var eventType enums.DomainEventType
	switch assignment.Status {
	case enums.AssignmentStatusConfirmed:
		eventType = enums.EventAssignmentConfirmed
	case enums.AssignmentStatusRejected:
		eventType = enums.EventAssignmentRejected
	default:
		return
	}

	event := AssignmentEvent{
		EventType:    eventType,
		OrderID:      order.ID,
		OrderCode:    order.Code,
		AssignmentID: assignment.ID,
		StaffID:      assignment.StaffID,
		StaffName:    assignment.StaffName,
		Status:       assignment.Status,
		OccurredAt:   s.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logg.Error(ctx, "marshal assignment event", err)
		return
	}
	attrs := map[string]string{"event_type": eventType.String()}
	if _, err := s.publisher.Publish(ctx, data, attrs); err != nil {
		s.logg.Warn(s.logg.WithOrderCode(ctx, order.Code), fmt.Sprintf("assignment event publish failed: %v", err))
	}
}

func findOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func findOrderAssignment(ctx context.Context, repo Repository, orderID, assignmentID uuid.UUID) (*models.Assignment, error) {
	assignment, err := repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if assignment.OrderID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found in order")
	}
	return assignment, nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if input.ClientName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}
	if input.Venue == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "venue required")
	}
	if input.EventDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "event date required")
	}
	if input.Shift1Count < 0 || input.Shift2Count < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shift headcounts must not be negative")
	}
	if input.Shift1Count+input.Shift2Count == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must require at least one staff member")
	}
	if _, err := ParseClock(input.Shift1Start); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shift 1 start must be HH:MM")
	}
	if _, err := ParseClock(input.Shift1End); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shift 1 end must be HH:MM")
	}
	if input.Shift2Count > 0 {
		if input.Shift2Start == nil || input.Shift2End == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "shift 2 times required when shift 2 has headcount")
		}
		if _, err := ParseClock(*input.Shift2Start); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "shift 2 start must be HH:MM")
		}
		if _, err := ParseClock(*input.Shift2End); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "shift 2 end must be HH:MM")
		}
	}
	return nil
}

func buildOrderUpdates(input UpdateOrderInput) (map[string]any, error) {
	updates := map[string]any{}

	setClock := func(column string, value *string) error {
		if value == nil {
			return nil
		}
		if _, err := ParseClock(*value); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be HH:MM", column))
		}
		updates[column] = *value
		return nil
	}

	if input.ClientName != nil {
		if *input.ClientName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name must not be empty")
		}
		updates["client_name"] = *input.ClientName
	}
	if input.Venue != nil {
		if *input.Venue == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "venue must not be empty")
		}
		updates["venue"] = *input.Venue
	}
	if input.EventDate != nil {
		updates["event_date"] = *input.EventDate
	}
	if input.Shift1Count != nil {
		if *input.Shift1Count < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift 1 headcount must not be negative")
		}
		updates["shift1_count"] = *input.Shift1Count
	}
	if input.Shift2Count != nil {
		if *input.Shift2Count < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift 2 headcount must not be negative")
		}
		updates["shift2_count"] = *input.Shift2Count
	}
	if err := setClock("shift1_start", input.Shift1Start); err != nil {
		return nil, err
	}
	if err := setClock("shift1_end", input.Shift1End); err != nil {
		return nil, err
	}
	if err := setClock("shift2_start", input.Shift2Start); err != nil {
		return nil, err
	}
	if err := setClock("shift2_end", input.Shift2End); err != nil {
		return nil, err
	}
	if input.Catering != nil {
		updates["catering"] = *input.Catering
	}
	if input.TravelMinutes != nil {
		updates["travel_minutes"] = *input.TravelMinutes
	}
	if input.ShirtColor != nil {
		updates["shirt_color"] = *input.ShirtColor
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.CoordinatorID != nil {
		updates["coordinator_id"] = *input.CoordinatorID
	}

	return updates, nil
}
