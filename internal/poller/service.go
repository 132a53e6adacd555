// Package poller refreshes order rosters on a fixed cadence and surfaces
// ephemeral notifications when a staff member confirms or rejects.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
	"github.com/jmoralesv/turnia-backend/pkg/metrics"
)

const defaultInterval = 15 * time.Second

type ordersLister interface {
	ListOrders(ctx context.Context, filters orders.ListFilters) ([]models.Order, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// ServiceParams wires the poller's dependencies.
type ServiceParams struct {
	Logger     *logger.Logger
	Repository ordersLister
	Feed       *Feed
	Publisher  eventPublisher
	Metrics    *metrics.PollerMetrics
	Interval   time.Duration
}

type assignmentKey struct {
	orderID uuid.UUID
	staffID uuid.UUID
}

// Service re-reads every order roster on an interval, diffs assignment
// statuses against the previous cycle, and emits a notification for each
// transition into confirmado or rechazado.
type Service struct {
	logg      *logger.Logger
	repo      ordersLister
	feed      *Feed
	publisher eventPublisher
	metrics   *metrics.PollerMetrics
	interval  time.Duration

	primed   bool
	snapshot map[assignmentKey]enums.AssignmentStatus

	now func() time.Time
}

// NewService builds the polling service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("notification feed required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:      params.Logger,
		repo:      params.Repository,
		feed:      params.Feed,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		interval:  interval,
		snapshot:  map[assignmentKey]enums.AssignmentStatus{},
		now:       time.Now,
	}, nil
}

// Run polls until the context is canceled. The first cycle runs immediately
// and only primes the snapshot; notifications start on the second cycle.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.RunCycle(ctx); err != nil {
		s.logg.Error(ctx, "refresh cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "poller context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunCycle(ctx); err != nil {
				s.logg.Error(ctx, "refresh cycle failed", err)
			}
		}
	}
}

// RunCycle executes one refresh pass.
func (s *Service) RunCycle(ctx context.Context) error {
	started := s.now()

	orderList, err := s.repo.ListOrders(ctx, orders.ListFilters{})
	if err != nil {
		s.metrics.IncCycle("error")
		return fmt.Errorf("list orders: %w", err)
	}

	next := make(map[assignmentKey]enums.AssignmentStatus, len(s.snapshot))
	for oi := range orderList {
		order := &orderList[oi]
		for ai := range order.Assignments {
			assignment := &order.Assignments[ai]
			key := assignmentKey{orderID: order.ID, staffID: assignment.StaffID}
			next[key] = assignment.Status

			if !s.primed {
				continue
			}
			previous, seen := s.snapshot[key]
			if seen && previous == assignment.Status {
				continue
			}
			switch assignment.Status {
			case enums.AssignmentStatusConfirmed, enums.AssignmentStatusRejected:
				s.emit(ctx, order, assignment)
			}
		}
	}

	s.snapshot = next
	s.primed = true

	s.metrics.IncCycle("ok")
	s.metrics.ObserveCycleDuration(s.now().Sub(started))
	return nil
}

func (s *Service) emit(ctx context.Context, order *models.Order, assignment *models.Assignment) {
	notification := s.feed.Publish(Notification{
		OrderID:      order.ID,
		OrderCode:    order.Code,
		AssignmentID: assignment.ID,
		StaffID:      assignment.StaffID,
		StaffName:    assignment.StaffName,
		Status:       assignment.Status,
	})
	s.metrics.IncNotification(assignment.Status.String())

	ctx = s.logg.WithOrderCode(s.logg.WithStaffID(ctx, assignment.StaffID.String()), order.Code)
	s.logg.Info(ctx, "assignment status changed")

	s.publishEvent(ctx, order, assignment, notification.EmittedAt)
}

// publishEvent mirrors the changed status onto the event topic. Failures
// are logged and swallowed.
func (s *Service) publishEvent(ctx context.Context, order *models.Order, assignment *models.Assignment, occurredAt time.Time) {
	if s.publisher == nil {
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

	event := orders.AssignmentEvent{
		EventType:    eventType,
		OrderID:      order.ID,
		OrderCode:    order.Code,
		AssignmentID: assignment.ID,
		StaffID:      assignment.StaffID,
		StaffName:    assignment.StaffName,
		Status:       assignment.Status,
		OccurredAt:   occurredAt.UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logg.Error(ctx, "marshal assignment event", err)
		return
	}
	if _, err := s.publisher.Publish(ctx, data, map[string]string{
		"event_type": eventType.String(),
	}); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("assignment event publish failed: %v", err))
	}
}
