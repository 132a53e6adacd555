package reports

import (
	"context"
	"fmt"

	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

type ordersReader interface {
	ListOrders(ctx context.Context, filters orders.ListFilters) ([]models.Order, error)
}

type staffReader interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
}

// Service exposes the reporting aggregations over the stored orders and
// staff roster. The aggregation itself is pure; the service only feeds it.
type Service struct {
	orders ordersReader
	staff  staffReader
}

// NewService builds the reporting service.
func NewService(ordersRepo ordersReader, staffRepo staffReader) (*Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if staffRepo == nil {
		return nil, fmt.Errorf("staff reader required")
	}
	return &Service{orders: ordersRepo, staff: staffRepo}, nil
}

// PeriodMetrics aggregates staffing counters for the window.
func (s *Service) PeriodMetrics(ctx context.Context, window Window) (*PeriodMetrics, error) {
	orderList, staffList, err := s.load(ctx, window)
	if err != nil {
		return nil, err
	}
	metrics := ComputePeriodMetrics(orderList, staffList, window)
	return &metrics, nil
}

// PeakDemand computes the worst simultaneous staff requirement inside the
// window.
func (s *Service) PeakDemand(ctx context.Context, window Window) (*PeakDemand, error) {
	orderList, err := s.loadOrders(ctx, window)
	if err != nil {
		return nil, err
	}
	demand := PeakSimultaneousDemand(orderList, window)
	return &demand, nil
}

func (s *Service) load(ctx context.Context, window Window) ([]models.Order, []models.Staff, error) {
	orderList, err := s.loadOrders(ctx, window)
	if err != nil {
		return nil, nil, err
	}
	staffList, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	return orderList, staffList, nil
}

func (s *Service) loadOrders(ctx context.Context, window Window) ([]models.Order, error) {
	from := window.From
	to := window.To
	orderList, err := s.orders.ListOrders(ctx, orders.ListFilters{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderList, nil
}
