package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/internal/orders"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// expiryRepo covers the roster reads and deletes the sweep needs.
type expiryRepo interface {
	WithTx(tx *gorm.DB) orders.Repository
	FindOrderIDsWithExpiredRejections(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// AssignmentExpiryJobParams configure the rejected-assignment sweep.
type AssignmentExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository expiryRepo
}

// NewAssignmentExpiryJob builds the cron job that removes rejected
// assignments once their scheduled deletion time has passed.
func NewAssignmentExpiryJob(params AssignmentExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &assignmentExpiryJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type assignmentExpiryJob struct {
	logg *logger.Logger
	db   txRunner
	repo expiryRepo
	now  func() time.Time
}

func (j *assignmentExpiryJob) Name() string { return "assignment-expiry" }

// Run deletes every rejected assignment whose removal is due. Each order
// is swept in its own transaction so one failure cannot abort the rest.
func (j *assignmentExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()

	orderIDs, err := j.repo.FindOrderIDsWithExpiredRejections(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query expired rejections: %w", err)
	}
	if len(orderIDs) == 0 {
		return nil
	}

	var errs []error
	var removed int64
	swept := 0
	for _, orderID := range orderIDs {
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			rows, err := j.repo.WithTx(tx).DeleteExpiredRejections(ctx, orderID, cutoff)
			if err != nil {
				return err
			}
			removed += rows
			return nil
		})
		if err != nil {
			errCtx := j.logg.WithOrderID(ctx, orderID.String())
			j.logg.Error(errCtx, "expiry sweep failed for order", err)
			errs = append(errs, fmt.Errorf("sweep order %s: %w", orderID, err))
			continue
		}
		swept++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"orders_swept": swept,
		"rows_removed": removed,
	})
	j.logg.Info(logCtx, "assignment expiry sweep complete")
	return multierr.Combine(errs...)
}
