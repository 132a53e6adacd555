package coordinators

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

type stubCoordinatorRepo struct {
	byID map[uuid.UUID]*models.Coordinator
}

func newStubCoordinatorRepo() *stubCoordinatorRepo {
	return &stubCoordinatorRepo{byID: map[uuid.UUID]*models.Coordinator{}}
}

func (r *stubCoordinatorRepo) add(coordinator *models.Coordinator) *models.Coordinator {
	if coordinator.ID == uuid.Nil {
		coordinator.ID = uuid.New()
	}
	r.byID[coordinator.ID] = coordinator
	return coordinator
}

func (r *stubCoordinatorRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubCoordinatorRepo) CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) (*models.Coordinator, error) {
	return r.add(coordinator), nil
}

func (r *stubCoordinatorRepo) FindCoordinator(ctx context.Context, coordinatorID uuid.UUID) (*models.Coordinator, error) {
	coordinator, ok := r.byID[coordinatorID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return coordinator, nil
}

func (r *stubCoordinatorRepo) ListCoordinators(ctx context.Context) ([]models.Coordinator, error) {
	out := make([]models.Coordinator, 0, len(r.byID))
	for _, coordinator := range r.byID {
		out = append(out, *coordinator)
	}
	return out, nil
}

func (r *stubCoordinatorRepo) UpdateCoordinator(ctx context.Context, coordinatorID uuid.UUID, updates map[string]any) error {
	coordinator, ok := r.byID[coordinatorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		coordinator.Name = name
	}
	if phone, ok := updates["phone"].(string); ok {
		coordinator.Phone = phone
	}
	return nil
}

func (r *stubCoordinatorRepo) DeleteCoordinator(ctx context.Context, coordinatorID uuid.UUID) error {
	if _, ok := r.byID[coordinatorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, coordinatorID)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateCoordinator(t *testing.T) {
	repo := newStubCoordinatorRepo()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), CreateCoordinatorInput{Name: "Jorge Lema", Phone: "+34677000111"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("created coordinator has no id")
	}
}

func TestCreateCoordinatorRequiresNameAndPhone(t *testing.T) {
	svc := newTestService(t, newStubCoordinatorRepo())

	cases := []struct {
		name  string
		input CreateCoordinatorInput
	}{
		{"missing name", CreateCoordinatorInput{Phone: "+34677"}},
		{"missing phone", CreateCoordinatorInput{Name: "Jorge"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
				t.Fatalf("code = %v, want %v", code, pkgerrors.CodeValidation)
			}
		})
	}
}

func TestUpdateCoordinatorPhone(t *testing.T) {
	repo := newStubCoordinatorRepo()
	coordinator := repo.add(&models.Coordinator{Name: "Nuria Paz", Phone: "+34600"})
	svc := newTestService(t, repo)

	phone := "+34699888777"
	updated, err := svc.Update(context.Background(), coordinator.ID, UpdateCoordinatorInput{Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone = %q, want %q", updated.Phone, phone)
	}
}

func TestGetUnknownCoordinator(t *testing.T) {
	svc := newTestService(t, newStubCoordinatorRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("code = %v, want %v", code, pkgerrors.CodeNotFound)
	}
}

func TestDeleteCoordinator(t *testing.T) {
	repo := newStubCoordinatorRepo()
	coordinator := repo.add(&models.Coordinator{Name: "Para Borrar", Phone: "+34600"})
	svc := newTestService(t, repo)

	if err := svc.Delete(context.Background(), coordinator.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), coordinator.ID); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
