package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmoralesv/turnia-backend/pkg/db/models"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

type stubOrdersRepo struct {
	order       *models.Order
	orders      map[uuid.UUID]*models.Order
	staff       map[uuid.UUID]*models.Staff
	clients     map[string]*models.Client
	assignments map[uuid.UUID]*models.Assignment
	codes       []string

	createdOrder *models.Order
	orderUpdates map[string]any
	deletedIDs   []uuid.UUID
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:      map[uuid.UUID]*models.Order{},
		staff:       map[uuid.UUID]*models.Staff{},
		clients:     map[string]*models.Client{},
		assignments: map[uuid.UUID]*models.Assignment{},
	}
}

func (s *stubOrdersRepo) addOrder(order *models.Order) *models.Order {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	if s.order == nil {
		s.order = order
	}
	return order
}

func (s *stubOrdersRepo) addStaff(staff *models.Staff) *models.Staff {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	s.staff[staff.ID] = staff
	return staff
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	s.createdOrder = order
	s.codes = append(s.codes, order.Code)
	return order, nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Assignments = append([]models.Assignment(nil), order.Assignments...)
	return &copied, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (s *stubOrdersRepo) ListOrderCodes(ctx context.Context) ([]string, error) {
	return s.codes, nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if _, ok := s.orders[orderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.orderUpdates = updates
	return nil
}

func (s *stubOrdersRepo) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	delete(s.orders, orderID)
	s.deletedIDs = append(s.deletedIDs, orderID)
	return nil
}

func (s *stubOrdersRepo) FindStaff(ctx context.Context, staffID uuid.UUID) (*models.Staff, error) {
	staff, ok := s.staff[staffID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return staff, nil
}

func (s *stubOrdersRepo) FindClientByName(ctx context.Context, name string) (*models.Client, error) {
	client, ok := s.clients[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

func (s *stubOrdersRepo) CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error) {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	s.assignments[assignment.ID] = assignment
	if order, ok := s.orders[assignment.OrderID]; ok {
		order.Assignments = append(order.Assignments, *assignment)
	}
	return assignment, nil
}

func (s *stubOrdersRepo) FindAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error) {
	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (s *stubOrdersRepo) UpdateAssignment(ctx context.Context, assignmentID uuid.UUID, updates map[string]any) error {
	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			if v, ok := value.(enums.AssignmentStatus); ok {
				assignment.Status = v
			}
		case "scheduled_deletion_at":
			if value == nil {
				assignment.ScheduledDeletionAt = nil
			} else if v, ok := value.(time.Time); ok {
				assignment.ScheduledDeletionAt = &v
			}
		case "start_time":
			if v, ok := value.(string); ok {
				assignment.StartTime = v
			}
		case "end_time":
			if v, ok := value.(string); ok {
				assignment.EndTime = v
			}
		}
	}
	if order, ok := s.orders[assignment.OrderID]; ok {
		for i := range order.Assignments {
			if order.Assignments[i].ID == assignment.ID {
				order.Assignments[i] = *assignment
			}
		}
	}
	return nil
}

func (s *stubOrdersRepo) DeleteAssignment(ctx context.Context, assignmentID uuid.UUID) error {
	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.assignments, assignmentID)
	if order, ok := s.orders[assignment.OrderID]; ok {
		kept := order.Assignments[:0]
		for _, existing := range order.Assignments {
			if existing.ID != assignmentID {
				kept = append(kept, existing)
			}
		}
		order.Assignments = kept
	}
	return nil
}

func (s *stubOrdersRepo) FindOrderIDsWithExpiredRejections(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{}
	for _, assignment := range s.assignments {
		if assignment.Status != enums.AssignmentStatusRejected || assignment.ScheduledDeletionAt == nil {
			continue
		}
		if assignment.ScheduledDeletionAt.After(cutoff) {
			continue
		}
		if !seen[assignment.OrderID] {
			seen[assignment.OrderID] = true
			ids = append(ids, assignment.OrderID)
		}
	}
	return ids, nil
}

func (s *stubOrdersRepo) DeleteExpiredRejections(ctx context.Context, orderID uuid.UUID, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, assignment := range s.assignments {
		if assignment.OrderID != orderID {
			continue
		}
		if assignment.Status != enums.AssignmentStatusRejected || assignment.ScheduledDeletionAt == nil {
			continue
		}
		if assignment.ScheduledDeletionAt.After(cutoff) {
			continue
		}
		delete(s.assignments, id)
		deleted++
	}
	return deleted, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubNotifier struct {
	to   []string
	body []string
	err  error
}

func (s *stubNotifier) SendText(ctx context.Context, to, body string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.to = append(s.to, to)
	s.body = append(s.body, body)
	return "wamid.stub", nil
}

type stubPublisher struct {
	payloads [][]byte
	attrs    []map[string]string
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.payloads = append(s.payloads, data)
	s.attrs = append(s.attrs, attrs)
	return "msg-1", nil
}

type stubMailer struct {
	to       []string
	subjects []string
	bodies   []string
	err      error
}

func (s *stubMailer) SendEmail(ctx context.Context, toEmail, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, toEmail)
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	return nil
}

type stubTravel struct {
	minutes int
	err     error
}

func (s *stubTravel) EstimateTravelMinutes(ctx context.Context, destination string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.minutes, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test"})
}

func newTestService(t *testing.T, repo Repository, notifier StaffNotifier, publisher EventPublisher, travel TravelEstimator) *service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, testLogger(), notifier, publisher, travel, nil, 5*time.Hour)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc.(*service)
}

func strPtr(v string) *string { return &v }

func twoShiftOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		Code:        "PED007",
		ClientName:  "Eventos Ribera",
		Venue:       "Palacio de Congresos",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Shift1Count: 2,
		Shift1Start: "12:00",
		Shift1End:   "17:00",
		Shift2Count: 1,
		Shift2Start: strPtr("18:00"),
		Shift2End:   strPtr("23:00"),
	}
}

func TestAssignStaffDuplicateConflict(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Lucía Pérez", Number: "C014", Phone: "+34600111222"})
	svc := newTestService(t, repo, nil, nil, nil)

	first, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if first.Status != enums.AssignmentStatusUnset {
		t.Fatalf("new assignment should start without status, got %q", first.Status)
	}

	_, err = svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err == nil {
		t.Fatal("expected duplicate rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error %v", err)
	}
	if len(repo.assignments) != 1 {
		t.Fatalf("duplicate must not write, have %d assignments", len(repo.assignments))
	}
}

func TestAssignStaffShiftInference(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	svc := newTestService(t, repo, nil, nil, nil)

	expected := []struct {
		shift int
		start string
		end   string
	}{
		{1, "12:00", "17:00"},
		{1, "12:00", "17:00"},
		{2, "18:00", "23:00"},
		{2, "18:00", "23:00"}, // roster beyond the headcount still lands on shift 2
	}

	for i, want := range expected {
		staff := repo.addStaff(&models.Staff{Name: "Camarero", Number: "C00" + string(rune('1'+i)), Phone: "+34600000000"})
		assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
		if err != nil {
			t.Fatalf("assign %d failed: %v", i, err)
		}
		if assignment.Shift != want.shift {
			t.Fatalf("assignment %d: expected shift %d got %d", i, want.shift, assignment.Shift)
		}
		if assignment.StartTime != want.start || assignment.EndTime != want.end {
			t.Fatalf("assignment %d: expected %s-%s got %s-%s", i, want.start, want.end, assignment.StartTime, assignment.EndTime)
		}
		if assignment.Position != i {
			t.Fatalf("assignment %d: expected position %d got %d", i, i, assignment.Position)
		}
	}
}

func TestAssignStaffAfterRemovalKeepsPositionsUnique(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	svc := newTestService(t, repo, nil, nil, nil)

	first := repo.addStaff(&models.Staff{Name: "Ana Soto", Number: "C001", Phone: "+34600000001"})
	second := repo.addStaff(&models.Staff{Name: "Luis Vega", Number: "C002", Phone: "+34600000002"})
	third := repo.addStaff(&models.Staff{Name: "Sara Mora", Number: "C003", Phone: "+34600000003"})

	a1, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: first.ID})
	if err != nil {
		t.Fatalf("assign first failed: %v", err)
	}
	a2, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: second.ID})
	if err != nil {
		t.Fatalf("assign second failed: %v", err)
	}

	if err := svc.RemoveAssignment(context.Background(), RemoveAssignmentInput{OrderID: order.ID, AssignmentID: a1.ID}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	a3, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: third.ID})
	if err != nil {
		t.Fatalf("assign third failed: %v", err)
	}
	if a3.Position != a2.Position+1 {
		t.Fatalf("expected position %d after removal, got %d", a2.Position+1, a3.Position)
	}

	reloaded, err := svc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	seen := map[int]bool{}
	for _, assignment := range reloaded.Assignments {
		if seen[assignment.Position] {
			t.Fatalf("duplicate roster position %d", assignment.Position)
		}
		seen[assignment.Position] = true
	}
}

func TestAssignStaffSendsStaffingRequest(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Lucía Pérez", Number: "C014", Phone: "+34600111222"})
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, notifier, nil, nil)

	if _, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID}); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(notifier.to) != 1 || notifier.to[0] != "+34600111222" {
		t.Fatalf("expected one message to staff phone, got %v", notifier.to)
	}
}

func TestAssignStaffSurvivesNotifierFailure(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Lucía Pérez", Number: "C014", Phone: "+34600111222"})
	notifier := &stubNotifier{err: context.DeadlineExceeded}
	svc := newTestService(t, repo, notifier, nil, nil)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("messaging failure must not fail the assignment: %v", err)
	}
	if _, ok := repo.assignments[assignment.ID]; !ok {
		t.Fatal("assignment should be persisted")
	}
}

func TestChangeStatusRejectedSchedulesDeletion(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Mario Gil", Number: "C021", Phone: "+34600333444"})
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, nil, publisher, nil)

	fixed := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	updated, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusRejected,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.ScheduledDeletionAt == nil {
		t.Fatal("rechazado must schedule deletion")
	}
	if !updated.ScheduledDeletionAt.Equal(fixed.Add(5 * time.Hour)) {
		t.Fatalf("expected deletion at now+5h, got %v", updated.ScheduledDeletionAt)
	}
	if len(publisher.payloads) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.payloads))
	}
	if publisher.attrs[0]["event_type"] != enums.EventAssignmentRejected.String() {
		t.Fatalf("unexpected event attrs %v", publisher.attrs[0])
	}

	// Leaving rechazado clears the pending removal.
	updated, err = svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.ScheduledDeletionAt != nil {
		t.Fatalf("leaving rechazado must clear scheduled deletion, got %v", updated.ScheduledDeletionAt)
	}
	if len(publisher.payloads) != 2 {
		t.Fatalf("confirmado should publish, got %d events", len(publisher.payloads))
	}
}

func TestChangeStatusOtherTransitionsKeepSchedule(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Mario Gil", Number: "C021", Phone: "+34600333444"})
	publisher := &stubPublisher{}
	svc := newTestService(t, repo, nil, publisher, nil)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	updated, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusSent,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.ScheduledDeletionAt != nil {
		t.Fatalf("enviado must not schedule deletion, got %v", updated.ScheduledDeletionAt)
	}
	if len(publisher.payloads) != 0 {
		t.Fatalf("enviado must not publish, got %d events", len(publisher.payloads))
	}
}

func TestChangeStatusSurvivesPublisherFailure(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Mario Gil", Number: "C021", Phone: "+34600333444"})
	publisher := &stubPublisher{err: context.DeadlineExceeded}
	svc := newTestService(t, repo, nil, publisher, nil)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	updated, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the mutation: %v", err)
	}
	if updated.Status != enums.AssignmentStatusConfirmed {
		t.Fatalf("unexpected status %q", updated.Status)
	}
}

func TestChangeStatusFullRosterEmailsClient(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(&models.Order{
		ID:          uuid.New(),
		Code:        "PED009",
		ClientName:  "Eventos Ribera",
		Venue:       "Palacio de Congresos",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Shift1Count: 1,
		Shift1Start: "12:00",
		Shift1End:   "17:00",
	})
	repo.clients["Eventos Ribera"] = &models.Client{
		ID:    uuid.New(),
		Name:  "Eventos Ribera",
		Email: strPtr("eventos@ribera.example"),
	}
	staff := repo.addStaff(&models.Staff{Name: "Lucía Pérez", Number: "C014", Phone: "+34600111222"})
	mailer := &stubMailer{}
	svc, err := NewService(repo, stubTxRunner{}, testLogger(), nil, nil, nil, mailer, 5*time.Hour)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(mailer.to) != 0 {
		t.Fatalf("no email before confirmation, got %d", len(mailer.to))
	}

	if _, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusConfirmed,
	}); err != nil {
		t.Fatalf("expected success got %v", err)
	}

	if len(mailer.to) != 1 {
		t.Fatalf("expected one roster email, got %d", len(mailer.to))
	}
	if mailer.to[0] != "eventos@ribera.example" {
		t.Fatalf("unexpected recipient %q", mailer.to[0])
	}
	if mailer.subjects[0] != "Equipo confirmado para PED009" {
		t.Fatalf("unexpected subject %q", mailer.subjects[0])
	}
	if !strings.Contains(mailer.bodies[0], "Lucía Pérez") {
		t.Fatalf("roster body missing staff name: %q", mailer.bodies[0])
	}
}

func TestChangeStatusPartialRosterSendsNoEmail(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	repo.clients[order.ClientName] = &models.Client{
		ID:    uuid.New(),
		Name:  order.ClientName,
		Email: strPtr("eventos@ribera.example"),
	}
	staff := repo.addStaff(&models.Staff{Name: "Mario Gil", Number: "C021", Phone: "+34600333444"})
	mailer := &stubMailer{}
	svc, err := NewService(repo, stubTxRunner{}, testLogger(), nil, nil, nil, mailer, 5*time.Hour)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusConfirmed,
	}); err != nil {
		t.Fatalf("expected success got %v", err)
	}

	if len(mailer.to) != 0 {
		t.Fatalf("one confirmation out of three slots must not email, got %d", len(mailer.to))
	}
}

func TestRemoveAssignmentUnconditional(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	staff := repo.addStaff(&models.Staff{Name: "Sara Ruiz", Number: "C030", Phone: "+34600555666"})
	svc := newTestService(t, repo, nil, nil, nil)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.ChangeAssignmentStatus(context.Background(), ChangeAssignmentStatusInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
		Status:       enums.AssignmentStatusConfirmed,
	}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if err := svc.RemoveAssignment(context.Background(), RemoveAssignmentInput{
		OrderID:      order.ID,
		AssignmentID: assignment.ID,
	}); err != nil {
		t.Fatalf("confirmed assignments are still removable: %v", err)
	}
	if _, ok := repo.assignments[assignment.ID]; ok {
		t.Fatal("assignment should be gone")
	}
}

func TestRemoveAssignmentWrongOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.addOrder(twoShiftOrder())
	other := repo.addOrder(&models.Order{Code: "PED008", ClientName: "Otro", Venue: "Sala B", EventDate: time.Now(), Shift1Count: 1, Shift1Start: "10:00", Shift1End: "15:00"})
	staff := repo.addStaff(&models.Staff{Name: "Sara Ruiz", Number: "C030", Phone: "+34600555666"})
	svc := newTestService(t, repo, nil, nil, nil)

	assignment, err := svc.AssignStaff(context.Background(), AssignStaffInput{OrderID: order.ID, StaffID: staff.ID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	err = svc.RemoveAssignment(context.Background(), RemoveAssignmentInput{
		OrderID:      other.ID,
		AssignmentID: assignment.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestCreateGeneratesSequentialCode(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.codes = []string{"PED001", "PED044", "PED007"}
	svc := newTestService(t, repo, nil, nil, nil)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		ClientName:  "Eventos Ribera",
		Venue:       "Palacio de Congresos",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Shift1Count: 3,
		Shift1Start: "12:00",
		Shift1End:   "17:00",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Code != "PED045" {
		t.Fatalf("expected PED045 got %s", order.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		ClientName:  "Eventos Ribera",
		Venue:       "Palacio de Congresos",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Shift1Count: 0,
		Shift1Start: "12:00",
		Shift1End:   "17:00",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero headcount should be rejected, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateOrderInput{
		ClientName:  "Eventos Ribera",
		Venue:       "Palacio de Congresos",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Shift1Count: 1,
		Shift1Start: "25:99",
		Shift1End:   "17:00",
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("malformed clock should be rejected, got %v", err)
	}
}

func TestMeetingTimeFromEstimator(t *testing.T) {
	repo := newStubOrdersRepo()
	order := twoShiftOrder()
	order.Catering = true
	repo.addOrder(order)
	svc := newTestService(t, repo, nil, nil, &stubTravel{minutes: 45})

	result, err := svc.MeetingTime(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Omitted {
		t.Fatal("expected a meeting time")
	}
	if result.TravelMinutes != 45 {
		t.Fatalf("expected 45 minutes got %d", result.TravelMinutes)
	}
	if result.MeetingAt != "11:15" {
		t.Fatalf("expected 11:15 got %s", result.MeetingAt)
	}
}

func TestMeetingTimeFallsBackToManual(t *testing.T) {
	repo := newStubOrdersRepo()
	order := twoShiftOrder()
	order.Catering = true
	manual := 30
	order.TravelMinutes = &manual
	repo.addOrder(order)
	svc := newTestService(t, repo, nil, nil, &stubTravel{err: context.DeadlineExceeded})

	result, err := svc.MeetingTime(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("routing failure must fall back, got %v", err)
	}
	if result.TravelMinutes != 30 || result.MeetingAt != "11:30" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestMeetingTimeOmittedWithoutTravelInfo(t *testing.T) {
	repo := newStubOrdersRepo()
	order := twoShiftOrder()
	order.Catering = true
	repo.addOrder(order)
	svc := newTestService(t, repo, nil, nil, nil)

	result, err := svc.MeetingTime(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !result.Omitted || result.MeetingAt != "" {
		t.Fatalf("expected omitted result, got %+v", result)
	}
}
