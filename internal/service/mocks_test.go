package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/repository"
)

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Update(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}
func (m *MockEquipmentRepo) List(ctx context.Context, category string, status domain.EquipmentStatus) ([]domain.Equipment, error) {
	args := m.Called(ctx, category, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) SearchByNamePrefix(ctx context.Context, category, prefix string) ([]domain.Equipment, error) {
	args := m.Called(ctx, category, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) SetRented(ctx context.Context, id, rentalID string) error {
	args := m.Called(ctx, id, rentalID)
	return args.Error(0)
}
func (m *MockEquipmentRepo) SetAvailable(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEquipmentRepo) AppendDamage(ctx context.Context, id string, rec domain.DamageRecord) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListActive(ctx context.Context) ([]domain.Reservation, int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Int(1), args.Error(2)
}
func (m *MockReservationRepo) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Transition(ctx context.Context, id string, from, to domain.ReservationStatus, fields map[string]any) error {
	args := m.Called(ctx, id, from, to, fields)
	return args.Error(0)
}
func (m *MockReservationRepo) TransitionBatch(ctx context.Context, transitions []repository.StatusTransition) error {
	args := m.Called(ctx, transitions)
	return args.Error(0)
}
func (m *MockReservationRepo) MarkOverdueNotified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartRepo) ListAll(ctx context.Context) ([]domain.Cart, int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Cart), args.Int(1), args.Error(2)
}
func (m *MockCartRepo) AppendItem(ctx context.Context, userID string, item domain.CartItem) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}
func (m *MockCartRepo) RemoveItem(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockCartRepo) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserRepo) ApplyPenalty(ctx context.Context, userID string, rec domain.PenaltyRecord) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}
func (m *MockUserRepo) SetAgreement(ctx context.Context, userID, docRef string) error {
	args := m.Called(ctx, userID, docRef)
	return args.Error(0)
}

// MockCalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) RegisterEvent(ctx context.Context, ev CalendarEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationApproved(ctx context.Context, email, name string, r *domain.Reservation) error {
	args := m.Called(ctx, email, name, r)
	return args.Error(0)
}
func (m *MockEmailService) SendReservationRejected(ctx context.Context, email, name string, r *domain.Reservation, reason string) error {
	args := m.Called(ctx, email, name, r, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnProcessed(ctx context.Context, email, name string, r *domain.Reservation) error {
	args := m.Called(ctx, email, name, r)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name string, r *domain.Reservation) error {
	args := m.Called(ctx, email, name, r)
	return args.Error(0)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, equipmentID string, w domain.Window, requestingUserID string) (*domain.AvailabilityResult, error) {
	args := m.Called(ctx, equipmentID, w, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityResult), args.Error(1)
}
func (m *MockAvailabilityService) CheckCatalog(ctx context.Context, w domain.Window, requestingUserID string) (map[string]*domain.AvailabilityResult, error) {
	args := m.Called(ctx, w, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.AvailabilityResult), args.Error(1)
}

// MockCartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, req domain.CartAddRequest) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}
func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockCartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) Checkout(ctx context.Context, userID string) (*domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
