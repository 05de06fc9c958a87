package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// fakeVerifier resolves canned tokens without Firebase.
type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	switch idToken {
	case "user-token":
		return &auth.Token{UID: "user-1", Claims: map[string]any{"email": "u@test.edu"}}, nil
	case "admin-token":
		return &auth.Token{UID: "admin-1", Claims: map[string]any{"admin": true}}, nil
	default:
		return nil, errors.New("invalid token")
	}
}

// Service mocks for handler tests.

type mockCartSvc struct{ mock.Mock }

func (m *mockCartSvc) AddItem(ctx context.Context, userID string, req domain.CartAddRequest) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}
func (m *mockCartSvc) RemoveItem(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *mockCartSvc) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *mockCartSvc) Checkout(ctx context.Context, userID string) (*domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type mockAvailabilitySvc struct{ mock.Mock }

func (m *mockAvailabilitySvc) CheckAvailability(ctx context.Context, equipmentID string, w domain.Window, userID string) (*domain.AvailabilityResult, error) {
	args := m.Called(ctx, equipmentID, w, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityResult), args.Error(1)
}
func (m *mockAvailabilitySvc) CheckCatalog(ctx context.Context, w domain.Window, userID string) (map[string]*domain.AvailabilityResult, error) {
	args := m.Called(ctx, w, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.AvailabilityResult), args.Error(1)
}

type mockAccessorySvc struct{ mock.Mock }

func (m *mockAccessorySvc) Attach(ctx context.Context, userID, primaryEquipmentID string, w domain.Window) (*domain.AttachmentOutcome, error) {
	args := m.Called(ctx, userID, primaryEquipmentID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttachmentOutcome), args.Error(1)
}

type mockAdminSvc struct{ mock.Mock }

func (m *mockAdminSvc) ApproveSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, adminID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}
func (m *mockAdminSvc) RejectSelected(ctx context.Context, adminID string, ids []string, reason string) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, adminID, ids, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}
func (m *mockAdminSvc) ReturnSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, adminID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}

type mockReservationSvc struct{ mock.Mock }

func (m *mockReservationSvc) Approve(ctx context.Context, adminID, id string) (*domain.ApproveOutcome, error) {
	args := m.Called(ctx, adminID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApproveOutcome), args.Error(1)
}
func (m *mockReservationSvc) Reject(ctx context.Context, adminID, id, reason string) (*domain.Reservation, error) {
	args := m.Called(ctx, adminID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationSvc) Cancel(ctx context.Context, userID, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationSvc) RequestReturn(ctx context.Context, userID, id, ref string) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationSvc) FinalizeReturn(ctx context.Context, adminID, id string, details service.ReturnDetails) (*domain.ReturnOutcome, error) {
	args := m.Called(ctx, adminID, id, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnOutcome), args.Error(1)
}
func (m *mockReservationSvc) Get(ctx context.Context, userID string, isAdmin bool, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, isAdmin, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *mockReservationSvc) ListMine(ctx context.Context, userID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *mockReservationSvc) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type routerMocks struct {
	cart         *mockCartSvc
	availability *mockAvailabilitySvc
	accessory    *mockAccessorySvc
	reservations *mockReservationSvc
	admin        *mockAdminSvc
}

func newTestRouter(t *testing.T) (http.Handler, *routerMocks) {
	t.Helper()
	m := &routerMocks{
		cart:         new(mockCartSvc),
		availability: new(mockAvailabilitySvc),
		accessory:    new(mockAccessorySvc),
		reservations: new(mockReservationSvc),
		admin:        new(mockAdminSvc),
	}
	r := NewRouter(RouterDeps{
		Verifier:     fakeVerifier{},
		Availability: NewAvailabilityHandler(m.availability),
		Cart:         NewCartHandler(m.cart, m.accessory),
		Reservations: NewReservationHandler(m.reservations),
		Admin:        NewAdminHandler(m.reservations, m.admin),
		Catalog:      NewCatalogHandler(service.NewCatalogService(nil)),
		Profile:      NewProfileHandler(service.NewProfileService(nil)),
		Files:        NewFilesHandler(nil, []string{"image/jpeg"}, 15*time.Minute, 10),
	})
	return r, m
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	handler, m := newTestRouter(t)

	t.Run("Missing token rejected", func(t *testing.T) {
		rec := doJSON(t, handler, "GET", "/api/v1/cart", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Invalid token rejected", func(t *testing.T) {
		rec := doJSON(t, handler, "GET", "/api/v1/cart", "bogus", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Valid token resolves identity", func(t *testing.T) {
		m.cart.On("GetCart", mock.Anything, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil)
		rec := doJSON(t, handler, "GET", "/api/v1/cart", "user-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Non-admin blocked from admin routes", func(t *testing.T) {
		rec := doJSON(t, handler, "GET", "/api/v1/admin/reservations", "user-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Health endpoint is open", func(t *testing.T) {
		rec := doJSON(t, handler, "GET", "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCartHandlers(t *testing.T) {
	t.Run("AddItem returns created item", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("AddItem", mock.Anything, "user-1", mock.MatchedBy(func(req domain.CartAddRequest) bool {
			return req.EquipmentID == "cam-1" && req.RentalDate == "2026-03-10"
		})).Return(&domain.CartItem{ID: "item-1"}, nil)

		rec := doJSON(t, handler, "POST", "/api/v1/cart/items", "user-token", map[string]any{
			"equipmentId": "cam-1",
			"rentalDate":  "2026-03-10", "rentalTime": "10:00",
			"returnDate": "2026-03-12", "returnTime": "10:00",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		var item domain.CartItem
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, "item-1", item.ID)
	})

	t.Run("Duplicate maps to conflict", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("AddItem", mock.Anything, "user-1", mock.Anything).
			Return(nil, domain.E(domain.KindDuplicateItem, "cart.addItem", "already in cart"))

		rec := doJSON(t, handler, "POST", "/api/v1/cart/items", "user-token", map[string]any{"equipmentId": "cam-1"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		var body errorBody
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(domain.KindDuplicateItem), body.Kind)
	})

	t.Run("Validation maps to bad request", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("AddItem", mock.Anything, "user-1", mock.Anything).
			Return(nil, domain.E(domain.KindValidation, "cart.addItem", "invalid rental date"))

		rec := doJSON(t, handler, "POST", "/api/v1/cart/items", "user-token", map[string]any{"equipmentId": "cam-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RemoveItem no content", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("RemoveItem", mock.Anything, "user-1", "item-1").Return(nil)
		rec := doJSON(t, handler, "DELETE", "/api/v1/cart/items/item-1", "user-token", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Checkout returns reservation", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("Checkout", mock.Anything, "user-1").
			Return(&domain.Reservation{ID: "res-1", Status: domain.ReservationStatusPending}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/cart/checkout", "user-token", nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Stale checkout maps to conflict", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.cart.On("Checkout", mock.Anything, "user-1").
			Return(nil, domain.E(domain.KindNotAvailable, "cart.checkout", "no longer available"))
		rec := doJSON(t, handler, "POST", "/api/v1/cart/checkout", "user-token", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAvailabilityHandlers(t *testing.T) {
	t.Run("Check parses window", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.availability.On("CheckAvailability", mock.Anything, "cam-1", mock.AnythingOfType("domain.Window"), "user-1").
			Return(&domain.AvailabilityResult{Available: true}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/availability/check", "user-token", map[string]any{
			"equipmentId": "cam-1",
			"rentalDate":  "2026-03-10", "rentalTime": "10:00",
			"returnDate": "2026-03-12", "returnTime": "10:00",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		var res domain.AvailabilityResult
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Available)
	})

	t.Run("Malformed window rejected before the service runs", func(t *testing.T) {
		handler, m := newTestRouter(t)
		rec := doJSON(t, handler, "POST", "/api/v1/availability/check", "user-token", map[string]any{
			"equipmentId": "cam-1",
			"rentalDate":  "tomorrow", "rentalTime": "10:00",
			"returnDate": "2026-03-12", "returnTime": "10:00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.availability.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Refresh returns per-equipment results", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.availability.On("CheckCatalog", mock.Anything, mock.AnythingOfType("domain.Window"), "user-1").
			Return(map[string]*domain.AvailabilityResult{"cam-1": {Available: true}}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/availability/refresh", "user-token", map[string]any{
			"rentalDate": "2026-03-10", "rentalTime": "10:00",
			"returnDate": "2026-03-12", "returnTime": "10:00",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminHandlers(t *testing.T) {
	t.Run("Batch divergence returns multi-status", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.admin.On("ApproveSelected", mock.Anything, "admin-1", []string{"res-1", "res-2"}).
			Return(&domain.BatchOutcome{
				Items: []domain.BatchItemOutcome{
					{ReservationID: "res-1", Status: domain.ReservationStatusActive},
					{ReservationID: "res-2", Status: domain.ReservationStatusActive, SideEffectFailed: true},
				},
				SideEffectsOK:     1,
				SideEffectsFailed: 1,
				NeedsManualReview: true,
			}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/admin/reservations/approve-selected", "admin-token", map[string]any{
			"reservationIds": []string{"res-1", "res-2"},
		})
		assert.Equal(t, http.StatusMultiStatus, rec.Code)
		var out domain.BatchOutcome
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.True(t, out.NeedsManualReview)
	})

	t.Run("Clean batch returns OK", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.admin.On("ReturnSelected", mock.Anything, "admin-1", []string{"res-1"}).
			Return(&domain.BatchOutcome{Items: []domain.BatchItemOutcome{{ReservationID: "res-1", Status: domain.ReservationStatusReturned}}, SideEffectsOK: 1}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/admin/reservations/return-selected", "admin-token", map[string]any{
			"reservationIds": []string{"res-1"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Empty selection rejected", func(t *testing.T) {
		handler, _ := newTestRouter(t)
		rec := doJSON(t, handler, "POST", "/api/v1/admin/reservations/approve-selected", "admin-token", map[string]any{
			"reservationIds": []string{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Approve returns outcome with warnings", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.reservations.On("Approve", mock.Anything, "admin-1", "res-1").
			Return(&domain.ApproveOutcome{
				Reservation:     &domain.Reservation{ID: "res-1", Status: domain.ReservationStatusActive},
				CalendarWarning: "calendar registration failed, register manually: webhook 500",
			}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/admin/reservations/res-1/approve", "admin-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		var out domain.ApproveOutcome
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Contains(t, out.CalendarWarning, "register manually")
	})

	t.Run("FinalizeReturn forwards damage details", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.reservations.On("FinalizeReturn", mock.Anything, "admin-1", "res-1", service.ReturnDetails{
			Damaged:             true,
			PenaltyPoints:       3,
			PenaltyReason:       "cracked filter",
			DamagedEquipmentIDs: []string{"cam-1"},
		}).Return(&domain.ReturnOutcome{Reservation: &domain.Reservation{ID: "res-1"}}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/admin/reservations/res-1/return", "admin-token", map[string]any{
			"damaged":             true,
			"penaltyPoints":       3,
			"penaltyReason":       "cracked filter",
			"damagedEquipmentIds": []string{"cam-1"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestReservationHandlers(t *testing.T) {
	t.Run("Cancel own reservation", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.reservations.On("Cancel", mock.Anything, "user-1", "res-1").
			Return(&domain.Reservation{ID: "res-1", Status: domain.ReservationStatusCancelled}, nil)
		rec := doJSON(t, handler, "POST", "/api/v1/reservations/res-1/cancel", "user-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Return request requires image ref", func(t *testing.T) {
		handler, m := newTestRouter(t)
		rec := doJSON(t, handler, "POST", "/api/v1/reservations/res-1/return-request", "user-token", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.reservations.AssertNotCalled(t, "RequestReturn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Foreign reservation access denied", func(t *testing.T) {
		handler, m := newTestRouter(t)
		m.reservations.On("Get", mock.Anything, "user-1", false, "res-9").
			Return(nil, domain.E(domain.KindPermissionDenied, "reservation.get", "reservation belongs to another user"))
		rec := doJSON(t, handler, "GET", "/api/v1/reservations/res-9", "user-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
