package service

import (
	"context"

	"gearroom-backend/internal/domain"
)

type AvailabilityService interface {
	// CheckAvailability decides whether equipment is free for the window.
	// The result is a snapshot; write paths re-validate before acting.
	CheckAvailability(ctx context.Context, equipmentID string, w domain.Window, requestingUserID string) (*domain.AvailabilityResult, error)
	// CheckCatalog is the explicit caller-invoked refresh across the whole
	// catalog: a bounded fan-out of independent checks joined before return.
	CheckCatalog(ctx context.Context, w domain.Window, requestingUserID string) (map[string]*domain.AvailabilityResult, error)
}

type CartService interface {
	AddItem(ctx context.Context, userID string, req domain.CartAddRequest) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	// Checkout snapshots the cart into a pending reservation and clears the
	// cart; the cart stays intact when reservation creation fails.
	Checkout(ctx context.Context, userID string) (*domain.Reservation, error)
}

// ReturnDetails carries the admin's return-finalization form.
type ReturnDetails struct {
	Late    bool
	Damaged bool
	// PenaltyPoints (1-10) and PenaltyReason are required when Damaged.
	PenaltyPoints int
	PenaltyReason string
	// DamagedEquipmentIDs narrows the damage record to specific units;
	// empty means every unit in the reservation.
	DamagedEquipmentIDs []string
}

type ReservationService interface {
	Approve(ctx context.Context, adminID, reservationID string) (*domain.ApproveOutcome, error)
	Reject(ctx context.Context, adminID, reservationID, reason string) (*domain.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) (*domain.Reservation, error)
	RequestReturn(ctx context.Context, userID, reservationID, returnImageRef string) (*domain.Reservation, error)
	FinalizeReturn(ctx context.Context, adminID, reservationID string, details ReturnDetails) (*domain.ReturnOutcome, error)
	Get(ctx context.Context, userID string, isAdmin bool, reservationID string) (*domain.Reservation, error)
	ListMine(ctx context.Context, userID string) ([]domain.Reservation, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
}

type AccessoryService interface {
	// Attach opportunistically adds compatible battery/SD-card units to the
	// user's cart for the primary item's window. Greedy, non-backtracking;
	// checkout-time re-checks remain the final authority.
	Attach(ctx context.Context, userID, primaryEquipmentID string, w domain.Window) (*domain.AttachmentOutcome, error)
}

type AdminService interface {
	ApproveSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error)
	RejectSelected(ctx context.Context, adminID string, ids []string, reason string) (*domain.BatchOutcome, error)
	ReturnSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error)
}

type CatalogService interface {
	Get(ctx context.Context, id string) (*domain.Equipment, error)
	List(ctx context.Context, category string, status domain.EquipmentStatus) ([]domain.Equipment, error)
	Create(ctx context.Context, eq *domain.Equipment) error
	Update(ctx context.Context, eq *domain.Equipment) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	SubmitAgreement(ctx context.Context, userID, docRef string) error
}

// CalendarEvent is the one-way payload POSTed to the calendar side-channel
// on approval.
type CalendarEvent struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type CalendarService interface {
	// RegisterEvent is fire-and-forget relative to core state: a failure is
	// reported to the caller, never retried automatically.
	RegisterEvent(ctx context.Context, ev CalendarEvent) error
}

type EmailService interface {
	SendReservationApproved(ctx context.Context, email, name string, r *domain.Reservation) error
	SendReservationRejected(ctx context.Context, email, name string, r *domain.Reservation, reason string) error
	SendReturnProcessed(ctx context.Context, email, name string, r *domain.Reservation) error
	SendOverdueNotice(ctx context.Context, email, name string, r *domain.Reservation) error
}
