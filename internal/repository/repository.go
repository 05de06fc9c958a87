package repository

import (
	"context"

	"gearroom-backend/internal/domain"
)

type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Update(ctx context.Context, eq *domain.Equipment) error
	List(ctx context.Context, category string, status domain.EquipmentStatus) ([]domain.Equipment, error)
	// SearchByNamePrefix returns available units in a category whose name
	// starts with prefix, in catalog (name) order.
	SearchByNamePrefix(ctx context.Context, category, prefix string) ([]domain.Equipment, error)

	// SetRented and SetAvailable are the only status writers. Both check the
	// current document state first so a blind caller retry is harmless.
	SetRented(ctx context.Context, id, rentalID string) error
	SetAvailable(ctx context.Context, id string) error
	AppendDamage(ctx context.Context, id string, rec domain.DamageRecord) error
}

// StatusTransition is one reservation move inside a batch write.
type StatusTransition struct {
	ID     string
	From   domain.ReservationStatus
	To     domain.ReservationStatus
	Fields map[string]any
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// ListActive returns active reservations plus a tally of documents that
	// failed strict parsing and were skipped.
	ListActive(ctx context.Context) ([]domain.Reservation, int, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
	// Transition applies a compare-and-set status move: it fails closed with
	// InvalidTransition when the document is not in the expected from state.
	Transition(ctx context.Context, id string, from, to domain.ReservationStatus, fields map[string]any) error
	// TransitionBatch commits all transitions as one batched write.
	TransitionBatch(ctx context.Context, transitions []StatusTransition) error
	MarkOverdueNotified(ctx context.Context, id string) error
}

type CartRepository interface {
	// Get returns the user's cart, or an empty cart when none exists.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// ListAll returns every user's cart plus a malformed-document tally.
	ListAll(ctx context.Context) ([]domain.Cart, int, error)
	// AppendItem atomically appends to the cart's item list, creating the
	// cart document when absent. Never a read-modify-overwrite.
	AppendItem(ctx context.Context, userID string, item domain.CartItem) error
	// RemoveItem removes by item id; absent ids are a no-op.
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	// ApplyPenalty atomically appends the record and increments the user's
	// penalty point accumulator.
	ApplyPenalty(ctx context.Context, userID string, rec domain.PenaltyRecord) error
	SetAgreement(ctx context.Context, userID, docRef string) error
}
