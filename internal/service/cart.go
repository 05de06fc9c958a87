package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
	"gearroom-backend/internal/utils"
)

type CartLimits struct {
	MaxWindowDays         int
	LongTermMaxWindowDays int
}

type cartService struct {
	cartRepo        repository.CartRepository
	equipmentRepo   repository.EquipmentRepository
	reservationRepo repository.ReservationRepository
	availability    AvailabilityService
	limits          CartLimits
	now             func() time.Time
}

func NewCartService(
	cartRepo repository.CartRepository,
	equipmentRepo repository.EquipmentRepository,
	reservationRepo repository.ReservationRepository,
	availability AvailabilityService,
	limits CartLimits,
) CartService {
	return &cartService{
		cartRepo:        cartRepo,
		equipmentRepo:   equipmentRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		limits:          limits,
		now:             time.Now,
	}
}

func (s *cartService) AddItem(ctx context.Context, userID string, req domain.CartAddRequest) (*domain.CartItem, error) {
	const op = "cart.addItem"
	if userID == "" {
		return nil, domain.E(domain.KindValidation, op, "user id is required")
	}
	w, err := domain.ParseWindow(req.RentalDate, req.RentalTime, req.ReturnDate, req.ReturnTime)
	if err != nil {
		return nil, err
	}
	maxDays := s.limits.MaxWindowDays
	if req.LongTerm {
		maxDays = s.limits.LongTermMaxWindowDays
	}
	if w.Days() > maxDays {
		return nil, domain.E(domain.KindValidation, op,
			fmt.Sprintf("rental window exceeds %d days", maxDays))
	}

	eq, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.HasDuplicate(eq.ID, w.Start) {
		return nil, domain.E(domain.KindDuplicateItem, op, "equipment already in cart for this rental start")
	}

	avail, err := s.availability.CheckAvailability(ctx, eq.ID, w, userID)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, domain.E(domain.KindNotAvailable, op, "equipment is not available for the requested window")
	}

	item := domain.CartItem{
		ID:        uuid.NewString(),
		Equipment: eq.Snapshot(),
		Window:    w,
		AddedAt:   s.now().UTC(),
		LongTerm:  req.LongTerm,
	}
	if err := s.cartRepo.AppendItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	const op = "cart.removeItem"
	if itemID == "" {
		return domain.E(domain.KindValidation, op, "item id is required")
	}
	return s.cartRepo.RemoveItem(ctx, userID, itemID)
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.cartRepo.Get(ctx, userID)
}

// Checkout re-validates every hold against the live store (the resolver and
// the add-time pre-checks are only provisional), creates the reservation,
// and clears the cart only after the reservation is durably created.
func (s *cartService) Checkout(ctx context.Context, userID string) (*domain.Reservation, error) {
	const op = "cart.checkout"
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.E(domain.KindValidation, op, "cart is empty")
	}

	for _, it := range cart.Items {
		avail, err := s.availability.CheckAvailability(ctx, it.Equipment.ID, it.Window, userID)
		if err != nil {
			return nil, err
		}
		if !avail.Available {
			return nil, domain.E(domain.KindNotAvailable, op,
				fmt.Sprintf("%s is no longer available for the requested window", it.Equipment.Name))
		}
	}

	res := &domain.Reservation{
		UserID:    userID,
		Status:    domain.ReservationStatusPending,
		CreatedAt: s.now().UTC(),
	}
	for _, it := range cart.Items {
		res.Items = append(res.Items, domain.ReservationItem{
			ItemID:    it.ID,
			Equipment: it.Equipment,
			Window:    it.Window,
		})
	}
	res.EstimatedCost = utils.EstimateReservationCost(res.Items)

	if err := s.reservationRepo.Create(ctx, res); err != nil {
		// Cart stays intact so the user can retry.
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		// The reservation exists; a stale cart is recoverable (checkout-time
		// re-checks block a double booking), so surface but do not fail.
		logger.Error("Cart clear failed after checkout", "user_id", userID, "reservation_id", res.ID, "error", err)
	}
	return res, nil
}
