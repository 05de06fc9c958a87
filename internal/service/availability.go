package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/repository"
)

// catalogCheckConcurrency bounds the fan-out of whole-catalog refreshes.
const catalogCheckConcurrency = 8

type availabilityService struct {
	reservationRepo repository.ReservationRepository
	cartRepo        repository.CartRepository
	equipmentRepo   repository.EquipmentRepository
	now             func() time.Time
}

func NewAvailabilityService(
	reservationRepo repository.ReservationRepository,
	cartRepo repository.CartRepository,
	equipmentRepo repository.EquipmentRepository,
) AvailabilityService {
	return &availabilityService{
		reservationRepo: reservationRepo,
		cartRepo:        cartRepo,
		equipmentRepo:   equipmentRepo,
		now:             time.Now,
	}
}

// CheckAvailability scans in two phases: active reservations first, then
// every user's cart holds. A hold from another user blocks; the requesting
// user's own cart entries are informational only. Read-only and not atomic
// with any later write; duplicate checks at write time compensate.
func (s *availabilityService) CheckAvailability(ctx context.Context, equipmentID string, w domain.Window, requestingUserID string) (*domain.AvailabilityResult, error) {
	const op = "availability.check"
	if equipmentID == "" {
		return nil, domain.E(domain.KindValidation, op, "equipment id is required")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	res := &domain.AvailabilityResult{Available: true}

	// Phase 1: active reservations.
	active, skipped, err := s.reservationRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	res.MalformedSkipped += skipped
	for _, r := range active {
		for _, it := range r.Items {
			if it.Equipment.ID != equipmentID {
				continue
			}
			if it.Window.Overlaps(w) {
				res.Available = false
				res.UnavailablePeriods = append(res.UnavailablePeriods, it.Window)
			}
		}
	}

	// Phase 2: cart holds across all users.
	carts, skipped, err := s.cartRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	res.MalformedSkipped += skipped
	now := s.now()
	for _, c := range carts {
		for _, it := range c.Items {
			if it.Equipment.ID != equipmentID {
				continue
			}
			// An expired hold can no longer collide with anything.
			if it.Window.End.Before(now) {
				continue
			}
			if !it.Window.Overlaps(w) {
				continue
			}
			if c.UserID == requestingUserID {
				res.MyCartItems = append(res.MyCartItems, it.Window)
				continue
			}
			res.Available = false
			res.UnavailablePeriods = append(res.UnavailablePeriods, it.Window)
		}
	}

	return res, nil
}

// CheckCatalog runs an independent availability check for every catalog item
// as a bounded parallel batch, joined before returning. There is no implicit
// refresh anywhere; callers invoke this explicitly.
func (s *availabilityService) CheckCatalog(ctx context.Context, w domain.Window, requestingUserID string) (map[string]*domain.AvailabilityResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	items, err := s.equipmentRepo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	results := make(map[string]*domain.AvailabilityResult, len(items))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(catalogCheckConcurrency)
	for _, eq := range items {
		eq := eq
		g.Go(func() error {
			res, err := s.CheckAvailability(gctx, eq.ID, w, requestingUserID)
			if err != nil {
				return err
			}
			mu.Lock()
			results[eq.ID] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
