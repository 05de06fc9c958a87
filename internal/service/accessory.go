package service

import (
	"context"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
)

type accessoryService struct {
	equipmentRepo repository.EquipmentRepository
	cartRepo      repository.CartRepository
	availability  AvailabilityService
	cartSvc       CartService
}

func NewAccessoryService(
	equipmentRepo repository.EquipmentRepository,
	cartRepo repository.CartRepository,
	availability AvailabilityService,
	cartSvc CartService,
) AccessoryService {
	return &accessoryService{
		equipmentRepo: equipmentRepo,
		cartRepo:      cartRepo,
		availability:  availability,
		cartSvc:       cartSvc,
	}
}

// Attach resolves the primary item's battery and SD-card hints against the
// catalog. The search is greedy and non-backtracking, and holds no lock
// between the availability check and the cart write; checkout-time
// re-checks remain the final authority when two resolvers race.
func (s *accessoryService) Attach(ctx context.Context, userID, primaryEquipmentID string, w domain.Window) (*domain.AttachmentOutcome, error) {
	const op = "accessory.attach"
	if err := w.Validate(); err != nil {
		return nil, err
	}
	primary, err := s.equipmentRepo.GetByID(ctx, primaryEquipmentID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := &domain.AttachmentOutcome{}
	type hint struct {
		category string
		prefix   string
	}
	hints := []hint{}
	if primary.BatteryModel != "" {
		hints = append(hints, hint{domain.CategoryBattery, primary.BatteryModel})
	}
	if primary.RecommendSDCard != "" {
		hints = append(hints, hint{domain.CategorySDCard, primary.RecommendSDCard})
	}

	for _, h := range hints {
		item, err := s.resolveOne(ctx, userID, cart, h.category, h.prefix, w)
		if err != nil {
			return nil, err
		}
		if item == nil {
			outcome.NoCompatibleUnit = append(outcome.NoCompatibleUnit, h.category)
			continue
		}
		outcome.Attached = append(outcome.Attached, *item)
	}
	return outcome, nil
}

// resolveOne walks prefix-matched candidates in catalog order and stops at
// the first unit that is both available and accepted into the cart.
func (s *accessoryService) resolveOne(ctx context.Context, userID string, cart *domain.Cart, category, prefix string, w domain.Window) (*domain.CartItem, error) {
	candidates, err := s.equipmentRepo.SearchByNamePrefix(ctx, category, prefix)
	if err != nil {
		return nil, err
	}

	for _, cand := range candidates {
		if s.inCartForWindow(cart, cand.ID, w) {
			continue
		}
		avail, err := s.availability.CheckAvailability(ctx, cand.ID, w, userID)
		if err != nil {
			return nil, err
		}
		if !avail.Available {
			continue
		}
		item, err := s.cartSvc.AddItem(ctx, userID, domain.CartAddRequest{
			EquipmentID: cand.ID,
			RentalDate:  w.Start.Format(domain.DateLayout),
			RentalTime:  w.Start.Format(domain.TimeLayout),
			ReturnDate:  w.End.Format(domain.DateLayout),
			ReturnTime:  w.End.Format(domain.TimeLayout),
		})
		if err != nil {
			// Someone else may have grabbed the unit between the check and
			// the write; move on to the next candidate.
			if domain.IsKind(err, domain.KindNotAvailable) || domain.IsKind(err, domain.KindDuplicateItem) {
				logger.Debug("Accessory candidate lost race, trying next", "equipment_id", cand.ID, "error", err)
				continue
			}
			return nil, err
		}
		return item, nil
	}
	return nil, nil
}

func (s *accessoryService) inCartForWindow(cart *domain.Cart, equipmentID string, w domain.Window) bool {
	for _, it := range cart.Items {
		if it.Equipment.ID == equipmentID && it.Window.Overlaps(w) {
			return true
		}
	}
	return false
}
