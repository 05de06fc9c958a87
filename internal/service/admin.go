package service

import (
	"context"
	"fmt"
	"time"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
)

type adminService struct {
	reservationRepo repository.ReservationRepository
	equipmentRepo   repository.EquipmentRepository
	now             func() time.Time
}

func NewAdminService(
	reservationRepo repository.ReservationRepository,
	equipmentRepo repository.EquipmentRepository,
) AdminService {
	return &adminService{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		now:             time.Now,
	}
}

// Batch operations run two passes. Pass 1 commits the reservation status
// transitions as one batched write; pass 2 applies per-item equipment side
// effects. The passes are not atomic with each other: pass-2 failures leave
// a reservation committed with stale equipment state, which is reported in
// counts and flagged for manual review, never masked as a blanket success.

func (s *adminService) ApproveSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error) {
	now := s.now().UTC()
	fields := map[string]any{"approvedAt": now, "approvedBy": adminID}
	return s.runBatch(ctx, ids, domain.ReservationStatusActive, fields, func(ctx context.Context, r *domain.Reservation) error {
		var firstErr error
		for _, it := range r.Items {
			if err := s.equipmentRepo.SetRented(ctx, it.Equipment.ID, r.ID); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
}

func (s *adminService) RejectSelected(ctx context.Context, adminID string, ids []string, reason string) (*domain.BatchOutcome, error) {
	now := s.now().UTC()
	fields := map[string]any{"rejectedAt": now, "rejectedBy": adminID, "rejectionReason": reason}
	// Rejection has no equipment side effect.
	return s.runBatch(ctx, ids, domain.ReservationStatusRejected, fields, nil)
}

// ReturnSelected finalizes returns in bulk as normal (undamaged) returns;
// damage assessment needs the single-reservation path.
func (s *adminService) ReturnSelected(ctx context.Context, adminID string, ids []string) (*domain.BatchOutcome, error) {
	now := s.now().UTC()
	fields := map[string]any{"returnedAt": now, "processedBy": adminID, "returnStatus": string(domain.ReturnStatusNormal)}
	return s.runBatch(ctx, ids, domain.ReservationStatusReturned, fields, func(ctx context.Context, r *domain.Reservation) error {
		var firstErr error
		for _, it := range r.Items {
			if err := s.equipmentRepo.SetAvailable(ctx, it.Equipment.ID); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
}

func (s *adminService) runBatch(
	ctx context.Context,
	ids []string,
	to domain.ReservationStatus,
	fields map[string]any,
	sideEffect func(ctx context.Context, r *domain.Reservation) error,
) (*domain.BatchOutcome, error) {
	const op = "admin.batch"
	outcome := &domain.BatchOutcome{}
	var transitions []repository.StatusTransition
	var eligible []*domain.Reservation

	// Validate every id up front; ineligible reservations get a per-item
	// outcome and are excluded from the batch instead of failing it.
	for _, id := range ids {
		r, err := s.reservationRepo.GetByID(ctx, id)
		if err != nil {
			outcome.Items = append(outcome.Items, domain.BatchItemOutcome{
				ReservationID: id,
				ErrKind:       domain.KindOf(err),
				Detail:        err.Error(),
			})
			continue
		}
		if !r.Status.CanTransitionTo(to) {
			outcome.Items = append(outcome.Items, domain.BatchItemOutcome{
				ReservationID: id,
				Status:        r.Status,
				ErrKind:       domain.KindInvalidTransition,
				Detail:        fmt.Sprintf("reservation is %s, cannot move to %s", r.Status, to),
			})
			continue
		}
		transitions = append(transitions, repository.StatusTransition{
			ID:     id,
			From:   r.Status,
			To:     to,
			Fields: fields,
		})
		eligible = append(eligible, r)
	}

	if len(transitions) > 0 {
		if err := s.reservationRepo.TransitionBatch(ctx, transitions); err != nil {
			// Pass 1 is all-or-nothing; report the failure on every eligible id.
			for _, r := range eligible {
				outcome.Items = append(outcome.Items, domain.BatchItemOutcome{
					ReservationID: r.ID,
					Status:        r.Status,
					ErrKind:       domain.KindOf(err),
					Detail:        err.Error(),
				})
			}
			return outcome, nil
		}
	}

	// Pass 2: per-item equipment side effects.
	for _, r := range eligible {
		item := domain.BatchItemOutcome{ReservationID: r.ID, Status: to}
		if sideEffect != nil {
			if err := sideEffect(ctx, r); err != nil {
				logger.Error("Batch side effect failed", "op", op, "reservation_id", r.ID, "error", err)
				item.SideEffectFailed = true
				item.Detail = err.Error()
				outcome.SideEffectsFailed++
			} else {
				outcome.SideEffectsOK++
			}
		}
		outcome.Items = append(outcome.Items, item)
	}
	outcome.NeedsManualReview = outcome.SideEffectsFailed > 0
	return outcome, nil
}
