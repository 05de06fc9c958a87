package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	equipmentRepo   repository.EquipmentRepository
	userRepo        repository.UserRepository
	calendarSvc     CalendarService
	emailSvc        EmailService
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	calendarSvc CalendarService,
	emailSvc EmailService,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		userRepo:        userRepo,
		calendarSvc:     calendarSvc,
		emailSvc:        emailSvc,
		now:             time.Now,
	}
}

// Approve moves pending→active. The reservation and equipment state commit
// first; the calendar registration that follows is best-effort, and its
// failure is surfaced as a warning for manual follow-up, never rolled back.
func (s *reservationService) Approve(ctx context.Context, adminID, reservationID string) (*domain.ApproveOutcome, error) {
	const op = "reservation.approve"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReservationStatusPending {
		return nil, domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %s, only pending reservations can be approved", r.Status))
	}

	now := s.now().UTC()
	err = s.reservationRepo.Transition(ctx, r.ID, domain.ReservationStatusPending, domain.ReservationStatusActive, map[string]any{
		"approvedAt": now,
		"approvedBy": adminID,
	})
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatusActive
	r.ApprovedAt = &now
	r.ApprovedBy = adminID

	outcome := &domain.ApproveOutcome{Reservation: r}

	for _, it := range r.Items {
		if err := s.equipmentRepo.SetRented(ctx, it.Equipment.ID, r.ID); err != nil {
			logger.Error("Equipment status update failed after approval", "reservation_id", r.ID, "equipment_id", it.Equipment.ID, "error", err)
			outcome.EquipmentErrors = append(outcome.EquipmentErrors, domain.ItemError{
				EquipmentID: it.Equipment.ID,
				Kind:        domain.KindOf(err),
				Detail:      err.Error(),
			})
		}
	}

	if err := s.registerCalendarEvent(ctx, r); err != nil {
		outcome.CalendarWarning = fmt.Sprintf("calendar registration failed, register manually: %v", err)
	}

	s.notify(ctx, r, func(email, name string) error {
		return s.emailSvc.SendReservationApproved(ctx, email, name, r)
	})

	return outcome, nil
}

func (s *reservationService) registerCalendarEvent(ctx context.Context, r *domain.Reservation) error {
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Equipment.Name)
	}
	span := r.Span()
	ev := CalendarEvent{
		Title:         fmt.Sprintf("Equipment rental: %s", strings.Join(names, ", ")),
		Description:   fmt.Sprintf("Reservation %s for user %s", r.ID, r.UserID),
		StartDateTime: span.Start.Format(time.RFC3339),
		EndDateTime:   span.End.Format(time.RFC3339),
	}
	err := s.calendarSvc.RegisterEvent(ctx, ev)
	logger.ExternalServiceResult("calendar", "RegisterEvent", err, "reservation_id", r.ID)
	return err
}

func (s *reservationService) notify(ctx context.Context, r *domain.Reservation, send func(email, name string) error) {
	profile, err := s.userRepo.GetByID(ctx, r.UserID)
	if err != nil || profile.Email == "" {
		return
	}
	_ = send(profile.Email, profile.DisplayName)
}

func (s *reservationService) Reject(ctx context.Context, adminID, reservationID, reason string) (*domain.Reservation, error) {
	const op = "reservation.reject"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReservationStatusPending {
		return nil, domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %s, only pending reservations can be rejected", r.Status))
	}
	now := s.now().UTC()
	err = s.reservationRepo.Transition(ctx, r.ID, domain.ReservationStatusPending, domain.ReservationStatusRejected, map[string]any{
		"rejectedAt":      now,
		"rejectedBy":      adminID,
		"rejectionReason": reason,
	})
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatusRejected
	r.RejectedAt = &now
	r.RejectedBy = adminID
	r.RejectionReason = reason

	s.notify(ctx, r, func(email, name string) error {
		return s.emailSvc.SendReservationRejected(ctx, email, name, r, reason)
	})
	return r, nil
}

// Cancel is the requesting user's own withdrawal of a pending reservation.
func (s *reservationService) Cancel(ctx context.Context, userID, reservationID string) (*domain.Reservation, error) {
	const op = "reservation.cancel"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, domain.E(domain.KindPermissionDenied, op, "reservation belongs to another user")
	}
	if r.Status != domain.ReservationStatusPending {
		return nil, domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %s, only pending reservations can be cancelled", r.Status))
	}
	err = s.reservationRepo.Transition(ctx, r.ID, domain.ReservationStatusPending, domain.ReservationStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatusCancelled
	return r, nil
}

func (s *reservationService) RequestReturn(ctx context.Context, userID, reservationID, returnImageRef string) (*domain.Reservation, error) {
	const op = "reservation.requestReturn"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, domain.E(domain.KindPermissionDenied, op, "reservation belongs to another user")
	}
	if r.Status != domain.ReservationStatusActive {
		return nil, domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %s, only active reservations can request return", r.Status))
	}
	now := s.now().UTC()
	err = s.reservationRepo.Transition(ctx, r.ID, domain.ReservationStatusActive, domain.ReservationStatusReturnRequested, map[string]any{
		"returnRequestedAt": now,
		"returnImageRef":    returnImageRef,
	})
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatusReturnRequested
	r.ReturnRequestedAt = &now
	r.ReturnImageRef = returnImageRef
	return r, nil
}

// FinalizeReturn closes out a rental. Admins may finalize from
// return_requested or directly from active (override). If damage is flagged
// the penalty lands on the user's history and the equipment's damage
// history, both as atomic appends.
func (s *reservationService) FinalizeReturn(ctx context.Context, adminID, reservationID string, details ReturnDetails) (*domain.ReturnOutcome, error) {
	const op = "reservation.finalizeReturn"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransitionTo(domain.ReservationStatusReturned) {
		return nil, domain.E(domain.KindInvalidTransition, op,
			fmt.Sprintf("reservation is %s, cannot be returned", r.Status))
	}

	returnStatus := domain.ReturnStatusNormal
	if details.Late {
		returnStatus = domain.ReturnStatusLate
	}
	if details.Damaged {
		returnStatus = domain.ReturnStatusDamaged
		if details.PenaltyPoints < 1 || details.PenaltyPoints > 10 {
			return nil, domain.E(domain.KindValidation, op, "penalty points must be between 1 and 10")
		}
		if details.PenaltyReason == "" {
			return nil, domain.E(domain.KindValidation, op, "penalty reason is required for damaged returns")
		}
	}

	now := s.now().UTC()
	fields := map[string]any{
		"returnedAt":   now,
		"processedBy":  adminID,
		"returnStatus": string(returnStatus),
	}
	if details.Damaged {
		fields["penaltyPoints"] = details.PenaltyPoints
		fields["penaltyReason"] = details.PenaltyReason
	}
	if err := s.reservationRepo.Transition(ctx, r.ID, r.Status, domain.ReservationStatusReturned, fields); err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatusReturned
	r.ReturnedAt = &now
	r.ProcessedBy = adminID
	r.ReturnStatus = returnStatus

	outcome := &domain.ReturnOutcome{Reservation: r}

	for _, it := range r.Items {
		if err := s.equipmentRepo.SetAvailable(ctx, it.Equipment.ID); err != nil {
			logger.Error("Equipment status update failed after return", "reservation_id", r.ID, "equipment_id", it.Equipment.ID, "error", err)
			outcome.EquipmentErrors = append(outcome.EquipmentErrors, domain.ItemError{
				EquipmentID: it.Equipment.ID,
				Kind:        domain.KindOf(err),
				Detail:      err.Error(),
			})
		}
	}

	if details.Damaged {
		if err := s.applyDamage(ctx, r, details); err != nil {
			// Penalty bookkeeping failures after the committed transition are
			// reported the same way as equipment failures.
			outcome.EquipmentErrors = append(outcome.EquipmentErrors, domain.ItemError{
				Kind:   domain.KindOf(err),
				Detail: err.Error(),
			})
		}
	}

	s.notify(ctx, r, func(email, name string) error {
		return s.emailSvc.SendReturnProcessed(ctx, email, name, r)
	})

	return outcome, nil
}

func (s *reservationService) applyDamage(ctx context.Context, r *domain.Reservation, details ReturnDetails) error {
	now := s.now().UTC()
	penalty := domain.PenaltyRecord{
		ID:       uuid.NewString(),
		Points:   details.PenaltyPoints,
		Reason:   details.PenaltyReason,
		Date:     now,
		RentalID: r.ID,
	}
	if err := s.userRepo.ApplyPenalty(ctx, r.UserID, penalty); err != nil {
		return err
	}

	targets := details.DamagedEquipmentIDs
	if len(targets) == 0 {
		for _, it := range r.Items {
			targets = append(targets, it.Equipment.ID)
		}
	}
	for _, id := range targets {
		rec := domain.DamageRecord{
			ID:            uuid.NewString(),
			ReservationID: r.ID,
			UserID:        r.UserID,
			Points:        details.PenaltyPoints,
			Reason:        details.PenaltyReason,
			Date:          now,
		}
		if err := s.equipmentRepo.AppendDamage(ctx, id, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *reservationService) Get(ctx context.Context, userID string, isAdmin bool, reservationID string) (*domain.Reservation, error) {
	const op = "reservation.get"
	r, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && r.UserID != userID {
		return nil, domain.E(domain.KindPermissionDenied, op, "reservation belongs to another user")
	}
	return r, nil
}

func (s *reservationService) ListMine(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByUser(ctx, userID)
}

func (s *reservationService) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByStatus(ctx, status)
}
