package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/repository"
)

func batchReservation(t *testing.T, id string, status domain.ReservationStatus, equipmentIDs ...string) *domain.Reservation {
	r := &domain.Reservation{ID: id, UserID: "user-1", Status: status}
	for _, eid := range equipmentIDs {
		r.Items = append(r.Items, domain.ReservationItem{
			Equipment: domain.EquipmentSnapshot{ID: eid, Name: eid},
			Window:    testWindow(t, "2026-03-10 10:00", "2026-03-12 10:00"),
		})
	}
	return r
}

func TestAdminService_ApproveSelected(t *testing.T) {
	ctx := context.Background()

	t.Run("All eligible, all side effects succeed", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		eqRepo := new(MockEquipmentRepo)
		resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusPending, "cam-1"), nil)
		resRepo.On("GetByID", ctx, "res-2").Return(batchReservation(t, "res-2", domain.ReservationStatusPending, "cam-2"), nil)
		resRepo.On("TransitionBatch", ctx, mock.AnythingOfType("[]repository.StatusTransition")).Return(nil)
		eqRepo.On("SetRented", ctx, "cam-1", "res-1").Return(nil)
		eqRepo.On("SetRented", ctx, "cam-2", "res-2").Return(nil)

		svc := NewAdminService(resRepo, eqRepo)
		out, err := svc.ApproveSelected(ctx, "admin-1", []string{"res-1", "res-2"})
		assert.NoError(t, err)
		assert.Len(t, out.Items, 2)
		assert.Equal(t, 2, out.SideEffectsOK)
		assert.Equal(t, 0, out.SideEffectsFailed)
		assert.False(t, out.NeedsManualReview)
	})

	t.Run("Ineligible reservation excluded, rest proceed", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		eqRepo := new(MockEquipmentRepo)
		resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusPending, "cam-1"), nil)
		resRepo.On("GetByID", ctx, "res-2").Return(batchReservation(t, "res-2", domain.ReservationStatusReturned, "cam-2"), nil)
		resRepo.On("TransitionBatch", ctx, mock.MatchedBy(func(ts []repository.StatusTransition) bool {
			return len(ts) == 1 && ts[0].ID == "res-1"
		})).Return(nil)
		eqRepo.On("SetRented", ctx, "cam-1", "res-1").Return(nil)

		svc := NewAdminService(resRepo, eqRepo)
		out, err := svc.ApproveSelected(ctx, "admin-1", []string{"res-1", "res-2"})
		assert.NoError(t, err)
		assert.Len(t, out.Items, 2)

		var invalid, ok *domain.BatchItemOutcome
		for i := range out.Items {
			if out.Items[i].ReservationID == "res-2" {
				invalid = &out.Items[i]
			} else {
				ok = &out.Items[i]
			}
		}
		assert.Equal(t, domain.KindInvalidTransition, invalid.ErrKind)
		assert.Equal(t, domain.ReservationStatusActive, ok.Status)
		assert.False(t, ok.SideEffectFailed)
	})

	t.Run("Side effect divergence flagged for manual review", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		eqRepo := new(MockEquipmentRepo)
		resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusPending, "cam-1"), nil)
		resRepo.On("GetByID", ctx, "res-2").Return(batchReservation(t, "res-2", domain.ReservationStatusPending, "cam-2"), nil)
		resRepo.On("TransitionBatch", ctx, mock.AnythingOfType("[]repository.StatusTransition")).Return(nil)
		eqRepo.On("SetRented", ctx, "cam-1", "res-1").Return(nil)
		eqRepo.On("SetRented", ctx, "cam-2", "res-2").Return(errors.New("precondition failed"))

		svc := NewAdminService(resRepo, eqRepo)
		out, err := svc.ApproveSelected(ctx, "admin-1", []string{"res-1", "res-2"})
		assert.NoError(t, err)
		assert.Equal(t, 1, out.SideEffectsOK)
		assert.Equal(t, 1, out.SideEffectsFailed)
		assert.True(t, out.NeedsManualReview)

		for _, item := range out.Items {
			if item.ReservationID == "res-2" {
				assert.True(t, item.SideEffectFailed)
				// The status transition itself still committed.
				assert.Equal(t, domain.ReservationStatusActive, item.Status)
			}
		}
	})

	t.Run("Batch write failure reported on every eligible id", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		eqRepo := new(MockEquipmentRepo)
		resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusPending, "cam-1"), nil)
		resRepo.On("GetByID", ctx, "res-2").Return(batchReservation(t, "res-2", domain.ReservationStatusPending, "cam-2"), nil)
		resRepo.On("TransitionBatch", ctx, mock.AnythingOfType("[]repository.StatusTransition")).
			Return(domain.E(domain.KindInvalidTransition, "reservation.batch", "document changed"))

		svc := NewAdminService(resRepo, eqRepo)
		out, err := svc.ApproveSelected(ctx, "admin-1", []string{"res-1", "res-2"})
		assert.NoError(t, err)
		assert.Len(t, out.Items, 2)
		for _, item := range out.Items {
			assert.Equal(t, domain.KindInvalidTransition, item.ErrKind)
		}
		// Pass 1 failed atomically; no equipment was touched.
		eqRepo.AssertNotCalled(t, "SetRented", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing reservation reported per item", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		eqRepo := new(MockEquipmentRepo)
		resRepo.On("GetByID", ctx, "res-gone").Return(nil, domain.E(domain.KindNotFound, "reservation.get", "no such document"))

		svc := NewAdminService(resRepo, eqRepo)
		out, err := svc.ApproveSelected(ctx, "admin-1", []string{"res-gone"})
		assert.NoError(t, err)
		assert.Len(t, out.Items, 1)
		assert.Equal(t, domain.KindNotFound, out.Items[0].ErrKind)
	})
}

func TestAdminService_RejectSelected(t *testing.T) {
	ctx := context.Background()
	resRepo := new(MockReservationRepo)
	eqRepo := new(MockEquipmentRepo)
	resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusPending, "cam-1"), nil)
	resRepo.On("TransitionBatch", ctx, mock.MatchedBy(func(ts []repository.StatusTransition) bool {
		return len(ts) == 1 && ts[0].To == domain.ReservationStatusRejected && ts[0].Fields["rejectionReason"] == "term break"
	})).Return(nil)

	svc := NewAdminService(resRepo, eqRepo)
	out, err := svc.RejectSelected(ctx, "admin-1", []string{"res-1"}, "term break")
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.False(t, out.NeedsManualReview)
	eqRepo.AssertNotCalled(t, "SetRented", mock.Anything, mock.Anything, mock.Anything)
	eqRepo.AssertNotCalled(t, "SetAvailable", mock.Anything, mock.Anything)
}

func TestAdminService_ReturnSelected(t *testing.T) {
	ctx := context.Background()
	resRepo := new(MockReservationRepo)
	eqRepo := new(MockEquipmentRepo)
	resRepo.On("GetByID", ctx, "res-1").Return(batchReservation(t, "res-1", domain.ReservationStatusReturnRequested, "cam-1", "bat-1"), nil)
	resRepo.On("TransitionBatch", ctx, mock.MatchedBy(func(ts []repository.StatusTransition) bool {
		return len(ts) == 1 && ts[0].To == domain.ReservationStatusReturned
	})).Return(nil)
	eqRepo.On("SetAvailable", ctx, "cam-1").Return(nil)
	eqRepo.On("SetAvailable", ctx, "bat-1").Return(nil)

	svc := NewAdminService(resRepo, eqRepo)
	out, err := svc.ReturnSelected(ctx, "admin-1", []string{"res-1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, out.SideEffectsOK)
	eqRepo.AssertNumberOfCalls(t, "SetAvailable", 2)
}
