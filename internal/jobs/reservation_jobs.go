package jobs

import (
	"context"
	"time"

	"gearroom-backend/internal/logger"
)

// MarkOverdueReservations finds active reservations past their latest return
// time and sends the renter a one-time overdue notice. The reservation status
// itself never changes here; only an admin return transition closes it out.
func (jr *JobRunner) MarkOverdueReservations() {
	jr.runWithRecovery("MarkOverdueReservations", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		active, skipped, err := jr.reservations.ListActive(ctx)
		if err != nil {
			logger.Error("Failed to list active reservations", "error", err)
			return
		}
		if skipped > 0 {
			logger.Warn("Skipped malformed reservation documents", "count", skipped)
		}

		notified := 0
		for i := range active {
			r := &active[i]
			if r.OverdueNotified || !r.LatestReturn().Before(now) {
				continue
			}

			if err := jr.reservations.MarkOverdueNotified(ctx, r.ID); err != nil {
				logger.Error("Failed to flag overdue reservation",
					"reservation_id", r.ID, "error", err)
				continue
			}

			profile, err := jr.users.GetByID(ctx, r.UserID)
			if err != nil {
				logger.Error("Failed to load renter profile for overdue notice",
					"reservation_id", r.ID, "user_id", r.UserID, "error", err)
				continue
			}
			if err := jr.email.SendOverdueNotice(ctx, profile.Email, profile.DisplayName, r); err != nil {
				logger.Error("Failed to send overdue notice",
					"reservation_id", r.ID, "user_id", r.UserID, "error", err)
				continue
			}
			notified++
			logger.Debug("Sent overdue notice",
				"reservation_id", r.ID,
				"user_id", r.UserID,
				"due", r.LatestReturn().Format(time.RFC3339))
		}

		logger.Info("Overdue scan finished", "active", len(active), "notified", notified)
	})
}
