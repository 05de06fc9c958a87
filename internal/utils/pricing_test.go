package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearroom-backend/internal/domain"
)

func window(t *testing.T, start, end string) domain.Window {
	t.Helper()
	s, err := time.Parse("2006-01-02 15:04", start)
	assert.NoError(t, err)
	e, err := time.Parse("2006-01-02 15:04", end)
	assert.NoError(t, err)
	return domain.Window{Start: s, End: e}
}

func TestEstimateItemCost(t *testing.T) {
	t.Run("Whole days", func(t *testing.T) {
		b := EstimateItemCost(window(t, "2026-03-10 10:00", "2026-03-13 10:00"), 1500)
		assert.Equal(t, 3, b.Days)
		assert.Equal(t, int64(4500), b.Total)
	})

	t.Run("Partial day charged as full day", func(t *testing.T) {
		b := EstimateItemCost(window(t, "2026-03-10 10:00", "2026-03-11 18:00"), 1000)
		assert.Equal(t, 2, b.Days)
		assert.Equal(t, int64(2000), b.Total)
	})

	t.Run("Sub-day rental charged one day", func(t *testing.T) {
		b := EstimateItemCost(window(t, "2026-03-10 10:00", "2026-03-10 16:00"), 800)
		assert.Equal(t, 1, b.Days)
		assert.Equal(t, int64(800), b.Total)
	})
}

func TestEstimateReservationCost(t *testing.T) {
	items := []domain.ReservationItem{
		{Equipment: domain.EquipmentSnapshot{ID: "cam-1", DailyRentalPrice: 1500}, Window: window(t, "2026-03-10 10:00", "2026-03-12 10:00")},
		{Equipment: domain.EquipmentSnapshot{ID: "bat-1", DailyRentalPrice: 200}, Window: window(t, "2026-03-10 10:00", "2026-03-12 10:00")},
	}
	assert.Equal(t, int64(2*1500+2*200), EstimateReservationCost(items))

	assert.Equal(t, int64(0), EstimateReservationCost(nil))
}
