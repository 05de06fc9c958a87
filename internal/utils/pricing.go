package utils

import (
	"gearroom-backend/internal/domain"
)

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Days      int
	DailyRate int64
	Total     int64
}

// EstimateItemCost prices one equipment unit for a window at its daily rate.
// A partial final day is charged as a full day, matching Window.Days.
func EstimateItemCost(w domain.Window, dailyRate int64) RentalCostBreakdown {
	days := w.Days()
	if days < 1 {
		days = 1
	}
	return RentalCostBreakdown{
		Days:      days,
		DailyRate: dailyRate,
		Total:     int64(days) * dailyRate,
	}
}

// EstimateReservationCost sums the per-item estimates for a whole
// reservation. Informational only; billing happens outside this system.
func EstimateReservationCost(items []domain.ReservationItem) int64 {
	var total int64
	for _, it := range items {
		total += EstimateItemCost(it.Window, it.Equipment.DailyRentalPrice).Total
	}
	return total
}
