package http

import (
	"net/http"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// AvailabilityHandler exposes the conflict-detection checks. The catalog
// refresh only runs when a client explicitly asks for it.
type AvailabilityHandler struct {
	availability service.AvailabilityService
}

func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type availabilityCheckRequest struct {
	EquipmentID string `json:"equipmentId"`
	RentalDate  string `json:"rentalDate"`
	RentalTime  string `json:"rentalTime"`
	ReturnDate  string `json:"returnDate"`
	ReturnTime  string `json:"returnTime"`
}

func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req availabilityCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.EquipmentID == "" {
		writeError(w, domain.E(domain.KindValidation, "http.availability", "equipmentId is required"))
		return
	}
	window, err := domain.ParseWindow(req.RentalDate, req.RentalTime, req.ReturnDate, req.ReturnTime)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.availability.CheckAvailability(r.Context(), req.EquipmentID, window, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type catalogRefreshRequest struct {
	RentalDate string `json:"rentalDate"`
	RentalTime string `json:"rentalTime"`
	ReturnDate string `json:"returnDate"`
	ReturnTime string `json:"returnTime"`
}

func (h *AvailabilityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req catalogRefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	window, err := domain.ParseWindow(req.RentalDate, req.RentalTime, req.ReturnDate, req.ReturnTime)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := h.availability.CheckCatalog(r.Context(), window, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
