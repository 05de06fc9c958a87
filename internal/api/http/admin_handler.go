package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// AdminHandler exposes single and selection-based lifecycle actions for
// administrators.
type AdminHandler struct {
	reservations service.ReservationService
	admin        service.AdminService
}

func NewAdminHandler(reservations service.ReservationService, admin service.AdminService) *AdminHandler {
	return &AdminHandler{reservations: reservations, admin: admin}
}

func (h *AdminHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.ReservationStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.ReservationStatusPending
	}
	list, err := h.reservations.ListByStatus(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	outcome, err := h.reservations.Approve(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservations.Reject(r.Context(), id.UserID, mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type finalizeReturnRequest struct {
	Late                bool     `json:"late"`
	Damaged             bool     `json:"damaged"`
	PenaltyPoints       int      `json:"penaltyPoints"`
	PenaltyReason       string   `json:"penaltyReason"`
	DamagedEquipmentIDs []string `json:"damagedEquipmentIds"`
}

// FinalizeReturn records the admin's return inspection, including penalty
// and damage details when the return was not clean.
func (h *AdminHandler) FinalizeReturn(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req finalizeReturnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.reservations.FinalizeReturn(r.Context(), id.UserID, mux.Vars(r)["id"], service.ReturnDetails{
		Late:                req.Late,
		Damaged:             req.Damaged,
		PenaltyPoints:       req.PenaltyPoints,
		PenaltyReason:       req.PenaltyReason,
		DamagedEquipmentIDs: req.DamagedEquipmentIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type batchRequest struct {
	ReservationIDs []string `json:"reservationIds"`
	Reason         string   `json:"reason,omitempty"`
}

func (h *AdminHandler) ApproveSelected(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, func(ids []string, req batchRequest) (*domain.BatchOutcome, error) {
		admin, _ := IdentityFrom(r.Context())
		return h.admin.ApproveSelected(r.Context(), admin.UserID, ids)
	})
}

func (h *AdminHandler) RejectSelected(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, func(ids []string, req batchRequest) (*domain.BatchOutcome, error) {
		admin, _ := IdentityFrom(r.Context())
		return h.admin.RejectSelected(r.Context(), admin.UserID, ids, req.Reason)
	})
}

func (h *AdminHandler) ReturnSelected(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, func(ids []string, req batchRequest) (*domain.BatchOutcome, error) {
		admin, _ := IdentityFrom(r.Context())
		return h.admin.ReturnSelected(r.Context(), admin.UserID, ids)
	})
}

func (h *AdminHandler) runBatch(w http.ResponseWriter, r *http.Request, run func([]string, batchRequest) (*domain.BatchOutcome, error)) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.ReservationIDs) == 0 {
		writeError(w, domain.E(domain.KindValidation, "http.admin", "reservationIds is required"))
		return
	}
	outcome, err := run(req.ReservationIDs, req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if outcome.NeedsManualReview {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, outcome)
}
