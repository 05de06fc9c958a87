package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// ReservationHandler exposes the user-facing reservation lifecycle.
type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	list, err := h.reservations.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	reservation, err := h.reservations.Get(r.Context(), id.UserID, id.IsAdmin, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	reservation, err := h.reservations.Cancel(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type returnRequestBody struct {
	ReturnImageRef string `json:"returnImageRef"`
}

// RequestReturn moves an active reservation to return_requested with the
// user's return photo reference.
func (h *ReservationHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req returnRequestBody
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ReturnImageRef == "" {
		writeError(w, domain.E(domain.KindValidation, "http.reservation", "returnImageRef is required"))
		return
	}
	reservation, err := h.reservations.RequestReturn(r.Context(), id.UserID, mux.Vars(r)["id"], req.ReturnImageRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
