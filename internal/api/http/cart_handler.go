package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// CartHandler exposes the per-user cart and checkout.
type CartHandler struct {
	cart      service.CartService
	accessory service.AccessoryService
}

func NewCartHandler(cart service.CartService, accessory service.AccessoryService) *CartHandler {
	return &CartHandler{cart: cart, accessory: accessory}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	cart, err := h.cart.GetCart(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req domain.CartAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.cart.AddItem(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	itemID := mux.Vars(r)["itemId"]
	if err := h.cart.RemoveItem(r.Context(), id.UserID, itemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	reservation, err := h.cart.Checkout(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

type attachAccessoriesRequest struct {
	EquipmentID string `json:"equipmentId"`
	RentalDate  string `json:"rentalDate"`
	RentalTime  string `json:"rentalTime"`
	ReturnDate  string `json:"returnDate"`
	ReturnTime  string `json:"returnTime"`
}

// AttachAccessories runs the battery/SD-card resolver for a primary item.
func (h *CartHandler) AttachAccessories(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req attachAccessoriesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.EquipmentID == "" {
		writeError(w, domain.E(domain.KindValidation, "http.accessory", "equipmentId is required"))
		return
	}
	window, err := domain.ParseWindow(req.RentalDate, req.RentalTime, req.ReturnDate, req.ReturnTime)
	if err != nil {
		writeError(w, err)
		return
	}
	outcome, err := h.accessory.Attach(r.Context(), id.UserID, req.EquipmentID, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
