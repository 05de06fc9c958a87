package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// CatalogHandler exposes the equipment catalog. Reads are open to any
// signed-in user; writes are admin only.
type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	status := domain.EquipmentStatus(r.URL.Query().Get("status"))
	list, err := h.catalog.List(r.Context(), category, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": list})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	eq, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var eq domain.Equipment
	if err := decodeBody(r, &eq); err != nil {
		writeError(w, err)
		return
	}
	if err := h.catalog.Create(r.Context(), &eq); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eq)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var eq domain.Equipment
	if err := decodeBody(r, &eq); err != nil {
		writeError(w, err)
		return
	}
	eq.ID = mux.Vars(r)["id"]
	if err := h.catalog.Update(r.Context(), &eq); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}
