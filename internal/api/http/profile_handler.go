package http

import (
	"net/http"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/service"
)

// ProfileHandler exposes the caller's own profile and rental agreement.
type ProfileHandler struct {
	profiles service.ProfileService
}

func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	profile, err := h.profiles.GetProfile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type agreementRequest struct {
	DocRef string `json:"docRef"`
}

func (h *ProfileHandler) SubmitAgreement(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req agreementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DocRef == "" {
		writeError(w, domain.E(domain.KindValidation, "http.profile", "docRef is required"))
		return
	}
	if err := h.profiles.SubmitAgreement(r.Context(), id.UserID, req.DocRef); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
