package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Verifier     TokenVerifier
	Availability *AvailabilityHandler
	Cart         *CartHandler
	Reservations *ReservationHandler
	Admin        *AdminHandler
	Catalog      *CatalogHandler
	Profile      *ProfileHandler
	Files        *FilesHandler
	// MockStorageRoutes wires the direct upload/download endpoints that mock
	// presigned URLs point at. False for real object storage.
	MockStorageRoutes bool
}

// NewRouter builds the full route table. Everything except health and the
// mock storage endpoints sits behind token verification.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	if deps.MockStorageRoutes {
		r.HandleFunc("/api/v1/files/upload/{token}", deps.Files.HandleMockUpload).Methods("PUT")
		r.HandleFunc("/api/v1/files/download/{token}", deps.Files.HandleMockDownload).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(deps.Verifier))

	// Catalog
	api.HandleFunc("/equipment", deps.Catalog.List).Methods("GET")
	api.HandleFunc("/equipment/{id}", deps.Catalog.Get).Methods("GET")
	api.HandleFunc("/equipment", RequireAdmin(deps.Catalog.Create)).Methods("POST")
	api.HandleFunc("/equipment/{id}", RequireAdmin(deps.Catalog.Update)).Methods("PUT")

	// Availability
	api.HandleFunc("/availability/check", deps.Availability.Check).Methods("POST")
	api.HandleFunc("/availability/refresh", deps.Availability.Refresh).Methods("POST")

	// Cart
	api.HandleFunc("/cart", deps.Cart.Get).Methods("GET")
	api.HandleFunc("/cart/items", deps.Cart.AddItem).Methods("POST")
	api.HandleFunc("/cart/items/{itemId}", deps.Cart.RemoveItem).Methods("DELETE")
	api.HandleFunc("/cart/checkout", deps.Cart.Checkout).Methods("POST")
	api.HandleFunc("/cart/accessories", deps.Cart.AttachAccessories).Methods("POST")

	// Reservations (user)
	api.HandleFunc("/reservations", deps.Reservations.ListMine).Methods("GET")
	api.HandleFunc("/reservations/{id}", deps.Reservations.Get).Methods("GET")
	api.HandleFunc("/reservations/{id}/cancel", deps.Reservations.Cancel).Methods("POST")
	api.HandleFunc("/reservations/{id}/return-request", deps.Reservations.RequestReturn).Methods("POST")

	// Admin
	api.HandleFunc("/admin/reservations", RequireAdmin(deps.Admin.ListByStatus)).Methods("GET")
	api.HandleFunc("/admin/reservations/{id}/approve", RequireAdmin(deps.Admin.Approve)).Methods("POST")
	api.HandleFunc("/admin/reservations/{id}/reject", RequireAdmin(deps.Admin.Reject)).Methods("POST")
	api.HandleFunc("/admin/reservations/{id}/return", RequireAdmin(deps.Admin.FinalizeReturn)).Methods("POST")
	api.HandleFunc("/admin/reservations/approve-selected", RequireAdmin(deps.Admin.ApproveSelected)).Methods("POST")
	api.HandleFunc("/admin/reservations/reject-selected", RequireAdmin(deps.Admin.RejectSelected)).Methods("POST")
	api.HandleFunc("/admin/reservations/return-selected", RequireAdmin(deps.Admin.ReturnSelected)).Methods("POST")

	// Profile and files
	api.HandleFunc("/profile", deps.Profile.Get).Methods("GET")
	api.HandleFunc("/profile/agreement", deps.Profile.SubmitAgreement).Methods("POST")
	api.HandleFunc("/files/upload-url", deps.Files.IssueUploadURL).Methods("POST")
	api.HandleFunc("/files/download-url", deps.Files.IssueDownloadURL).Methods("GET")

	return r
}
