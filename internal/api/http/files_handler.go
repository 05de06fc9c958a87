package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/storage"
)

// FilesHandler issues presigned URLs for return photos and agreement
// documents, and serves the mock backend's direct upload/download routes.
type FilesHandler struct {
	storage       storage.StorageInterface
	allowedTypes  []string
	urlExpiry     time.Duration
	maxFileSizeMB int64
}

func NewFilesHandler(store storage.StorageInterface, allowedTypes []string, urlExpiry time.Duration, maxFileSizeMB int64) *FilesHandler {
	return &FilesHandler{
		storage:       store,
		allowedTypes:  allowedTypes,
		urlExpiry:     urlExpiry,
		maxFileSizeMB: maxFileSizeMB,
	}
}

type uploadURLRequest struct {
	Purpose     string `json:"purpose"` // "return_photo" or "agreement"
	ContentType string `json:"contentType"`
	Extension   string `json:"extension"`
}

type uploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	ExpiresIn int    `json:"expiresInSeconds"`
}

// IssueUploadURL generates a storage key scoped to the caller and returns a
// presigned upload URL for it.
func (h *FilesHandler) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req uploadURLRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Purpose != "return_photo" && req.Purpose != "agreement" {
		writeError(w, domain.E(domain.KindValidation, "http.files", "purpose must be return_photo or agreement"))
		return
	}
	if !slices.Contains(h.allowedTypes, req.ContentType) {
		writeError(w, domain.E(domain.KindValidation, "http.files", fmt.Sprintf("content type %s not allowed", req.ContentType)))
		return
	}
	ext := req.Extension
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	key := fmt.Sprintf("%s/%s/%s%s", req.Purpose, id.UserID, uuid.New().String(), ext)
	url, err := h.storage.GeneratePresignedUploadURL(r.Context(), key, req.ContentType, h.urlExpiry)
	if err != nil {
		writeError(w, domain.WrapE(domain.KindExternalServiceFailure, "http.files", "issue upload url", err))
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{
		Key:       key,
		UploadURL: url,
		ExpiresIn: int(h.urlExpiry.Seconds()),
	})
}

// IssueDownloadURL returns a presigned download URL for an existing key.
func (h *FilesHandler) IssueDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, domain.E(domain.KindValidation, "http.files", "key is required"))
		return
	}
	exists, _, err := h.storage.FileExists(r.Context(), key)
	if err != nil {
		writeError(w, domain.WrapE(domain.KindExternalServiceFailure, "http.files", "stat file", err))
		return
	}
	if !exists {
		writeError(w, domain.E(domain.KindNotFound, "http.files", "file not found"))
		return
	}
	url, err := h.storage.GeneratePresignedDownloadURL(r.Context(), key, h.urlExpiry)
	if err != nil {
		writeError(w, domain.WrapE(domain.KindExternalServiceFailure, "http.files", "issue download url", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"downloadUrl": url, "expiresInSeconds": int(h.urlExpiry.Seconds())})
}

// HandleMockUpload receives the PUT a client makes against a mock presigned
// URL. Only wired when the mock backend is configured.
func (h *FilesHandler) HandleMockUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if !slices.Contains(h.allowedTypes, contentType) {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}
	limited := io.LimitReader(r.Body, h.maxFileSizeMB<<20)
	if err := h.storage.SaveFile(key, limited); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleMockDownload streams a stored file back for mock download URLs.
func (h *FilesHandler) HandleMockDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	file, err := h.storage.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	io.Copy(w, file)
}
