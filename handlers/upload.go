package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/service"
)

// UploadHandler stores avatar and cover images in S3 and hands back their
// public URLs. Without S3 configured the endpoints answer 503.
type UploadHandler struct {
	S3       *service.S3Service
	MaxBytes int64
}

type uploadResponse struct {
	URL string `json:"url"`
}

func imageContentType(filename, partContentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if strings.HasPrefix(partContentType, "image/jpeg") ||
		strings.HasPrefix(partContentType, "image/png") ||
		strings.HasPrefix(partContentType, "image/webp") {
		return partContentType
	}
	return ""
}

func (h *UploadHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "avatars/")
}

func (h *UploadHandler) Cover(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "covers/")
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, prefix string) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	if h.S3 == nil {
		respondError(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	contentType := imageContentType(header.Filename, header.Header.Get("Content-Type"))
	if contentType == "" {
		respondError(w, http.StatusBadRequest, "Only jpeg, png, and webp images are allowed")
		return
	}
	key, err := h.S3.Upload(r.Context(), prefix, header.Filename, file, contentType)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusCreated, uploadResponse{URL: h.S3.PublicURL(key)})
}
