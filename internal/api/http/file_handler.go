package http

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/storage"
)

// FileHandler serves uploads and downloads of car images and paperwork
// against the configured storage backend.
type FileHandler struct {
	store        storage.Storage
	maxBytes     int64
	allowedTypes map[string]bool
}

func NewFileHandler(store storage.Storage, maxFileSizeMB int64, allowedTypes []string) *FileHandler {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &FileHandler{
		store:        store,
		maxBytes:     maxFileSizeMB << 20,
		allowedTypes: allowed,
	}
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload accepts a single file as the request body. The kind path segment
// chooses between images and documents; the response carries the key to
// attach to a car or company record.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind := storage.Kind(mux.Vars(r)["kind"])
	if kind != storage.KindImage && kind != storage.KindDocument {
		writeError(w, domain.NewValidationError("kind", "must be images or documents"))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !h.allowedTypes[strings.ToLower(contentType)] {
		writeError(w, domain.NewValidationError("content-type", "file type not allowed"))
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, domain.NewValidationError("filename", "is required"))
		return
	}

	key := storage.NewKey(kind, filename)
	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	url, err := h.store.Save(r.Context(), key, contentType, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, domain.NewValidationError("body", "file exceeds size limit"))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: url})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["kind"] + "/" + vars["name"]

	f, err := h.store.Open(r.Context(), key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "file not found"})
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(key))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, f)
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
