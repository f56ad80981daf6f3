package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/importer"
	"photo-gallery/internal/ingest"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/startup"

	"github.com/gorilla/mux"
)

// Handlers bundles the HTTP endpoints with their dependencies.
type Handlers struct {
	orchestrator *ingest.Orchestrator
	importer     *importer.Importer
	catalog      *catalog.Catalog
	config       *startup.Config
}

// New creates a new Handlers instance.
func New(orch *ingest.Orchestrator, imp *importer.Importer, cat *catalog.Catalog, config *startup.Config) *Handlers {
	return &Handlers{
		orchestrator: orch,
		importer:     imp,
		catalog:      cat,
		config:       config,
	}
}

// ListPhotos handles GET /api/photos, returning every stored photo
// newest-first.
func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.catalog.List()
	if err != nil {
		logging.Error("failed to list photos: %v", err)
		http.Error(w, "Failed to list photos", http.StatusInternalServerError)
		return
	}

	sort.Slice(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})

	writeJSON(w, http.StatusOK, photos)
}

// UploadPhotos handles POST /api/upload. Files arrive as multipart
// form parts under the "photos" field; each part is an independent
// ingestion item and one bad file never fails the batch.
func (h *Handlers) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Warn("failed to clean up multipart temp files: %v", err)
		}
	}()

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	assets := make([]ingest.SourceAsset, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			logging.Warn("failed to open uploaded part %s: %v", header.Filename, err)
			continue
		}
		data, err := io.ReadAll(file)
		if cerr := file.Close(); cerr != nil {
			logging.Warn("failed to close uploaded part %s: %v", header.Filename, cerr)
		}
		if err != nil {
			logging.Warn("failed to read uploaded part %s: %v", header.Filename, err)
			continue
		}
		assets = append(assets, ingest.SourceAsset{
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
			Data:         data,
		})
	}

	result, err := h.orchestrator.IngestUploads(r.Context(), assets)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyBatch) {
			http.Error(w, "No files uploaded", http.StatusBadRequest)
			return
		}
		logging.Error("upload batch failed: %v", err)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"batchId": result.BatchID,
		"photos":  result.Succeeded,
		"failed":  result.Failed,
	})
}

type batchRequest struct {
	Path string `json:"path"`
}

// ImportBatch handles POST /api/upload-batch, importing every image
// file from a server-side directory.
func (h *Handlers) ImportBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "Request must include a path", http.StatusBadRequest)
		return
	}

	result, err := h.importer.Import(r.Context(), req.Path)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrNotADirectory):
			http.Error(w, "Path is not a directory", http.StatusBadRequest)
		case errors.Is(err, importer.ErrPathUnreadable):
			http.Error(w, "Path does not exist or is not readable", http.StatusBadRequest)
		default:
			logging.Error("batch import of %s failed: %v", req.Path, err)
			http.Error(w, "Import failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"batchId":       result.BatchID,
		"imported":      result.Imported,
		"skipped":       result.Skipped,
		"errors":        result.Errors,
		"importedFiles": result.ImportedFiles,
		"total":         result.Total,
	})
}

// DeletePhoto handles DELETE /api/photos/{id}.
func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "Photo id required", http.StatusBadRequest)
		return
	}

	result, err := h.catalog.Delete(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to delete photo %s: %v", id, err)
		http.Error(w, "Failed to delete photo", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Photo deleted successfully",
		"removed": result.Removed,
		"failed":  result.Failed,
	})
}

// GetPhoto handles GET /api/photos/{id}.
func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to fetch photo %s: %v", id, err)
		http.Error(w, "Failed to fetch photo", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": startup.Version,
	})
}

// Version handles GET /api/version.
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, startup.GetBuildInfo())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("failed to encode response: %v", err)
	}
}
