package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"zahlentrainer/internal/service"
)

// BackupHandler exposes practice history export and import
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export streams the practice history as a JSON download
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("zahlentrainer_backup_%s.json", timestamp)
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	backup, err := h.backupService.Export(r.Context(), w)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to export history", "Error exporting history", err)
		return
	}

	slog.Info("practice history exported over HTTP", slog.Int("records", len(backup.Records)))
}

// Import restores a JSON backup. With ?clear=true the existing history is replaced.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	clear := r.URL.Query().Get("clear") == "true"
	body := http.MaxBytesReader(w, r.Body, maxBackupBytes)

	summary, err := h.backupService.Import(r.Context(), body, clear)
	if err != nil {
		respondWithServiceError(w, "Error importing history", err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
