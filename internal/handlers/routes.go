package handlers

import "net/http"

// NewRouter registers the API routes
func NewRouter(practice *PracticeHandler, backup *BackupHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", health.Health)

	mux.HandleFunc("GET /api/number", practice.Number)
	mux.HandleFunc("POST /api/check", practice.Check)
	mux.HandleFunc("GET /api/words", practice.Words)
	mux.HandleFunc("GET /api/audio", practice.Audio)
	mux.HandleFunc("GET /api/difficulties", practice.Difficulties)
	mux.HandleFunc("GET /api/settings", practice.GetSettings)
	mux.HandleFunc("PUT /api/settings", practice.UpdateSettings)

	mux.HandleFunc("POST /api/history", practice.CreateHistory)
	mux.HandleFunc("GET /api/history", practice.ListHistory)
	mux.HandleFunc("GET /api/history/{id}", practice.GetHistoryRecord)
	mux.HandleFunc("DELETE /api/history", practice.ClearHistory)
	mux.HandleFunc("GET /api/stats", practice.Stats)

	mux.HandleFunc("GET /api/backup", backup.Export)
	mux.HandleFunc("POST /api/backup", backup.Import)

	return mux
}
