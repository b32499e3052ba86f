package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"zahlentrainer/internal/audio"
	"zahlentrainer/internal/checker"
	"zahlentrainer/internal/models"
	"zahlentrainer/internal/numwords"
	"zahlentrainer/internal/service"
	"zahlentrainer/internal/validation"
)

// PracticeHandler handles the practice API
type PracticeHandler struct {
	practiceService *service.PracticeService
	settingsService *service.SettingsService
	ttsService      *audio.TTSService
}

// NewPracticeHandler creates a new practice handler. ttsService may be nil,
// which disables the audio endpoint.
func NewPracticeHandler(practiceService *service.PracticeService, settingsService *service.SettingsService, ttsService *audio.TTSService) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
		settingsService: settingsService,
		ttsService:      ttsService,
	}
}

// checkRequest is the body of POST /api/check. Answer may be a JSON number or
// a string such as "3,14".
type checkRequest struct {
	Answer        json.RawMessage `json:"answer"`
	CorrectAnswer *float64        `json:"correctAnswer"`
}

type recordResponse struct {
	Success bool                   `json:"success"`
	Record  *models.PracticeRecord `json:"record"`
}

type clearResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type wordsResponse struct {
	Number     float64 `json:"number"`
	GermanWord string  `json:"germanWord"`
}

// Number generates a new drill. Query parameters override the stored defaults.
func (h *PracticeHandler) Number(w http.ResponseWriter, r *http.Request) {
	base, err := h.settingsService.Defaults(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error loading practice defaults", err)
		return
	}

	settings, err := validation.ParseSettingsQueryWithBase(base, r.URL.Query())
	if err != nil {
		respondWithServiceError(w, "Invalid number settings", err)
		return
	}

	drill, err := h.practiceService.NextNumber(settings)
	if err != nil {
		respondWithServiceError(w, "Error generating number", err)
		return
	}

	respondWithJSON(w, http.StatusOK, drill)
}

// Check compares a submitted answer with the expected number
func (h *PracticeHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, "Invalid check request", err)
		return
	}
	if req.CorrectAnswer == nil {
		respondWithServiceError(w, "Invalid check request", fmt.Errorf("%w: correctAnswer is required", models.ErrInvalidInput))
		return
	}

	answer, err := parseAnswerField(req.Answer)
	if err != nil {
		respondWithServiceError(w, "Invalid answer", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.practiceService.Check(answer, *req.CorrectAnswer))
}

// CreateHistory stores a practice attempt
func (h *PracticeHandler) CreateHistory(w http.ResponseWriter, r *http.Request) {
	var input service.RecordInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithServiceError(w, "Invalid history entry", err)
		return
	}
	if input.Settings != nil {
		if err := validation.ValidateSettings(*input.Settings); err != nil {
			respondWithServiceError(w, "Invalid history settings", err)
			return
		}
	}

	record, err := h.practiceService.Record(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, "Error saving history entry", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, recordResponse{Success: true, Record: record})
}

// ListHistory returns a page of the practice history
func (h *PracticeHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		respondWithServiceError(w, "Invalid history query", err)
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset")
	if err != nil {
		respondWithServiceError(w, "Invalid history query", err)
		return
	}

	page, err := h.practiceService.History(r.Context(), limit, offset)
	if err != nil {
		respondWithServiceError(w, "Error loading history", err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetHistoryRecord returns one record by id
func (h *PracticeHandler) GetHistoryRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.practiceService.GetRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Error loading history entry", err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// ClearHistory deletes the whole practice history
func (h *PracticeHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.practiceService.ClearHistory(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error clearing history", err)
		return
	}

	respondWithJSON(w, http.StatusOK, clearResponse{Success: true, Deleted: deleted})
}

// Stats returns the practice statistics
func (h *PracticeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.practiceService.Statistics(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error computing statistics", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetSettings returns the stored default practice settings
func (h *PracticeHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Defaults(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error loading practice defaults", err)
		return
	}

	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the stored default practice settings
func (h *PracticeHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		respondWithServiceError(w, "Invalid settings body", err)
		return
	}

	saved, err := h.settingsService.UpdateDefaults(r.Context(), settings)
	if err != nil {
		respondWithServiceError(w, "Error saving practice defaults", err)
		return
	}

	respondWithJSON(w, http.StatusOK, saved)
}

// Difficulties lists the settings presets
func (h *PracticeHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.Difficulties)
}

// Words spells the number given in the query. Trailing zeros are kept, so
// "3.10" is spoken as "drei Komma eins null".
func (h *PracticeHandler) Words(w http.ResponseWriter, r *http.Request) {
	d, err := parseNumberParam(r.URL.Query().Get("number"))
	if err != nil {
		respondWithServiceError(w, "Invalid number", err)
		return
	}

	word, err := numwords.ConvertDecimal(d)
	if err != nil {
		respondWithServiceError(w, "Error spelling number", err)
		return
	}

	respondWithJSON(w, http.StatusOK, wordsResponse{Number: d.InexactFloat64(), GermanWord: word})
}

// Audio serves an MP3 of the number spoken in German
func (h *PracticeHandler) Audio(w http.ResponseWriter, r *http.Request) {
	if h.ttsService == nil {
		respondWithError(w, http.StatusNotFound, ErrAudioDisabled, "", nil)
		return
	}

	d, err := parseNumberParam(r.URL.Query().Get("number"))
	if err != nil {
		respondWithServiceError(w, "Invalid number", err)
		return
	}
	word, err := numwords.ConvertDecimal(d)
	if err != nil {
		respondWithServiceError(w, "Error spelling number", err)
		return
	}

	filename, err := h.ttsService.AudioFor(r.Context(), word)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to generate audio", "Error generating audio", err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeMP3)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, h.ttsService.Path(filename))
}

// decodeJSON reads a single JSON object from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", models.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %s: %v", models.ErrInvalidInput, ErrInvalidJSON, err)
	}
	return nil
}

// parseAnswerField accepts a JSON number or a numeric string
func parseAnswerField(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: answer is required", models.ErrInvalidInput)
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		return checker.ParseAnswer(s)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: answer must be a number", models.ErrInvalidInput)
	}
	return v, nil
}

// parseNumberParam reads a decimal number, accepting a German decimal comma
func parseNumberParam(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: number is required", models.ErrInvalidInput)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", models.ErrInvalidInput, s)
	}
	return d, nil
}

func queryInt(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidInput, name)
	}
	return n, nil
}
