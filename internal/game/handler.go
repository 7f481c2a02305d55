package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/auth"
	"github.com/treasure-hunt/backend/internal/logger"
	"github.com/treasure-hunt/backend/internal/models"
)

// Handler exposes the player-facing game API.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetQuestion serves GET /question. Without a day query parameter it resolves
// the current day.
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	day := 0
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid day"})
			return
		}
		day = parsed
	}

	view, err := h.service.QuestionView(r.Context(), auth.UserID(r), day)
	if errors.Is(err, models.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No question for that day"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("day", day).Msg("question view failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load question"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Progress(r.Context(), auth.UserID(r))
	if err != nil {
		log.Error().Err(err).Msg("progress view failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Submit serves POST /submit. Lock rejections map to 403, active cooldowns to
// 429 with a Retry-After header.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(r.Context(), auth.UserID(r), auth.DisplayName(r), req.Day, req.Answer)
	switch {
	case errors.Is(err, models.ErrMissingInput):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "day and answer are required"})
		return
	case errors.Is(err, models.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No question for that day"})
		return
	case errors.Is(err, models.ErrCorruptQuestion):
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Question is not answerable right now"})
		return
	case err != nil:
		userLogger := logger.WithUserID(auth.UserID(r))
		userLogger.Error().Err(err).Int("day", req.Day).Msg("submission failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Submission failed"})
		return
	}

	switch resp.Result {
	case models.ResultDateLocked, models.ResultProgressLocked:
		writeJSON(w, http.StatusForbidden, resp)
	case models.ResultCooldown:
		w.Header().Set("Retry-After", strconv.Itoa(resp.CooldownSeconds))
		writeJSON(w, http.StatusTooManyRequests, resp)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) CompleteTutorial(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CompleteTutorial(r.Context(), auth.UserID(r))
	if err != nil {
		log.Error().Err(err).Msg("tutorial completion failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record tutorial"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
