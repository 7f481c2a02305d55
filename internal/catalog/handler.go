package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/models"
)

// QuestionDrafter produces an editable question draft from a topic.
type QuestionDrafter interface {
	DraftQuestion(ctx context.Context, topic string, difficulty int) (*models.QuestionDraft, error)
}

// Handler exposes the admin catalog API: CRUD, swap, and draft generation.
type Handler struct {
	store   *Store
	drafter QuestionDrafter
}

func NewHandler(store *Store, drafter QuestionDrafter) *Handler {
	return &Handler{store: store, drafter: drafter}
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list questions failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list questions"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	day, ok := dayVar(w, r)
	if !ok {
		return
	}
	question, err := h.store.GetByDay(r.Context(), day)
	if errors.Is(err, models.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("day", day).Msg("get question failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get question"})
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) UpsertQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Day < 1 || req.Text == "" || req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "day, text, and answer are required"})
		return
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be between 1 and 5"})
		return
	}
	unlockDate, err := time.Parse(time.RFC3339, req.UnlockDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "unlock_date must be RFC 3339"})
		return
	}

	question := &models.Question{
		Day:        req.Day,
		Text:       req.Text,
		Hint:       req.Hint,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Images:     req.Images,
		UnlockDate: unlockDate,
	}
	if err := h.store.Upsert(r.Context(), question); err != nil {
		log.Error().Err(err).Int("day", req.Day).Msg("upsert question failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save question"})
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	day, ok := dayVar(w, r)
	if !ok {
		return
	}
	err := h.store.Delete(r.Context(), day)
	if errors.Is(err, models.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("day", day).Msg("delete question failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete question"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SwapQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.DayA < 1 || req.DayB < 1 || req.DayA == req.DayB {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "day_a and day_b must be distinct days"})
		return
	}

	err := h.store.Swap(r.Context(), req.DayA, req.DayB)
	if errors.Is(err, models.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Both days must have existing questions"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("day_a", req.DayA).Int("day_b", req.DayB).Msg("swap failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Swap failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "swapped"})
}

func (h *Handler) DraftQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.DraftQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic is required"})
		return
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		req.Difficulty = 3
	}
	if h.drafter == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Draft generation is not configured"})
		return
	}

	draft, err := h.drafter.DraftQuestion(r.Context(), req.Topic, req.Difficulty)
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("draft generation failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Draft generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func dayVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || day < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid day"})
		return 0, false
	}
	return day, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
