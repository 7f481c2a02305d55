package leaderboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/models"
)

// Handler serves GET /leaderboard/{day}.
type Handler struct {
	ranker Ranker
}

func NewHandler(ranker Ranker) *Handler {
	return &Handler{ranker: ranker}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || day < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid day"})
		return
	}

	limit := maxEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := h.ranker.TopForDay(r.Context(), day, limit)
	if err != nil {
		log.Error().Err(err).Int("day", day).Msg("leaderboard query failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}

	out := make([]models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = "Anonymous"
		}
		out = append(out, models.LeaderboardEntry{
			ID:          e.UserID,
			Name:        name,
			CompletedAt: e.CompletedAt,
			Rank:        e.Rank,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
