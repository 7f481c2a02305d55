package assets

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/models"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler accepts admin image uploads for a question day.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// UploadImage serves POST /admin/days/{day}/image with multipart form field
// "image". The response carries the URL to add to the question.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || day < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid day"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Image too large or malformed upload"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	url, err := h.store.Save(r.Context(), day, header.Filename, file)
	if err != nil {
		log.Error().Err(err).Int("day", day).Msg("image upload failed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to store image"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
