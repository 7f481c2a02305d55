package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/treasure-hunt/backend/internal/models"
)

const adminTokenTTL = 72 * time.Hour

// Handler serves admin login. There is no registration endpoint; admin
// accounts are created by the seed command.
type Handler struct {
	db          *sql.DB
	adminSecret []byte
}

func NewHandler(db *sql.DB, adminSecret string) *Handler {
	return &Handler{db: db, adminSecret: []byte(adminSecret)}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Email and password are required"})
		return
	}

	var admin models.Admin
	var hashedPassword string
	err := h.db.QueryRowContext(r.Context(),
		`SELECT id, email, name, password, created_at FROM admins WHERE email = $1`,
		req.Email,
	).Scan(&admin.ID, &admin.Email, &admin.Name, &hashedPassword, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: models.ErrInvalidCredentials.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("admin lookup failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: models.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.generateToken(admin.ID)
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AdminLoginResponse{Token: token, Admin: admin})
}

func (h *Handler) generateToken(adminID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(adminID, 10),
		"role": "admin",
		"exp":  now.Add(adminTokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.adminSecret)
}

func writeAuthError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
