package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"payday/internal/auth"
	"payday/internal/db"
	"payday/internal/platform/config"
	"payday/internal/transport/http/api"
	"payday/internal/transport/http/middleware"
)

type Handler struct {
	DB  db.Querier
	Cfg config.Config
}

func NewHandler(q db.Querier, cfg config.Config) *Handler {
	return &Handler{DB: q, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", reqID)
		return
	}

	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", reqID)
		return
	}

	var userID, passwordHash string
	err := h.DB.QueryRow(r.Context(),
		"SELECT id, password_hash FROM users WHERE email = $1", email).Scan(&userID, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to look up user", reqID)
		return
	}

	if err := auth.CheckPassword(passwordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWTSecret, auth.Claims{UserID: userID, Email: email}, h.Cfg.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to issue token", reqID)
		return
	}

	api.Success(w, loginResponse{Token: token, Email: email}, reqID)
}
