package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/revive-underground/smart-booking/internal/http/middleware"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

const invalidCredentialsMessage = "Invalid username or password."

// AdminLoginConfig holds the single operator credential pair.
type AdminLoginConfig struct {
	Username  string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

// AdminLoginHandler exchanges operator credentials for an admin session token.
type AdminLoginHandler struct {
	cfg    AdminLoginConfig
	logger *logging.Logger
}

func NewAdminLoginHandler(cfg AdminLoginConfig, logger *logging.Logger) *AdminLoginHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	return &AdminLoginHandler{cfg: cfg, logger: logger}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginResponse is returned by POST /admin/login.
type AdminLoginResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Login handles POST /admin/login.
func (h *AdminLoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Username == "" || h.cfg.Password == "" || h.cfg.JWTSecret == "" {
		writeJSON(w, http.StatusServiceUnavailable, AdminLoginResponse{Message: "Admin login is not configured."})
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 8<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AdminLoginResponse{Message: "Invalid request body."})
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("admin login rejected", "remote_ip", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, AdminLoginResponse{Message: invalidCredentialsMessage})
		return
	}

	token, expires, err := middleware.IssueAdminToken(h.cfg.JWTSecret, username, h.cfg.TokenTTL)
	if err != nil {
		h.logger.Error("admin login: failed to sign token", "error", err)
		writeJSON(w, http.StatusInternalServerError, AdminLoginResponse{Message: "Could not create a session."})
		return
	}
	writeJSON(w, http.StatusOK, AdminLoginResponse{Success: true, Token: token, ExpiresAt: &expires})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
