package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Signer issues operator tokens.
type Signer interface {
	Sign(operator string, ttl time.Duration) (string, error)
}

// AuthHandler logs the configured operator in. There is one operator
// account; its bcrypt hash comes from configuration.
type AuthHandler struct {
	Auth         Signer
	OperatorName string
	PasswordHash []byte
	TokenTTL     time.Duration
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name and password are required")
		return
	}

	// compare the hash even on a wrong name so both paths cost the same
	hashErr := bcrypt.CompareHashAndPassword(h.PasswordHash, []byte(req.Password))
	if req.Name != h.OperatorName || hashErr != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid name or password")
		return
	}

	token, err := h.Auth.Sign(req.Name, h.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}
