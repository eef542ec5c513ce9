package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the JWT subject of tokens issued for the admin password.
const AdminSubject = "admin"

type AuthHandler struct {
	passwordHash  string
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a handler that exchanges the admin password for a
// bearer token. An empty passwordHash disables token issuing.
func NewAuthHandler(passwordHash, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type tokenRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// SignToken issues an HS256 token for subject valid for d.
func SignToken(secret, subject string, d time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("empty signing secret")
	}
	exp := time.Now().Add(d)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" {
		http.Error(w, "Token issuing disabled", http.StatusServiceUnavailable)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	tokenStr, exp, err := SignToken(h.jwtSecret, AdminSubject, h.tokenDuration)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, ExpiresAt: exp.Unix()}, http.StatusOK)
}
