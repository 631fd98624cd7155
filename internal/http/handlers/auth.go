package handlers

import (
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/argon2"
)

const authCookieMaxAge = 30 * 24 * time.Hour

var authSalt = []byte("team-planner-auth-cookie")

// AuthToken derives the cookie value from the shared password so the
// password itself never travels in a cookie. It is slow on purpose;
// compute it once per server.
func AuthToken(password string) string {
	key := argon2.IDKey([]byte(password), authSalt, 1, 19*1024, 1, 32)
	return hex.EncodeToString(key)
}

// ValidToken compares a cookie value against the expected token in constant time.
func ValidToken(expected, token string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}

// LoginHandler sets the auth cookie when the posted password matches.
func LoginHandler(password string) http.HandlerFunc {
	token := AuthToken(password)
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) != 1 {
			log.Warn("Rejected login attempt", "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "wrong password"})
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     AuthCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(authCookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
