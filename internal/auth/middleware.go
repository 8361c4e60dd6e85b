package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

type errorObject struct {
	ErrorKey     string `json:"error_key"`
	ErrorMessage string `json:"error_message"`
}

type errorResponse struct {
	Errors []errorObject `json:"errors"`
}

// Middleware guards a route group with bearer-token auth. A missing,
// malformed or invalid token short-circuits to 401 with a bearer challenge;
// request content is never inspected before the token check.
func (v *TokenVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok || !v.Verify(token) {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errorResponse{
		Errors: []errorObject{{
			ErrorKey:     "authentication_failed",
			ErrorMessage: "could not validate token",
		}},
	})
}
