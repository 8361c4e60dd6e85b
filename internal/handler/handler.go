package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vederko-p/RecService/internal/service"
)

type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errKey, message string) {
	writeJSON(w, status, ErrorResponse{
		Errors: []ErrorObject{{
			ErrorKey:     errKey,
			ErrorMessage: message,
		}},
	})
}
