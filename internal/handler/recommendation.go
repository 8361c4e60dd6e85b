package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vederko-p/RecService/internal/domain"
)

// GET /reco/{modelName}/{userID}
func (h *Handler) GetReco(w http.ResponseWriter, r *http.Request) {
	modelName := chi.URLParam(r, "modelName")

	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		// A non-integer id cannot name a known user.
		writeError(w, http.StatusNotFound, "user_not_found",
			fmt.Sprintf("User %s not found", userIDStr))
		return
	}

	log.Printf("[handler] request for model: %s, user_id: %d", modelName, userID)

	result, err := h.service.GetReco(r.Context(), modelName, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found",
				fmt.Sprintf("User %d not found", userID))
			return
		}
		if errors.Is(err, domain.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, "model_not_found",
				fmt.Sprintf("Model %s not found", modelName))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecoResponse{
		UserID: userID,
		Items:  result.Items,
	})
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("I am alive"))
}
