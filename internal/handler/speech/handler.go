// Package speech exposes voice-to-text transcription.
package speech

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	speechService "github.com/mindhaven/backend/internal/service/speech"
	"github.com/mindhaven/backend/pkg/utils"
)

// Handler serves transcription requests.
type Handler struct {
	speechSvc *speechService.Service
}

// New creates the speech handler.
func New(speechSvc *speechService.Service) *Handler {
	return &Handler{speechSvc: speechSvc}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/speech/transcribe", h.handleTranscribe)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req speechService.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Audio == "" {
		utils.RespondError(w, http.StatusBadRequest, "audio is required")
		return
	}

	text, err := h.speechSvc.Transcribe(r.Context(), req)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}
