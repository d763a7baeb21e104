// Package chat exposes the chat and journal-flow HTTP endpoints.
package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindhaven/backend/internal/flow"
	"github.com/mindhaven/backend/internal/middleware"
	chatService "github.com/mindhaven/backend/internal/service/chat"
	"github.com/mindhaven/backend/internal/store"
	"github.com/mindhaven/backend/pkg/utils"
)

// Handler serves chat CRUD and the journal-flow actions.
type Handler struct {
	chatSvc  *chatService.Service
	flow     *flow.Flow
	messages store.MessageStore
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, fl *flow.Flow, messages store.MessageStore) *Handler {
	return &Handler{chatSvc: chatSvc, flow: fl, messages: messages}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chats", h.handleCreateChat)
	r.Get("/chats", h.handleListChats)
	r.Get("/chats/{chatID}/messages", h.handleListMessages)
	r.Post("/chats/{chatID}/messages", h.handleSendMessage)
	r.Post("/chats/{chatID}/offer", h.handleOfferResponse)
	r.Post("/chats/{chatID}/title", h.handleTitle)
	r.Post("/chats/{chatID}/mood", h.handleMood)
}

func (h *Handler) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "user id is required")
		return
	}

	c, err := h.chatSvc.CreateChat(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "user id is required")
		return
	}

	chats, err := h.messages.ChatsByUser(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, chats)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	msgs, err := h.messages.Messages(r.Context(), chatID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, msgs)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	chatID := chi.URLParam(r, "chatID")
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "user id is required")
		return
	}

	reply, err := h.chatSvc.SendMessage(r.Context(), chatID, userID, payload.Text)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resp := map[string]any{"status": "sent"}
	if reply != nil {
		resp["reply"] = reply
	}
	utils.RespondJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) handleOfferResponse(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Choice string `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Choice != flow.ChoiceSave && payload.Choice != flow.ChoiceNotNow {
		utils.RespondError(w, http.StatusBadRequest, "choice must be Save or Not now")
		return
	}

	chatID := chi.URLParam(r, "chatID")
	if err := h.flow.RespondToOffer(r.Context(), chatID, payload.Choice); err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

func (h *Handler) handleTitle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	chatID := chi.URLParam(r, "chatID")
	userID := middleware.UserID(r.Context())
	if err := h.flow.OnTitleProvided(r.Context(), chatID, userID, payload.Title); err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

func (h *Handler) handleMood(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Value int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Value < 1 || payload.Value > 5 {
		utils.RespondError(w, http.StatusBadRequest, "value must be between 1 and 5")
		return
	}

	chatID := chi.URLParam(r, "chatID")
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "user id is required")
		return
	}

	if err := h.flow.OnMoodSelected(r.Context(), chatID, userID, payload.Value); err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "saved"})
}

func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrChatNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
