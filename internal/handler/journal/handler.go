// Package journal exposes journal entry CRUD.
package journal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindhaven/backend/internal/middleware"
	"github.com/mindhaven/backend/internal/model/journal"
	"github.com/mindhaven/backend/internal/store"
	"github.com/mindhaven/backend/pkg/utils"
)

// Handler serves the caller's journal collection.
type Handler struct {
	journals store.JournalStore
}

// New creates the journal handler.
func New(journals store.JournalStore) *Handler {
	return &Handler{journals: journals}
}

// RegisterRoutes mounts the journal routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/journals", h.handleList)
	r.Post("/journals", h.handleCreate)
	r.Patch("/journals/{entryID}", h.handleUpdate)
	r.Delete("/journals/{entryID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.journals.Entries(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var draft journal.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if draft.Title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	id, err := h.journals.CreateEntry(r.Context(), userID, draft)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var patch journal.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.journals.UpdateEntry(r.Context(), userID, chi.URLParam(r, "entryID"), patch)
	if errors.Is(err, store.ErrEntryNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := h.journals.DeleteEntry(r.Context(), userID, chi.URLParam(r, "entryID"))
	if errors.Is(err, store.ErrEntryNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "user id is required")
		return "", false
	}
	return userID, true
}
