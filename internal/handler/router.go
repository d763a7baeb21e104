package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	flowPkg "github.com/mindhaven/backend/internal/flow"
	chatHandler "github.com/mindhaven/backend/internal/handler/chat"
	journalHandler "github.com/mindhaven/backend/internal/handler/journal"
	speechHandler "github.com/mindhaven/backend/internal/handler/speech"
	"github.com/mindhaven/backend/internal/handler/stream"
	"github.com/mindhaven/backend/internal/handler/ws"
	"github.com/mindhaven/backend/internal/middleware"
	aiService "github.com/mindhaven/backend/internal/service/ai"
	chatService "github.com/mindhaven/backend/internal/service/chat"
	speechService "github.com/mindhaven/backend/internal/service/speech"
	"github.com/mindhaven/backend/internal/store"
	"github.com/mindhaven/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc and speechSvc may be
// nil; the corresponding routes degrade gracefully.
func NewRouter(st store.Store, fl *flowPkg.Flow, chatSvc *chatService.Service, aiSvc *aiService.Service, speechSvc *speechService.Service, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Identity)

	var streamHandler *stream.Handler
	if aiSvc != nil {
		streamHandler = stream.New(aiSvc, fl, st, log)
	}

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc, fl, st).RegisterRoutes(api)
		journalHandler.New(st).RegisterRoutes(api)
		ws.New(st, log).RegisterRoutes(api)

		api.Get("/chats/{chatID}/stream", func(w http.ResponseWriter, r *http.Request) {
			chatID := chi.URLParam(r, "chatID")
			userMessage := r.URL.Query().Get("message")
			userID := middleware.UserID(r.Context())

			if streamHandler == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}
			if userID == "" {
				utils.RespondError(w, http.StatusUnauthorized, "user id is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, chatID, userID, userMessage); err != nil {
				log.Error().Err(err).Str("chat_id", chatID).Msg("stream request failed")
			}
		})

		if speechSvc != nil {
			speechHandler.New(speechSvc).RegisterRoutes(api)
		}
	})

	return r
}
