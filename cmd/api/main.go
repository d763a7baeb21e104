package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindhaven/backend/internal/config"
	"github.com/mindhaven/backend/internal/flow"
	"github.com/mindhaven/backend/internal/handler"
	"github.com/mindhaven/backend/internal/logger"
	aiService "github.com/mindhaven/backend/internal/service/ai"
	chatService "github.com/mindhaven/backend/internal/service/chat"
	speechService "github.com/mindhaven/backend/internal/service/speech"
	"github.com/mindhaven/backend/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file; absence is fine in production where the runtime
	// provides the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	st, closeStore, err := openStore(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store opened")

	flowCfg := cfg.Flow.Apply(flow.DefaultConfig())
	journalFlow := flow.New(flowCfg, st, st, log)

	var aiSvc *aiService.Service
	if cfg.AI.Enabled() {
		aiSvc, err = aiService.NewService(cfg.AI, flowCfg.AssistantSender, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI service, continuing without AI replies")
			aiSvc = nil
		} else {
			log.Info().Str("model", cfg.AI.Model).Msg("AI service initialized")
		}
	} else {
		log.Info().Msg("AI credentials not configured, skipping AI replies")
	}

	var speechSvc *speechService.Service
	if cfg.Speech.Enabled {
		speechSvc = speechService.NewService(cfg.Speech)
		log.Info().Msg("speech service initialized")
	} else {
		log.Info().Msg("speech credentials not configured, skipping transcription")
	}

	var replyGen chatService.ReplyGenerator
	if aiSvc != nil {
		replyGen = aiSvc
	}
	chatSvc := chatService.NewService(st, journalFlow, replyGen, log)

	router := handler.NewRouter(st, journalFlow, chatSvc, aiSvc, speechSvc, log)

	startServer(ctx, cfg.Server, router, log)
}

func openStore(cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER: " + cfg.Driver)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("MindHaven backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
