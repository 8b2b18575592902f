package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/discussion-platform/internal/content"
	"github.com/example/discussion-platform/internal/events"
	"github.com/example/discussion-platform/internal/handlers"
	"github.com/example/discussion-platform/internal/identity"
	"github.com/example/discussion-platform/internal/platform/auth"
	"github.com/example/discussion-platform/internal/platform/config"
	"github.com/example/discussion-platform/internal/platform/db"
	"github.com/example/discussion-platform/internal/platform/httpserver"
	"github.com/example/discussion-platform/internal/platform/logging"
	"github.com/example/discussion-platform/internal/platform/natsconn"
	"github.com/example/discussion-platform/internal/platform/run"
	"github.com/example/discussion-platform/internal/policy"
	"github.com/example/discussion-platform/internal/store"
	"github.com/example/discussion-platform/internal/threads"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	comments, reactions, history, closeStores := initStores(cfg, log)
	if closeStores != nil {
		defer closeStores()
	}

	publisher := initEvents(cfg, log)

	provider := identity.NewClaimsProvider()
	svc := threads.NewService(threads.Deps{
		Comments:  comments,
		Reactions: reactions,
		History:   history,
		Identity:  provider,
		Approval:  policy.NewAutoApproval(provider, cfg.TrustedGroups),
		Content:   content.New(),
		Events:    publisher,
		Log:       log,
	})

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	// Read paths take an optional actor; unapproved content stays hidden
	// from anonymous viewers.
	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalUser(verifier))
		r.Get("/v1/posts/{post_id}/comments", handlers.GetThread(svc))
		r.Get("/v1/comments/{comment_id}/replies", handlers.ExpandReplies(svc))
		r.Get("/v1/comments/{comment_id}/history", handlers.GetHistory(svc))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/posts/{post_id}/comments", handlers.CreateComment(svc))
		r.Put("/v1/comments/{comment_id}", handlers.EditComment(svc))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(svc))
		r.Post("/v1/comments/{comment_id}/reactions", handlers.React(svc))
		r.Post("/v1/comments/{comment_id}/approve", handlers.ApproveComment(svc))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the storage backend. Production requires Postgres
// and terminates otherwise; development falls back to in-memory stores.
func initStores(cfg config.AppConfig, log *zap.Logger) (store.CommentStore, store.ReactionStore, store.HistoryStore, func()) {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return store.NewInMemoryCommentStore(), store.NewInMemoryReactionStore(), store.NewInMemoryHistoryStore(), nil
	}

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory stores", zap.Error(err))
		return store.NewInMemoryCommentStore(), store.NewInMemoryReactionStore(), store.NewInMemoryHistoryStore(), nil
	}

	log.Info("stores: postgres")
	return store.NewPostgresCommentStore(pool),
		store.NewPostgresReactionStore(pool),
		store.NewPostgresHistoryStore(pool),
		pool.Close
}

// initEvents connects the lifecycle event publisher; NATS being down is
// never fatal, events are best-effort.
func initEvents(cfg config.AppConfig, log *zap.Logger) *events.Publisher {
	if cfg.NATSURL == "" {
		log.Warn("NATS_URL not set, lifecycle events will not be published")
		return events.New(nil, log)
	}
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Warn("nats connect failed, lifecycle events disabled", zap.Error(err))
		return events.New(nil, log)
	}
	return events.New(nc, log)
}
