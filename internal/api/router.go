package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/elicitlabs/elicit/internal/api/handlers"
	mw "github.com/elicitlabs/elicit/internal/api/middleware"
	"github.com/elicitlabs/elicit/internal/buildconfig"
	"github.com/elicitlabs/elicit/internal/config"
	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/embedding"
	"github.com/elicitlabs/elicit/internal/engine"
	"github.com/elicitlabs/elicit/internal/generator"
	"github.com/elicitlabs/elicit/internal/retrieval"
	"github.com/elicitlabs/elicit/internal/service"
	"github.com/elicitlabs/elicit/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and request counters for the metrics endpoint.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, engineCfg engine.Config, logger *zap.Logger) (*App, error) {
	// Stores
	sessionStore := store.NewSessionStore(db)
	documentStore := store.NewDocumentStore(db)

	// External clients via provider factory
	generatorProvider := config.GeneratorProvider()
	embeddingProvider := config.EmbeddingProvider()

	generatorClient, err := generator.NewClient(generatorProvider, config.GeneratorAPIKey())
	if err != nil {
		return nil, err
	}
	logger.Info("generator client initialized", zap.String("provider", generatorProvider))

	embeddingClient, err := embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey())
	if err != nil {
		return nil, err
	}
	logger.Info("embedding client initialized", zap.String("provider", embeddingProvider))

	// Retrievers
	lexical := retrieval.NewLexicalRetriever(db)
	vector := retrieval.NewVectorRetriever(db, embeddingClient)

	// Decision engine
	orch, err := engine.NewOrchestrator(engineCfg, generatorClient, lexical, vector, logger)
	if err != nil {
		return nil, err
	}

	// Services
	sessionSvc := service.NewSessionService(sessionStore, orch, engineCfg, logger)
	documentSvc := service.NewDocumentService(documentStore, embeddingClient, logger)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessionSvc)
	documentHandler := handlers.NewDocumentHandler(documentSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health
	r.Get("/health", healthHandler(db))

	// Metrics
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", sessionHandler.Templates)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetByID)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/turns", sessionHandler.Turn)
				r.Post("/abort", sessionHandler.Abort)
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Create)
			r.Get("/{id}", documentHandler.GetByID)
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.SessionStore    = (*store.SessionStore)(nil)
	_ domain.DocumentStore   = (*store.DocumentStore)(nil)
	_ domain.Retriever       = (*retrieval.LexicalRetriever)(nil)
	_ domain.Retriever       = (*retrieval.VectorRetriever)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.Generator       = (*generator.OpenAIClient)(nil)
	_ domain.Generator       = (*generator.FallbackClient)(nil)
	_ domain.Generator       = (*generator.Chain)(nil)
	_ domain.Generator       = (*generator.MockClient)(nil)
)
