package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/gvondra/StsfctryRecipes/internal/config"
	"github.com/gvondra/StsfctryRecipes/internal/logging"
	"github.com/gvondra/StsfctryRecipes/internal/metrics"
	"github.com/gvondra/StsfctryRecipes/internal/seed"
	"github.com/gvondra/StsfctryRecipes/internal/store"
)

type server struct {
	auth    *authService
	store   store.Store
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	// mu serializes load-modify-save cycles against the store.
	mu sync.Mutex
}

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		logging.New("info", nil).WithError(err).Fatal("failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recipes, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.WithError(err).Fatal("failed to open recipe store")
	}
	defer recipes.Close()

	if cfg.IsDev() {
		stats, err := seed.Run(ctx, recipes)
		if err != nil {
			log.WithError(err).Fatal("failed to seed recipes")
		}
		log.WithFields(logrus.Fields{"inserts": stats.Inserts, "dependencies": stats.Dependencies}).Info("seeded starter recipes")
	}

	srv := &server{
		auth:    newAuthService(cfg.AdminToken),
		store:   recipes,
		log:     log,
		metrics: metrics.New(),
	}
	if !srv.auth.enabled {
		log.Warn("ADMIN_TOKEN is not set; mutating routes are open")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.WithField("addr", httpServer.Addr).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", s.handleRecipesList)
		r.Get("/{id}", s.handleRecipeGet)
		r.Get("/{id}/text", s.handleRecipeText)
		r.Get("/{id}/calc", s.handleCalc)
		r.Get("/{id}/calc/text", s.handleCalcText)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/", s.handleRecipeCreate)
			r.Patch("/{id}", s.handleRecipeUpdate)
			r.Put("/{id}/dependencies/{targetID}", s.handleDependencyAdd)
			r.Delete("/{id}/dependencies/{targetID}", s.handleDependencyRemove)
		})
	})

	return r
}

// observe logs every request and records its latency under the matched route.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(route, r.Method, status, elapsed)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"elapsed":    elapsed,
		}).Debug("request")
	})
}
