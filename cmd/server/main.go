package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	applicationhandler "blockrent/internal/application/handler"
	applicationservice "blockrent/internal/application/service"
	applicationstore "blockrent/internal/application/store"
	"blockrent/internal/audit"
	audithandler "blockrent/internal/audit/handler"
	"blockrent/internal/auth"
	authhandler "blockrent/internal/auth/handler"
	"blockrent/internal/auth/revocation"
	"blockrent/internal/filter"
	filterhandler "blockrent/internal/filter/handler"
	identityhandler "blockrent/internal/identity/handler"
	identityservice "blockrent/internal/identity/service"
	identitystore "blockrent/internal/identity/store"
	"blockrent/internal/notify"
	"blockrent/internal/platform/config"
	"blockrent/internal/platform/httpserver"
	"blockrent/internal/platform/logger"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/postgres"
	redisplatform "blockrent/internal/platform/redis"
	"blockrent/internal/registration"
	registrationhandler "blockrent/internal/registration/handler"
)

// main wires dependencies and runs the server. Business logic lives in the
// internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.Migrate {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
	}

	redisClient, err := redisplatform.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var trl auth.RevocationList = revocation.NewInMemoryTRL()
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
		log.Info("token revocation list backed by redis")
	}

	var sender notify.Sender = notify.NewLogSender(log)
	if cfg.Mail.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.Mail)
	}
	dispatcher := notify.NewDispatcher(sender, log, m, cfg.Mail.QueueSize)

	userStore := identitystore.NewPostgresStore(db)
	applicationStore := applicationstore.NewPostgresStore(db)
	auditStore := audit.NewPostgresStore(db)
	filterStore := filter.NewPostgresStore(db)

	recorder := audit.NewRecorder(auditStore, log, m)
	provisioner := identityservice.NewProvisioner(userStore, dispatcher, recorder, log, m)
	registry := applicationservice.NewRegistry(applicationStore, dispatcher, recorder, log, m)
	confirmer := applicationservice.NewConfirmer(applicationStore, recorder, log, m)
	registrations := registration.NewService(provisioner, registry, log)
	filters := filter.NewService(filterStore, log)

	tokens := auth.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.Auth.AccessTokenTTL)
	authService := auth.NewService(userStore, tokens, trl, log)

	router := newRouter(
		authhandler.New(authService, log, m, authService),
		registrationhandler.New(registrations, log, m, authService),
		applicationhandler.New(registry, confirmer, log, m, authService),
		identityhandler.New(provisioner, log, m, authService),
		audithandler.New(recorder, log, m, authService),
		filterhandler.New(filters, log, m, authService),
	)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(db, redisClient))

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// featureHandler is implemented by every feature's HTTP handler. Each one
// mounts its own subrouter at a distinct prefix under the versioned root.
type featureHandler interface {
	Register(r chi.Router)
}

func newRouter(handlers ...featureHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		for _, h := range handlers {
			h.Register(r)
		}
	})
	return router
}

func healthHandler(db interface{ PingContext(context.Context) error }, redisClient *redisplatform.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
