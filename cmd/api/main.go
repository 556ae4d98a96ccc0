package main

// @title Conference Central API
// @version 1.0
// @description Conferences, sessions, speakers, registrations and wishlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/memory"
	redisadapter "conferencecentral/internal/adapters/redis"
	httpdelivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/internal/worker"
)

type taskBroker interface {
	domain.TaskQueue
	domain.TaskSource
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	cache, broker, closeRedis, err := newCacheAndQueue(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	conferenceRepo, sessionRepo, speakerRepo, profileRepo, registrationRepo := newRepositories(db)

	conferenceSvc := services.NewConferenceService(conferenceRepo, profileRepo, cache, broker, logger, cfg.RequestTimeout)
	sessionSvc := services.NewSessionService(conferenceRepo, sessionRepo, speakerRepo, broker, logger, cfg.RequestTimeout)
	profileSvc := services.NewProfileService(profileRepo, conferenceRepo, sessionRepo, speakerRepo, registrationRepo, cfg.RequestTimeout)
	announcementSvc := services.NewAnnouncementService(conferenceRepo, cache, logger, cfg.RequestTimeout)
	featuredSvc := services.NewFeaturedSpeakerService(sessionRepo, speakerRepo, cache, logger, cfg.RequestTimeout)
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workerMetrics := worker.NewMetrics(registry)

	taskWorker := worker.NewTaskWorker(broker, services.NewTaskHandlers(featuredSvc, emailSvc), workerMetrics, logger,
		&worker.TaskWorkerConfig{MaxAttempts: cfg.TaskMaxAttempts, ErrorBackoff: time.Second})
	announcer := worker.NewAnnouncer(announcementSvc, cfg.AnnouncementInterval, workerMetrics, logger)

	handler := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Conferences:    controllers.NewConferenceController(logger, conferenceSvc, profileSvc, announcementSvc),
		Sessions:       controllers.NewSessionController(logger, sessionSvc),
		Profiles:       controllers.NewProfileController(logger, profileSvc),
		Crons:          controllers.NewCronController(logger, announcementSvc),
		Gatherer:       registry,
		HTTPMetrics:    middleware.NewHTTPMetrics(registry),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return taskWorker.Run(gctx) })
	g.Go(func() error { return announcer.Run(gctx) })

	return g.Wait()
}

func newRepositories(db *sql.DB) (domain.ConferenceRepository, domain.SessionRepository, domain.SpeakerRepository, domain.ProfileRepository, domain.RegistrationRepository) {
	return postgres.NewConferenceRepository(db),
		postgres.NewSessionRepository(db),
		postgres.NewSpeakerRepository(db),
		postgres.NewProfileRepository(db),
		postgres.NewRegistrationRepository(db)
}

// newCacheAndQueue uses Redis when REDIS_URL is set and falls back to in-process
// implementations otherwise.
func newCacheAndQueue(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Cache, taskBroker, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-memory cache and task queue")
		return memory.NewCache(), memory.NewQueue(1024, 5*time.Second), func() {}, nil
	}
	client, err := redisadapter.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	queue := redisadapter.NewQueue(client, "tasks", 5*time.Second)
	recovered, err := queue.Recover(ctx)
	if err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("recover task queue: %w", err)
	}
	if recovered > 0 {
		logger.Info("requeued unfinished tasks", "count", recovered)
	}
	return redisadapter.NewCache(client, "", cfg.CacheTTL), queue, func() { client.Close() }, nil
}
