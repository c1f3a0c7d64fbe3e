package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/livecue-backend/internal/adapter/mail"
	"github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	accountrepo "github.com/heartmarshall/livecue-backend/internal/adapter/postgres/account"
	activityrepo "github.com/heartmarshall/livecue-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/livecue-backend/internal/adapter/postgres/alarmconfig"
	auditrepo "github.com/heartmarshall/livecue-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/livecue-backend/internal/adapter/postgres/linkconfig"
	jwtauth "github.com/heartmarshall/livecue-backend/internal/auth"
	"github.com/heartmarshall/livecue-backend/internal/config"
	"github.com/heartmarshall/livecue-backend/internal/service/activity"
	"github.com/heartmarshall/livecue-backend/internal/service/audit"
	"github.com/heartmarshall/livecue-backend/internal/service/auth"
	"github.com/heartmarshall/livecue-backend/internal/service/channel"
	"github.com/heartmarshall/livecue-backend/internal/service/configstore"
	"github.com/heartmarshall/livecue-backend/internal/service/dispatch"
	"github.com/heartmarshall/livecue-backend/internal/service/watchdog"
	"github.com/heartmarshall/livecue-backend/internal/transport/middleware"
	"github.com/heartmarshall/livecue-backend/internal/transport/rest"
	"github.com/heartmarshall/livecue-backend/internal/transport/ws"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	clock := clockwork.NewRealClock()

	// Repositories
	accounts := accountrepo.New(pool)
	links := linkconfig.New(pool)
	alarms := alarmconfig.New(pool)
	audits := auditrepo.New(pool)
	journal := activityrepo.New(pool)
	txm := postgres.NewTxManager(pool)

	// Services
	auditSvc := audit.NewService(logger, audits, clock)
	configSvc := configstore.NewService(logger, accounts, links, alarms, auditSvc, txm)
	activitySvc := activity.NewService(logger, journal, clock)

	jwtManager := jwtauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authSvc := auth.NewService(logger, accounts, auditSvc, jwtManager)

	mailer, err := mail.New(logger, cfg.SMTP)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	registry := channel.NewRegistry(logger, channel.Config{
		SendQueueSize: cfg.Channel.SendQueueSize,
		WriteTimeout:  cfg.Channel.WriteTimeout,
	}, auditSvc)

	alarmWatch := watchdog.NewService(logger, clock, watchdog.Config{
		MinTick:        cfg.Alarm.MinTickInterval,
		MaxTick:        cfg.Alarm.MaxTickInterval,
		ResendInterval: cfg.Alarm.ResendInterval,
		SendTimeout:    cfg.Alarm.SendTimeout,
	}, configSvc, registry, mailer)

	dispatcher := dispatch.NewService(logger, clock, configSvc, alarmWatch, registry, journal)

	registry.Bind(dispatcher, alarmWatch)
	configSvc.OnAlarmChange(alarmWatch.Reconfigure)

	// Transport
	limiter := middleware.NewRateLimiter(5 * time.Minute)

	router := rest.NewRouter(logger, cfg.CORS, authSvc, limiter, rest.Handlers{
		Health:  rest.NewHealthHandler(pool, registry, BuildVersion()),
		Auth:    rest.NewAuthHandler(authSvc, logger),
		Config:  rest.NewConfigHandler(configSvc, logger),
		History: rest.NewHistoryHandler(auditSvc, activitySvc, logger),
		Console: ws.NewHandler(logger, clock, ws.Config{
			ReadLimit:      cfg.Channel.ReadLimit,
			OriginPatterns: originPatterns(cfg.CORS.AllowedOrigins),
		}, registry, configSvc, authSvc),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		registry.Close(shutdownCtx)
		err := srv.Shutdown(shutdownCtx)
		alarmWatch.Close()
		limiter.Stop()

		logger.Info("shutdown complete", slog.Uint64("dropped_fragments", dispatcher.Dropped()))
		return err
	})

	return g.Wait()
}

// originPatterns turns the CORS origin list into websocket host patterns.
func originPatterns(allowed string) []string {
	var patterns []string
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		patterns = append(patterns, o)
	}
	return patterns
}
