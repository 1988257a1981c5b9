package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/config"
	dbRedis "github.com/kailas-cloud/fieldaim/internal/db/redis"
	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	logpkg "github.com/kailas-cloud/fieldaim/internal/logger"
	"github.com/kailas-cloud/fieldaim/internal/metrics"
	aimrepo "github.com/kailas-cloud/fieldaim/internal/repository/aim"
	siterepo "github.com/kailas-cloud/fieldaim/internal/repository/site"
	chiTransport "github.com/kailas-cloud/fieldaim/internal/transport/chi"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/fieldaim/internal/usecase/health"
	siteuc "github.com/kailas-cloud/fieldaim/internal/usecase/site"
	"github.com/kailas-cloud/fieldaim/internal/version"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fieldaim API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterAimingMetrics()

	siteRepo := siterepo.New(store, cfg.Storage.KeyPrefix)
	aimRepo := aimrepo.New(store, cfg.Storage.KeyPrefix, cfg.Storage.AimRetention())

	siteSvc := siteuc.New(siteRepo, aimRepo, logger)
	aimingSvc := aiminguc.New(siteSvc, aiminguc.Config{
		SmoothingWindow: cfg.Aiming.HeadingSmoothingWindow,
		IdleTTL:         cfg.Aiming.SessionIdleTTL(),
		Feedback:        cfg.Aiming.FeedbackEnabled,
	}, logger, aiminguc.WithSinkFactory(cueLogger(logger)))
	defer aimingSvc.Shutdown()
	healthSvc := healthuc.New(store, aimingSvc)

	go aimingSvc.RunJanitor(ctx)

	server := chiTransport.NewServer(siteSvc, aimingSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.APIKeyAuth(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorResponseCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully", zap.Int("open_sessions", aimingSvc.Active()))
}

// cueLogger traces server-side cues. The mobile shell plays its own tones
// from the cadence in the session snapshot.
func cueLogger(logger *zap.Logger) aiminguc.SinkFactory {
	return func(sessionID string) feedback.ToneSink {
		l := logger.With(zap.String("session_id", sessionID))
		return feedback.ToneSinkFunc(func(c alignment.Cadence, s alignment.State) {
			l.Debug("Feedback cue",
				zap.Int("tier", c.Tier),
				zap.Duration("tone", c.Tone),
				zap.Float64("distance", s.Distance),
			)
		})
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Heading updates arrive several times a second per session.
			level := zap.InfoLevel
			if r.Method == http.MethodPut && chi.RouteContext(r.Context()).RoutePattern() == "/sessions/{id}/heading" {
				level = zap.DebugLevel
			}
			reqLogger.Log(level, "http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
