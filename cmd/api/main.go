package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/adapters/handler"
	"github.com/avelarb/lumina-salon/booking-service/internal/adapters/middleware"
	"github.com/avelarb/lumina-salon/booking-service/internal/adapters/repository"
	"github.com/avelarb/lumina-salon/booking-service/internal/app"
	"github.com/avelarb/lumina-salon/booking-service/internal/config"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/services"
	"github.com/avelarb/lumina-salon/booking-service/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := logging.NewLogger(cfg.Environment)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(db, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	worklogRepo := repository.NewWorkLogRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	guard := services.NewGuardService(userRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo, outboxRepo, logger)
	staffService := services.NewStaffService(userRepo, staffRepo, appointmentRepo, worklogRepo, logger)

	appointmentHandler := handler.NewAppointmentHandler(guard, appointmentService, logger)
	staffHandler := handler.NewStaffHandler(guard, staffService, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	session := middleware.NewSessionMiddleware(cfg.SessionPublicKey, redisClient, logger)
	csrf := middleware.NewCSRFMiddleware(redisClient, logger)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// read: identity still resolved per request, no CSRF check
	read := func(route string, h http.HandlerFunc) http.Handler {
		return metrics.Instrument(route, h)
	}
	// mutate: CSRF token required on top of identity resolution
	mutate := func(route string, h http.HandlerFunc) http.Handler {
		return metrics.Instrument(route, csrf.Verify(h))
	}

	mux.Handle("/api/appointments", mutate("/api/appointments", appointmentHandler.List))
	mux.Handle("/api/appointments/cancel", mutate("/api/appointments/cancel", appointmentHandler.Cancel))
	mux.Handle("/api/appointments/edit", mutate("/api/appointments/edit", appointmentHandler.Edit))
	mux.Handle("/api/appointments/mine", read("/api/appointments/mine", appointmentHandler.Mine))
	mux.Handle("/api/appointments/assign", mutate("/api/appointments/assign", appointmentHandler.Assign))
	mux.Handle("/api/appointments/status", mutate("/api/appointments/status", appointmentHandler.UpdateStatus))

	mux.Handle("/api/staff/list", mutate("/api/staff/list", staffHandler.List))
	mux.Handle("/api/staff/details", mutate("/api/staff/details", staffHandler.UpdateDetails))
	mux.Handle("/api/staff/salary", mutate("/api/staff/salary", staffHandler.Salary))
	mux.Handle("/api/staff/schedule", mutate("/api/staff/schedule", staffHandler.Schedule))
	mux.Handle("/api/staff/checkin", mutate("/api/staff/checkin", staffHandler.CheckIn))
	mux.Handle("/api/staff/checkout", mutate("/api/staff/checkout", staffHandler.CheckOut))

	root := middleware.CORS(cfg.AllowedOrigins)(session.Attach(mux))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: root,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
