package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eventledger/internal/adapters/discord"
	"eventledger/internal/adapters/httpapi"
	"eventledger/internal/application"
	"eventledger/internal/config"
	"eventledger/internal/infrastructure/database"
	"eventledger/internal/infrastructure/i18n"
	"eventledger/internal/infrastructure/insight"
	"eventledger/internal/infrastructure/logging"
	"eventledger/internal/infrastructure/security"
	"eventledger/internal/ports/output"
	"eventledger/pkg/tz"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuration error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("❌ logger setup failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("❌ server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := database.NewUserRepository(pool)
	eventRepo := database.NewEventRepository(pool)
	registrationRepo := database.NewRegistrationRepository(pool)
	attendanceRepo := database.NewAttendanceRepository(pool)
	reportRepo := database.NewReportRepository(pool)

	insights, err := insight.New(&http.Client{}, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, insights are disabled")
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	policy := application.Policy{}
	identity := application.NewIdentityService(userRepo, &security.Bcrypt{},
		security.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL))
	reminders := application.NewReminderService(eventRepo, registrationRepo, notifier, policy, cfg.ReminderDelay, logger)

	if cfg.SeedAdmin() {
		created, err := identity.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("✅ admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Identity:      identity,
		Events:        application.NewEventService(eventRepo, policy),
		Registrations: application.NewRegistrationService(registrationRepo, eventRepo, userRepo, policy, cfg.EnforceCapacity),
		Attendance:    application.NewAttendanceService(attendanceRepo, registrationRepo, eventRepo, policy, cfg.PublicBaseURL),
		Reports:       application.NewReportService(reportRepo, eventRepo, insights, cfg.InsightTimeout, policy, logger),
		Reminders:     reminders,
	}, i18n.NewTranslator(cfg.DefaultLocale, logger), pool, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.Routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("✅ http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	reminders.Wait()
	return nil
}

func newNotifier(cfg *config.Config, logger *zap.Logger) (output.Notifier, error) {
	if !cfg.DiscordEnabled() {
		logger.Info("DISCORD_TOKEN not set, reminders are logged only")
		return logging.NewLogNotifier(logger), nil
	}
	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	logger.Info("✅ discord reminders enabled", zap.String("channel_id", cfg.DiscordChannelID))
	return discord.NewNotifier(session, cfg.DiscordChannelID, loc), nil
}
