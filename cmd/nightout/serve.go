package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nightout/config"
	_ "nightout/docs"
	"nightout/internal/adapters/auth"
	"nightout/internal/adapters/email"
	"nightout/internal/adapters/googlemaps"
	deliveryhttp "nightout/internal/delivery/http"
	"nightout/internal/delivery/http/controllers"
	"nightout/internal/delivery/http/middleware"
	"nightout/internal/metrics"
	"nightout/internal/repository/boltdb"
	"nightout/internal/repository/postgres"
	"nightout/internal/services"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the database schema before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PlanStorePath), 0o755); err != nil {
		return fmt.Errorf("create plan store directory: %w", err)
	}
	plans, err := boltdb.OpenPlanStore(cfg.PlanStorePath)
	if err != nil {
		return err
	}
	defer plans.Close()

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
		SendTimeout: cfg.ContextTimeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	mapsClient, err := googlemaps.NewClient(googlemaps.Config{
		APIKey:     cfg.GoogleMaps.APIKey,
		BaseURL:    cfg.GoogleMaps.BaseURL,
		TravelMode: cfg.GoogleMaps.TravelMode,
	})
	if err != nil {
		return fmt.Errorf("create maps client: %w", err)
	}

	m := metrics.New()
	jwt := auth.NewJWT(cfg.JWTSecret)

	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewEventInvitationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	prefsRepo := postgres.NewPreferencesRepository(db)

	emailService := services.NewEmailService(mailer, renderer)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(auth.DefaultBcryptCost), jwt, cfg.JWTExpiry)
	userService := services.NewUserService(userRepo, prefsRepo, cfg.ContextTimeout)
	venueService := services.NewVenueService(googlemaps.NewCatalog(mapsClient), venueRepo, m, cfg.ContextTimeout)
	plannerService := services.NewPlannerService(plans, googlemaps.NewOptimizer(mapsClient, cfg.GoogleMaps.TravelMode), venueRepo, m, logger, cfg.ContextTimeout)
	eventService := services.NewEventService(eventRepo, invitationRepo, userRepo, emailService, plannerService, m, services.EventServiceConfig{
		PublicBaseURL:  cfg.PublicBaseURL,
		Concurrency:    cfg.MailConcurrency,
		ContextTimeout: cfg.ContextTimeout,
	})
	invitationService := services.NewInvitationService(eventRepo, invitationRepo, userRepo, emailService, m, cfg.MailConcurrency, cfg.ContextTimeout)

	limiter := middleware.NewRateLimiter(cfg.InviteRateLimitRPS, cfg.InviteRateLimitBurst)
	go limiter.Run(ctx.Done())

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:         logger,
		Metrics:        m,
		TokenVerifier:  jwt,
		InviteLimiter:  limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Health:         db,
		Auth:           controllers.NewAuthController(logger, authService),
		Users:          controllers.NewUserController(logger, userService),
		Venues:         controllers.NewVenueController(logger, venueService),
		Plans:          controllers.NewPlanController(logger, plannerService),
		Events:         controllers.NewEventController(logger, eventService),
		Invitations:    controllers.NewInvitationController(logger, invitationService, eventService),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
