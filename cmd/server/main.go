package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpapi "gearroom-backend/internal/api/http"
	"gearroom-backend/internal/config"
	"gearroom-backend/internal/jobs"
	"gearroom-backend/internal/logger"
	"gearroom-backend/internal/repository/firestoredb"
	"gearroom-backend/internal/scheduler"
	"gearroom-backend/internal/service"
	"gearroom-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gear Room Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Firebase configuration", "project_id", cfg.Firebase.ProjectID)

	ctx := context.Background()

	// Initialize Firebase (Firestore + Auth share one app)
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		logger.Error("Failed to initialize firebase app", "error", err)
		log.Fatalf("Failed to initialize firebase app: %v", err)
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to initialize firestore client", "error", err)
		log.Fatalf("Failed to initialize firestore client: %v", err)
	}
	defer fsClient.Close()
	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Error("Failed to initialize firebase auth client", "error", err)
		log.Fatalf("Failed to initialize firebase auth client: %v", err)
	}
	logger.Info("Firebase connection established")

	// Initialize Repositories
	store := firestoredb.NewStore(fsClient)

	// Initialize Storage Service
	storageService, err := storage.NewStorage(ctx, cfg.Storage, opts...)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "type", cfg.Storage.Type)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// Initialize collaborator services
	var emailSvc service.EmailService = service.NoopEmailService{}
	if cfg.Email.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	}
	calendarSvc := service.NewCalendarService(
		cfg.Calendar.WebhookURL,
		time.Duration(cfg.Calendar.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(store.Reservations, store.Carts, store.Equipment)
	cartSvc := service.NewCartService(
		store.Carts,
		store.Equipment,
		store.Reservations,
		availabilitySvc,
		service.CartLimits{
			MaxWindowDays:         cfg.Cart.MaxWindowDays,
			LongTermMaxWindowDays: cfg.Cart.LongTermMaxWindowDays,
		},
	)
	accessorySvc := service.NewAccessoryService(store.Equipment, store.Carts, availabilitySvc, cartSvc)
	reservationSvc := service.NewReservationService(store.Reservations, store.Equipment, store.Users, calendarSvc, emailSvc)
	adminSvc := service.NewAdminService(store.Reservations, store.Equipment)
	catalogSvc := service.NewCatalogService(store.Equipment)
	profileSvc := service.NewProfileService(store.Users)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store.Reservations, store.Users, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP handlers
	filesHandler := httpapi.NewFilesHandler(
		storageService,
		cfg.Storage.AllowedTypes,
		time.Duration(cfg.Storage.URLExpiryMinutes)*time.Minute,
		cfg.Storage.MaxFileSize,
	)
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Verifier:          authClient,
		Availability:      httpapi.NewAvailabilityHandler(availabilitySvc),
		Cart:              httpapi.NewCartHandler(cartSvc, accessorySvc),
		Reservations:      httpapi.NewReservationHandler(reservationSvc),
		Admin:             httpapi.NewAdminHandler(reservationSvc, adminSvc),
		Catalog:           httpapi.NewCatalogHandler(catalogSvc),
		Profile:           httpapi.NewProfileHandler(profileSvc),
		Files:             filesHandler,
		MockStorageRoutes: cfg.Storage.Type == "" || cfg.Storage.Type == "mock",
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
