package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpapi "passerelle-backend/internal/api/http"
	"passerelle-backend/internal/auth"
	"passerelle-backend/internal/config"
	fsrepo "passerelle-backend/internal/repository/firestore"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/service"
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
	logger.Info("Starting Passerelle backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Firebase configuration", "project_id", cfg.Firebase.ProjectID)

	ctx := context.Background()

	// Initialize Firebase
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase app", "error", err)
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to connect to Firestore", "error", err)
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer fsClient.Close()
	logger.Info("Firestore connection established")

	// Initialize Repositories
	store := fsrepo.NewStore(fsClient)

	// Initialize Authenticator
	var authenticator auth.Authenticator
	switch cfg.Auth.Mode {
	case "dev":
		logger.Warn("Using dev token authentication; do not run this mode in production")
		authenticator = auth.NewDevTokenManager(cfg.Auth.DevSecret)
	default:
		authClient, err := app.Auth(ctx)
		if err != nil {
			logger.Error("Failed to initialize Firebase auth", "error", err)
			log.Fatalf("Failed to initialize Firebase auth: %v", err)
		}
		authenticator = auth.NewFirebaseAuthenticator(authClient)
	}

	// Initialize Email Sender
	emailSender := service.NewSendGridSender(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	notifier := service.NewEmailNotifier(emailSender)

	// Initialize Services
	directorySvc := service.NewDirectoryService(
		store.ProfileRepository,
		time.Duration(cfg.Directory.CacheTTLSeconds)*time.Second,
		5*time.Minute,
		service.WithMaxFetch(cfg.Directory.MaxFetch),
	)
	lifecycleSvc := service.NewProfileLifecycleService(
		store.ProfileRepository,
		service.WithTransitionListener(notifier),
		service.WithTransitionListener(directorySvc),
	)
	moderationSvc := service.NewModerationService(lifecycleSvc, store.ProfileRepository)
	contactSvc := service.NewContactService(store.ContactRepository, store.ProfileRepository, emailSender)
	webinarSvc := service.NewWebinarService(store.WebinarRepository)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Profile:   httpapi.NewProfileHandler(lifecycleSvc, moderationSvc),
		Directory: httpapi.NewDirectoryHandler(directorySvc),
		Admin:     httpapi.NewAdminHandler(moderationSvc),
		Contact:   httpapi.NewContactHandler(contactSvc),
		Webinar:   httpapi.NewWebinarHandler(webinarSvc),
	}, authenticator)

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
