package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"breathadmin/internal/auth"
	"breathadmin/internal/config"
	"breathadmin/internal/content"
	"breathadmin/internal/course"
	"breathadmin/internal/dashboard"
	"breathadmin/internal/database"
	"breathadmin/internal/env"
	"breathadmin/internal/gateway"
	"breathadmin/internal/ngrok"
	"breathadmin/internal/notify"
	"breathadmin/internal/preview"
	"breathadmin/internal/probe"

	"github.com/sirupsen/logrus"
)

// AdminServer is the HTTP surface of the admin console. It wires the
// backend gateway clients and the domain services behind a single mux.
type AdminServer struct {
	config       *config.Config
	db           *database.Database
	logger       *logrus.Logger
	envManager   *env.Manager
	contentSvc   *content.Service
	courseSvc    *course.Service
	dashboardSvc *dashboard.Service
	notifySvc    *notify.Console
	authService  *auth.Service
	prober       *probe.Prober
	previewState *preview.StateManager
	ngrokService *ngrok.Service
	httpServer   *http.Server
}

// NewAdminServer creates the admin server and all its services.
func NewAdminServer(cfg *config.Config, db *database.Database, logger *logrus.Logger) (*AdminServer, error) {
	envManager, err := env.NewManager(&cfg.Backends, logger)
	if err != nil {
		return nil, fmt.Errorf("environment manager: %w", err)
	}

	timeout := 30 * time.Second
	contentClient := gateway.NewContentClient(envManager, timeout, logger)
	coursesClient := gateway.NewCoursesClient(envManager, timeout, logger)
	notificationsClient := gateway.NewNotificationsClient(envManager, cfg.Notifications.AdminKey, timeout, logger)

	prober := probe.NewProber(cfg, logger)
	contentSvc := content.NewService(contentClient, prober, logger)

	authService, err := auth.NewService(&cfg.Auth, db)
	if err != nil {
		envManager.Close()
		return nil, fmt.Errorf("auth service: %w", err)
	}

	ngrokSvc, err := ngrok.NewService(&cfg.Ngrok, logger)
	if err != nil {
		logger.WithError(err).Warn("Ngrok service not available")
		ngrokSvc = nil
	}

	return &AdminServer{
		config:       cfg,
		db:           db,
		logger:       logger,
		envManager:   envManager,
		contentSvc:   contentSvc,
		courseSvc:    course.NewService(coursesClient, logger),
		dashboardSvc: dashboard.NewService(contentSvc, coursesClient, notificationsClient, logger),
		notifySvc:    notify.NewConsole(notificationsClient, logger),
		authService:  authService,
		prober:       prober,
		previewState: preview.NewStateManager(),
		ngrokService: ngrokSvc,
	}, nil
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (as *AdminServer) Start() error {
	mux := as.setupRoutes()
	handler := as.panicRecoveryMiddleware(
		as.requestLoggingMiddleware(
			as.corsMiddleware(
				as.authMiddleware(mux))))

	localAddress := fmt.Sprintf("http://%s", as.config.GetAddress())
	as.logger.WithFields(logrus.Fields{
		"address":     localAddress,
		"environment": as.envManager.Current(),
	}).Info("Admin server starting")

	// Start ngrok tunnel if enabled
	if as.ngrokService != nil {
		if err := as.ngrokService.StartTunnel(context.Background(), localAddress); err != nil {
			as.logger.WithError(err).Warn("Could not start ngrok tunnel")
		}
	}

	as.httpServer = &http.Server{
		Addr:         as.config.GetAddress(),
		Handler:      handler,
		ReadTimeout:  time.Duration(as.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(as.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(as.config.Server.IdleTimeout) * time.Second,
	}

	err := as.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (as *AdminServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", as.handleHealthCheck)

	// Auth routes
	mux.HandleFunc("/api/auth/login", as.handleAuthLogin)
	mux.HandleFunc("/api/auth/logout", as.handleAuthLogout)
	mux.HandleFunc("/api/auth/me", as.handleAuthMe)

	// Dashboard
	mux.HandleFunc("/api/dashboard", as.handleDashboard)

	// Environment toggle
	mux.HandleFunc("/api/environment", as.handleEnvironment)

	// Content routes
	mux.HandleFunc("/api/categories", as.handleCategories)
	mux.HandleFunc("/api/content/", as.handleContent)

	// Preview routes
	mux.HandleFunc("/api/preview", as.handlePreviewState)
	mux.HandleFunc("/api/preview/start", as.handlePreviewStart)

	// Course routes
	mux.HandleFunc("/api/courses", as.handleCourses)
	mux.HandleFunc("/api/courses/order", as.handleCourseOrder)
	mux.HandleFunc("/api/courses/systemeio", as.handleSystemeioCourses)
	mux.HandleFunc("/api/courses/", as.handleCourseByID)

	// Theme routes
	mux.HandleFunc("/api/themes", as.handleThemes)
	mux.HandleFunc("/api/themes/", as.handleThemeByID)

	// Notification routes
	mux.HandleFunc("/api/notifications/history", as.handleNotificationHistory)
	mux.HandleFunc("/api/notifications/schedule", as.handleNotificationSchedule)
	mux.HandleFunc("/api/notifications/cron/breathing", as.handleBreathingCron)
	mux.HandleFunc("/api/notifications/cron/course-reminders", as.handleCourseRemindersCron)
	mux.HandleFunc("/api/notifications/link-options", as.handleLinkOptions)
	mux.HandleFunc("/api/notifications/send", as.handleSendBlast)

	// Probe routes
	mux.HandleFunc("/api/probe", as.handleStartProbe)
	mux.HandleFunc("/api/probe/", as.handleProbeStatus)

	return mux
}

// Shutdown gracefully shuts down the admin server.
func (as *AdminServer) Shutdown(ctx context.Context) {
	as.logger.Info("Shutting down admin server...")

	if as.httpServer != nil {
		if err := as.httpServer.Shutdown(ctx); err != nil {
			as.logger.WithError(err).Warn("HTTP server shutdown")
		}
	}
	if as.ngrokService != nil {
		as.ngrokService.Stop()
	}
	as.authService.Stop()
	as.envManager.Close()

	as.logger.Info("Admin server shutdown complete")
}
