package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dawarsaada/siyana/internal/config"
	"github.com/dawarsaada/siyana/internal/domain"
	"github.com/dawarsaada/siyana/internal/handler"
	"github.com/dawarsaada/siyana/internal/push"
	"github.com/dawarsaada/siyana/internal/repository"
	"github.com/dawarsaada/siyana/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogger(cfg.LogFile)

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected")

	ctx := context.Background()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}

	ticketRepo := repository.NewTicketRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	pushSvc, err := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushSubscriber)
	if err != nil {
		return err
	}

	notifier := service.NewNotifier(notificationRepo, pushSvc)
	ticketSvc := service.NewTicketService(ticketRepo, branchRepo, notifier)
	authSvc := service.NewAuthService(accountRepo, notifier, cfg.SessionSecret)
	directorySvc := service.NewDirectoryService(accountRepo, branchRepo, notifier)

	if err := directorySvc.Seed(ctx); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(handler.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handler.NewAuthHandler(authSvc)
	ticketHandler := handler.NewTicketHandler(ticketSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	notificationHandler := handler.NewNotificationHandler(notifier)
	pushHandler := handler.NewPushHandler(pushSvc)

	api := e.Group("/api")
	api.GET("/health", handler.Health)
	api.GET("/push/vapid-key", pushHandler.VAPIDKey)
	api.POST("/push/subscribe", pushHandler.Subscribe)
	api.POST("/push/send", pushHandler.Send)

	v1 := api.Group("/v1")
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("", handler.SessionAuth(authSvc))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/logout", authHandler.Logout)

	authed.GET("/tickets", ticketHandler.List)
	authed.POST("/tickets", ticketHandler.Create)
	authed.GET("/tickets/:id", ticketHandler.Get)
	authed.POST("/tickets/:id/transition", ticketHandler.Transition)
	authed.GET("/dashboard", ticketHandler.Dashboard)

	authed.GET("/branches", directoryHandler.ListBranches)

	authed.GET("/notifications", notificationHandler.List)
	authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
	authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

	admin := authed.Group("", handler.RequireRole(domain.RoleOperationManager))
	admin.DELETE("/tickets", ticketHandler.Delete)
	admin.GET("/accounts", directoryHandler.ListAccounts)
	admin.PUT("/accounts", directoryHandler.SaveAccount)
	admin.DELETE("/accounts/:id", directoryHandler.DeleteAccount)
	admin.PUT("/branches", directoryHandler.SaveBranch)
	admin.DELETE("/branches/:name", directoryHandler.DeleteBranch)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// setupLogger routes slog JSON output to stdout, and additionally through a
// rotating file when LOG_FILE is set.
func setupLogger(logFile string) {
	var out io.Writer = os.Stdout
	if logFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		})
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, nil)))
}
