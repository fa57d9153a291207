package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"condoadmin-backend/internal/config"
	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/handler"
	"condoadmin-backend/internal/repository"
	"condoadmin-backend/internal/server"
	"condoadmin-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.UserRepository{DB: pg}
	condoRepo := repository.CondominiumRepository{DB: pg}
	providerRepo := repository.ProviderRepository{DB: pg}
	maintenanceRepo := repository.MaintenanceRepository{DB: pg}
	expenseRepo := repository.ExpenseRepository{DB: pg}
	auditRepo := repository.AuditLogRepository{DB: pg}
	areaRepo := repository.CommonAreaRepository{DB: pg}
	requestRepo := repository.RequestRepository{DB: pg}
	visitRepo := repository.VisitRepository{DB: pg}
	deliveryRepo := repository.DeliveryRepository{DB: pg}

	if err := expenseRepo.SeedStatuses(ctx); err != nil {
		logger.Error("status seed failed", "error", err)
		os.Exit(1)
	}
	if err := expenseRepo.SeedCategories(ctx); err != nil {
		logger.Error("category seed failed", "error", err)
		os.Exit(1)
	}
	if err := userRepo.SeedRoles(ctx); err != nil {
		logger.Error("role seed failed", "error", err)
		os.Exit(1)
	}

	authService := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	maintenanceService := service.MaintenanceService{
		DB:           pg.Pool,
		Maintenances: maintenanceRepo,
		Expenses:     expenseRepo,
		Audits:       auditRepo,
	}
	indicatorService := service.NewIndicatorService(cfg.UFIndicatorURL, logger)

	router := server.NewRouter(cfg, logger, server.Handlers{
		Health:      handler.HealthHandler{DB: pg},
		Auth:        handler.AuthHandler{Service: authService},
		UF:          handler.UFHandler{Indicators: indicatorService},
		Condominium: handler.CondominiumHandler{Repo: condoRepo},
		User:        handler.UserHandler{Repo: userRepo},
		Provider:    handler.ProviderHandler{Repo: providerRepo},
		Maintenance: handler.MaintenanceHandler{Repo: maintenanceRepo, Payer: maintenanceService},
		Expense:     handler.ExpenseHandler{Repo: expenseRepo},
		CommonArea:  handler.CommonAreaHandler{Repo: areaRepo},
		Request:     handler.RequestHandler{Repo: requestRepo},
		Visit:       handler.VisitHandler{Repo: visitRepo},
		Delivery:    handler.DeliveryHandler{Repo: deliveryRepo},
		AuditLog:    handler.AuditLogHandler{Repo: auditRepo},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
