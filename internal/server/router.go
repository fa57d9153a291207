package server

import (
	"log/slog"
	"net/http"
	"time"

	"condoadmin-backend/internal/config"
	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health      handler.HealthHandler
	Auth        handler.AuthHandler
	UF          handler.UFHandler
	Condominium handler.CondominiumHandler
	User        handler.UserHandler
	Provider    handler.ProviderHandler
	Maintenance handler.MaintenanceHandler
	Expense     handler.ExpenseHandler
	CommonArea  handler.CommonAreaHandler
	Request     handler.RequestHandler
	Visit       handler.VisitHandler
	Delivery    handler.DeliveryHandler
	AuditLog    handler.AuditLogHandler
}

func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))

	// Public surface.
	h.Health.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	h.UF.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated surface, tiered by role.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		h.Auth.RegisterProtectedRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin))
			h.Request.RegisterRoutes(r)
			h.CommonArea.RegisterRoutes(r)
			h.Visit.RegisterRoutes(r)
			h.Delivery.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin))
			h.Maintenance.RegisterRoutes(r)
			h.Expense.RegisterRoutes(r)
			h.Provider.RegisterRoutes(r)
			h.CommonArea.RegisterAdminRoutes(r)
			h.AuditLog.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleSuperAdmin))
			h.Condominium.RegisterRoutes(r)
			h.User.RegisterRoutes(r)
		})
	})

	return r
}
