package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haimle/botshop/internal/infrastructure/config"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/middleware"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Config   *config.Config
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Health   *HealthController
	Orders   *OrderController
	Products *ProductController
	Webhooks *WebhookController
	Admin    *AdminController
}

// NewRouter builds the HTTP router with the full middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if deps.Config.Observability.EnableTracing {
		r.Use(middleware.Tracing())
	}
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Sepay-Signature"},
		AllowCredentials: deps.Config.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	if deps.Config.Observability.EnableMetrics {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Get("/health", deps.Health.Health)
	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	if deps.Config.Observability.EnableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// The webhook authenticates itself via HMAC, not JWT.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(deps.Config.Server.WebhookRateLimit))
			r.Post("/webhooks/sepay", deps.Webhooks.HandleSePay)
		})

		r.Get("/products", deps.Products.List)
		r.Get("/products/{id}", deps.Products.Get)
		r.Get("/products/{id}/stock", deps.Products.Stock)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Config.Auth.JWTSecret))

			r.Post("/orders", deps.Orders.Create)
			r.Get("/orders", deps.Orders.List)
			r.Get("/orders/{id}", deps.Orders.Get)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/orders", deps.Admin.ListOrders)
				r.Post("/orders/{id}/refund", deps.Admin.RefundOrder)
				r.Get("/products/{id}/codes", deps.Admin.Stock)
				r.Post("/products/{id}/codes", deps.Admin.AddCodes)
			})
		})
	})

	return r
}
