// Package web provides the HTTP surface: the public storefront JSON API
// with visitor tracking, and the session-authenticated admin API.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/metrics"
	"github.com/artpar/showroom/app"
	"github.com/artpar/showroom/config"
)

// Handler provides all HTTP endpoints.
type Handler struct {
	tracker   *app.TrackerService
	analytics *app.AnalyticsService
	catalog   *app.CatalogService
	contact   *app.ContactService
	auth      *app.AuthService
	cfg       *config.Holder
	metrics   *metrics.Collector
	logger    zerolog.Logger
	startTime time.Time
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Tracker   *app.TrackerService
	Analytics *app.AnalyticsService
	Catalog   *app.CatalogService
	Contact   *app.ContactService
	Auth      *app.AuthService
	Config    *config.Holder
	Metrics   *metrics.Collector // optional
	Logger    zerolog.Logger
}

// NewHandler creates the web handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		tracker:   deps.Tracker,
		analytics: deps.Analytics,
		catalog:   deps.Catalog,
		contact:   deps.Contact,
		auth:      deps.Auth,
		cfg:       deps.Config,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		startTime: time.Now(),
	}
}

// Router returns the full application router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(h.Recoverer)
	r.Use(h.RequestLogger)
	if h.metrics != nil {
		r.Use(h.MetricsMiddleware)
	}

	r.Get("/healthz", h.Health)
	if h.cfg.Get().Metrics.Enabled {
		r.Handle(h.cfg.Get().Metrics.Path, promhttp.Handler())
	}

	// Public storefront. Every GET here is a tracked page render.
	r.Get("/", h.Home)
	r.Get("/category/{id}", h.CategoryPage)
	r.Get("/product/{id}", h.ProductPage)
	r.Get("/product/{id}/pdf", h.ProductPDF)
	r.Post("/product/{id}/pdf/page", h.ProductPDFPage)
	r.Get("/qr", h.SiteQR)
	r.Get("/product/{id}/qr", h.ProductQR)
	r.Get("/category/{id}/qr", h.CategoryQR)
	r.Get("/contact", h.ContactPage)
	r.Post("/contact", h.ContactSubmit)

	// Back-office. Excluded from tracking by path prefix.
	r.Route("/admin/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Get("/dashboard", h.Dashboard)

			r.Get("/analytics/site", h.SiteAnalytics)
			r.Get("/analytics/product/{id}", h.ProductAnalytics)

			r.Get("/categories", h.AdminListCategories)
			r.Post("/categories", h.AdminCreateCategory)
			r.Put("/categories/{id}", h.AdminUpdateCategory)

			r.Get("/products", h.AdminListProducts)
			r.Post("/products", h.AdminCreateProduct)
			r.Put("/products/{id}", h.AdminUpdateProduct)

			r.Get("/contact-info", h.AdminGetContactInfo)
			r.Put("/contact-info", h.AdminUpdateContactInfo)
			r.Get("/messages", h.AdminListMessages)

			// Destructive and user-management operations need the admin role.
			r.Group(func(r chi.Router) {
				r.Use(h.AdminRequired)

				r.Delete("/categories/{id}", h.AdminDeleteCategory)
				r.Delete("/products/{id}", h.AdminDeleteProduct)

				r.Get("/users", h.AdminListUsers)
				r.Post("/users", h.AdminCreateUser)
				r.Delete("/users/{id}", h.AdminDeleteUser)
			})
		})
	})

	return r
}

// Health reports liveness and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
