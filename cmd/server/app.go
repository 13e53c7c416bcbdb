package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/flash"
	"github.com/diewo77/invoicer/internal/handlers"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/mailer"
	"github.com/diewo77/invoicer/internal/metrics"
	"github.com/diewo77/invoicer/internal/middleware"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	router chi.Router
	cfg    *config.Config
	db     *gorm.DB
	logg   *logger.Logger
}

// AppOptions carries the handles built in main.
type AppOptions struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Mailer   mailer.Sender
}

// NewApp creates a new application with all routes configured.
func NewApp(opts AppOptions) *App {
	app := &App{
		router: chi.NewRouter(),
		cfg:    opts.Config,
		db:     opts.DB,
		logg:   opts.Logger,
	}
	app.setupRoutes(opts)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupRoutes(opts AppOptions) {
	cfg := a.cfg
	m := metrics.New(opts.Registry)
	flashes := flash.NewStore(cfg.App.SecretKey, cfg.App.CookieSecure)

	renderer := view.New(view.Options{
		Dir:  cfg.App.TemplatesDir,
		Lang: middleware.LangFrom,
		Defaults: func(w http.ResponseWriter, r *http.Request) map[string]any {
			return map[string]any{
				"Flashes":   flashes.Pop(w, r),
				"CSRFField": csrf.TemplateField(r),
				"Company":   cfg.App.CompanyName,
			}
		},
	})
	deps := handlers.Deps{Logger: a.logg, View: renderer, Flash: flashes}

	customers := services.NewCustomerService(a.db)
	products := services.NewProductService(a.db)
	invoices := services.NewInvoiceService(a.db)

	sys := handlers.NewSystemHandler(deps, a.db, a.migrate)
	dash := handlers.NewDashboardHandler(deps, invoices, customers)
	ch := handlers.NewCustomerHandler(deps, customers)
	ph := handlers.NewProductHandler(deps, products)
	ih := handlers.NewInvoiceHandler(deps, invoices, customers, products, handlers.InvoiceOptions{
		TaxRate: cfg.Invoice.TaxRate,
		Company: cfg.App.CompanyName,
		Mailer:  opts.Mailer,
		Metrics: m,
	})

	r := a.router
	r.Use(middleware.RequestID(a.logg))
	r.Use(middleware.Logging(a.logg))
	r.Use(middleware.Recoverer(a.logg))
	r.Use(m.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Prefs)

	// ─────────────────────────────────────────────────────────────────────────
	// Probes and metrics (no CSRF, no session)
	// ─────────────────────────────────────────────────────────────────────────
	r.Get("/health", sys.Health)
	r.Get("/healthz", sys.Healthz)
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Registry))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Pages and forms
	// ─────────────────────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.CSRFOptions{
			Secret:         cfg.App.SecretKey,
			Secure:         cfg.App.CookieSecure,
			TrustedOrigins: a.trustedOrigins(),
			Logger:         a.logg,
		}))

		r.Get("/", dash.Index)
		r.Get("/initdb", sys.InitDB)

		r.Get("/customers", ch.List)
		r.Get("/customers/new", ch.New)
		r.Post("/customers/new", ch.Create)
		r.Get("/customers/{id}/edit", ch.Edit)
		r.Post("/customers/{id}/edit", ch.Update)

		r.Get("/products", ph.List)
		r.Get("/products/new", ph.New)
		r.Post("/products/new", ph.Create)
		r.Get("/products/{id}/edit", ph.Edit)
		r.Post("/products/{id}/edit", ph.Update)

		r.Get("/invoices", ih.List)
		r.Get("/invoices/new", ih.New)
		r.Post("/invoices/new", ih.Create)
		r.Get("/invoices/{id}", ih.View)
		r.Post("/invoices/{id}/email", ih.Email)
	})
}

// migrate applies the schema with the configured strategy.
func (a *App) migrate(ctx context.Context) error {
	return db.Migrate(ctx, a.db, db.MigrateOptions{
		URL:    a.cfg.Database.URL,
		SQL:    a.cfg.App.Migrations,
		Logger: a.logg,
	})
}

// trustedOrigins allows local development hosts next to the configured ones.
func (a *App) trustedOrigins() []string {
	port := a.cfg.Server.Port
	origins := []string{"localhost", "127.0.0.1", "localhost:" + port, "127.0.0.1:" + port}
	return append(origins, a.cfg.App.TrustedOrigins...)
}
