// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/clock"
	"github.com/artpar/showroom/adapters/hasher"
	"github.com/artpar/showroom/adapters/idgen"
	"github.com/artpar/showroom/adapters/metrics"
	"github.com/artpar/showroom/adapters/qr"
	"github.com/artpar/showroom/adapters/random"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/app"
	"github.com/artpar/showroom/config"
	"github.com/artpar/showroom/domain/auth"
	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/domain/visitor"
	"github.com/artpar/showroom/ports"
	"github.com/artpar/showroom/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	Tracker   *app.TrackerService
	Analytics *app.AnalyticsService
	Catalog   *app.CatalogService
	Contact   *app.ContactService
	Auth      *app.AuthService

	stopPurge chan struct{}
}

// New creates and initializes the application from a config file path. An
// absent file falls back to SHOWROOM_* environment variables.
func New(configPath string) (*App, error) {
	var holder *config.Holder
	if _, err := os.Stat(configPath); err == nil {
		h, err := config.NewHolder(configPath, zerolog.Nop())
		if err != nil {
			return nil, err
		}
		holder = h
	} else {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return nil, err
		}
		holder = config.NewStaticHolder(cfg, zerolog.Nop())
	}
	return NewWithHolder(holder)
}

// NewWithHolder wires the application around an existing config holder.
func NewWithHolder(holder *config.Holder) (*App, error) {
	cfg := holder.Get()
	logger := setupLogger(cfg.Logging)

	logger.Info().Msg("initializing showroom")

	a := &App{
		Logger:    logger,
		Config:    holder,
		stopPurge: make(chan struct{}),
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	a.DB = db
	logger.Info().Str("dsn", cfg.Database.DSN).Msg("database ready")

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	// Stores
	visitors := sqlite.NewVisitorStore(db)
	pageViews := sqlite.NewPageViewStore(db)
	productViews := sqlite.NewProductViewStore(db)
	categories := sqlite.NewCategoryStore(db)
	products := sqlite.NewProductStore(db)
	contacts := sqlite.NewContactStore(db)
	users := sqlite.NewUserStore(db)
	sessions := sqlite.NewSessionStore(db)

	// Services
	clk := clock.Real{}
	a.Tracker = app.NewTrackerService(app.TrackerDeps{
		Classifier:   visitor.NewClassifier(cfg.Tracking.BotTokens),
		Exclusions:   tracking.NewExclusionPolicy(cfg.Tracking.ExcludedPaths),
		PageViews:    pageViews,
		ProductViews: productViews,
		Clock:        clk,
		Random:       random.Real{},
		Metrics:      a.Metrics,
		Logger:       logger.With().Str("component", "tracker").Logger(),
	})
	a.Analytics = app.NewAnalyticsService(visitors, pageViews, productViews, clk)
	a.Catalog = app.NewCatalogService(
		categories, products,
		qr.NewEncoder(cfg.Site.QRSize),
		clk, cfg.Site.BaseURL,
		logger.With().Str("component", "catalog").Logger(),
	)
	a.Contact = app.NewContactService(contacts, clk)
	a.Auth = app.NewAuthService(
		users, sessions,
		hasher.NewBcrypt(cfg.Auth.BcryptCost),
		idgen.UUID{},
		clk,
		logger.With().Str("component", "auth").Logger(),
	)

	handler := web.NewHandler(web.Deps{
		Tracker:   a.Tracker,
		Analytics: a.Analytics,
		Catalog:   a.Catalog,
		Contact:   a.Contact,
		Auth:      a.Auth,
		Config:    holder,
		Metrics:   a.Metrics,
		Logger:    logger.With().Str("component", "web").Logger(),
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// SeedDefaults provisions the records a fresh install needs: the first
// admin account, the contact singleton and a starter category set. Existing
// data is never overwritten.
func (a *App) SeedDefaults(ctx context.Context, adminUser, adminEmail, adminPass string) error {
	userCount, err := sqlite.NewUserStore(a.DB).Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount == 0 {
		if adminPass == "" {
			return errors.New("an admin password is required on first run")
		}
		if _, err := a.Auth.CreateUser(ctx, adminUser, adminEmail, adminPass, auth.RoleAdmin); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		a.Logger.Info().Str("username", adminUser).Msg("admin account created")
	}

	if _, err := a.Contact.Info(ctx); errors.Is(err, ports.ErrNotFound) {
		company := a.Config.Get().Site.CompanyName
		if company == "" {
			company = "Showroom"
		}
		if err := a.Contact.UpdateInfo(ctx, contact.Info{CompanyName: company}); err != nil {
			return fmt.Errorf("seed contact info: %w", err)
		}
		a.Logger.Info().Str("company", company).Msg("contact info seeded")
	} else if err != nil {
		return fmt.Errorf("check contact info: %w", err)
	}

	existing, err := a.Catalog.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) == 0 {
		for _, name := range []string{"Plywood", "Laminates", "Hardware", "Veneers"} {
			if _, err := a.Catalog.CreateCategory(ctx, catalog.Category{Name: name}); err != nil {
				return fmt.Errorf("seed category %s: %w", name, err)
			}
		}
		a.Logger.Info().Msg("starter categories seeded")
	}

	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	// Hot reload on file change and SIGHUP.
	if err := a.Config.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	a.Config.WatchSignals()

	go a.purgeLoop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(a.stopPurge)
	a.Config.Stop()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// purgeLoop removes expired login sessions once an hour.
func (a *App) purgeLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := a.Auth.PurgeExpiredSessions(context.Background())
			if err != nil {
				a.Logger.Error().Err(err).Msg("session purge failed")
				continue
			}
			if n > 0 {
				a.Logger.Debug().Int64("purged", n).Msg("expired sessions removed")
			}
		case <-a.stopPurge:
			return
		}
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
