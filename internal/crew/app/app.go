package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/crew/internal/crew/http"
	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/realtime"
	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/internal/crew/store/drivers/sqlite"
	"github.com/aussiebroadwan/crew/pkg/cryptox"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	roleCacheSize = 1024
	roleCacheTTL  = 5 * time.Minute
)

// Application encapsulates the crew service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          *sqlite.Store
	catalog     *permission.Catalog
	metrics     *observability.Metrics
	dispatcher  *service.Dispatcher
	roles       *service.RoleCache
	transformer *permission.Transformer
	identities  *identity.LocalProvider
	publisher   realtime.Publisher
	redis       *realtime.RedisPublisher // Optional: only when CREW_REDIS_ADDR is set

	// Services
	invitationService   *service.InvitationService
	fanoutService       *service.FanoutService
	onboardingService   *service.OnboardingService
	organizationService *service.OrganizationService
	migrationService    *service.MigrationService
	clientPermService   *service.ClientPermissionService
	permissionService   *service.PermissionService
	activationService   *service.ActivationService
	housekeepingService *service.HousekeepingService

	// HTTP server
	sessions *identity.Sessions
	server   *http.Server
	router   *httpapi.Router
}

// Open initializes the database and services without touching the network.
// Maintenance commands use it directly; New builds the HTTP side on top.
func Open(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "crew",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics:   observability.NewMetrics(),
		publisher: realtime.NopPublisher{},
	}
	slog.SetDefault(app.logger)

	if err := app.initCatalog(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initServices()

	return app, nil
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initRealtime(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	authn, err := app.initAuth(ctx)
	if err != nil {
		app.closeRealtime()
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP(authn)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return fmt.Errorf("failed to start housekeeping: %w", err)
	}

	app.logger.Info("crew service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down crew service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			app.logger.Error("graceful server shutdown failed", "error", err)
			if err := app.server.Close(); err != nil {
				app.logger.Error("error closing server", "error", err)
			}
		}
	}

	app.housekeepingService.Stop()

	// Background notifications and emails still hold the store
	if err := app.dispatcher.Close(ctx); err != nil {
		app.logger.Warn("background tasks did not finish", "error", err)
	}

	app.closeRealtime()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("crew service stopped")
	return nil
}

// Close releases what Open acquired. Used by maintenance commands.
func (app *Application) Close() error {
	if err := app.dispatcher.Close(context.Background()); err != nil {
		app.logger.Warn("background tasks did not finish", "error", err)
	}
	return app.db.Close()
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// MigrateRoles reconciles every organization's role documents against the
// permission catalog.
func (app *Application) MigrateRoles(ctx context.Context, dryRun bool) (service.MigrationReport, error) {
	return app.migrationService.ReconcileAll(ctx, dryRun)
}

// SeedRoles rewrites an organization's system roles from the catalog.
func (app *Application) SeedRoles(ctx context.Context, organizationID string) (int, error) {
	return app.organizationService.SeedRoles(ctx, organizationID)
}

// initCatalog loads the permission catalog, preferring an operator supplied file
func (app *Application) initCatalog() error {
	catalog, err := permission.LoadCatalogFile(app.cfg.PermissionCatalog)
	if err != nil {
		return fmt.Errorf("failed to load permission catalog: %w", err)
	}
	app.catalog = catalog

	app.logger.Info("permission catalog loaded",
		"modules", len(catalog.Registry().Modules()),
		"roles", len(catalog.Roles()),
	)
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.dispatcher = &service.Dispatcher{Metrics: app.metrics}
	app.roles = service.NewRoleCache(app.db, roleCacheSize, roleCacheTTL)
	app.transformer = permission.NewTransformer()
	app.identities = &identity.LocalProvider{
		Store:  app.db,
		Hasher: cryptox.PasswordHasher{Pepper: app.cfg.PasswordPepper},
	}

	app.invitationService = &service.InvitationService{Store: app.db, Metrics: app.metrics}
	app.fanoutService = &service.FanoutService{
		Store:     app.db,
		Publisher: app.publisher,
		Metrics:   app.metrics,
		TTL:       app.cfg.NotificationTTL,
	}
	app.onboardingService = &service.OnboardingService{
		Store:       app.db,
		Identities:  app.identities,
		Invitations: app.invitationService,
		Fanout:      app.fanoutService,
		Roles:       app.roles,
		Transformer: app.transformer,
		Dispatcher:  app.dispatcher,
		Metrics:     app.metrics,
	}
	app.organizationService = &service.OrganizationService{
		Store:   app.db,
		Catalog: app.catalog,
		Roles:   app.roles,
	}
	app.migrationService = &service.MigrationService{
		Store:       app.db,
		Catalog:     app.catalog,
		Transformer: app.transformer,
		Roles:       app.roles,
		Metrics:     app.metrics,
		Workers:     app.cfg.MigrationWorkers,
	}
	app.clientPermService = &service.ClientPermissionService{Store: app.db, Transformer: app.transformer}
	app.permissionService = &service.PermissionService{
		Store:    app.db,
		Resolver: permission.NewResolver(app.catalog),
	}
	app.activationService = &service.ActivationService{
		Store:         app.db,
		Mailer:        app.mailer(),
		Dispatcher:    app.dispatcher,
		OperatorEmail: app.cfg.OperatorEmail,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingSchedule,
	)
	app.housekeepingService.Metrics = app.metrics
}

func (app *Application) mailer() service.Mailer {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("CREW_SMTP_HOST not set, activation emails will only be logged")
		return service.LogMailer{}
	}
	return &service.SMTPMailer{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUser,
		Password: app.cfg.SMTPPass,
		From:     app.cfg.MailFrom,
	}
}

// initRealtime connects the Redis publisher when configured. The fan-out
// service picks it up through the shared publisher field.
func (app *Application) initRealtime(ctx context.Context) error {
	if app.cfg.RedisAddr == "" {
		return nil
	}

	pub, err := realtime.NewRedisPublisher(ctx, app.cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = pub
	app.publisher = pub
	app.fanoutService.Publisher = pub

	app.logger.Info("publishing join notifications to redis", "addr", app.cfg.RedisAddr)
	return nil
}

func (app *Application) closeRealtime() {
	if app.redis == nil {
		return
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}
}

// initAuth builds the bearer token chain: local sessions first, then
// OIDC ID tokens when a client ID is configured.
func (app *Application) initAuth(ctx context.Context) (httpx.Authenticator, error) {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		app.logger.Warn("CREW_JWT_SECRET not set, sessions will not survive a restart")
	}

	sessions, err := identity.NewSessions(secret, app.cfg.JWTIssuer, app.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	app.sessions = sessions

	chain := identity.Chain{sessions}
	if app.cfg.OIDCClientID != "" {
		verifier, err := identity.NewOIDCVerifier(ctx, app.cfg.OIDCIssuer, app.cfg.OIDCClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OIDC verifier: %w", err)
		}
		chain = append(chain, verifier)
		app.logger.Info("OIDC sign-in enabled", "issuer", app.cfg.OIDCIssuer)
	}

	return chain, nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(authn httpx.Authenticator) {
	router := httpapi.NewRouter(
		authn,
		BuildVersion,
		app.cfg.RequestTimeout,
		app.metrics,
		app.logger,
	)

	router.Checks["database"] = app.db.Ping
	if app.redis != nil {
		router.Checks["redis"] = app.redis.Ping
	}

	// Wire services to router
	router.Invitations = app.invitationService
	router.Onboarding = app.onboardingService
	router.ClientPermissions = app.clientPermService
	router.Migration = app.migrationService
	router.Organizations = app.organizationService
	router.Permissions = app.permissionService
	router.Activation = app.activationService
	router.Identities = app.identities
	router.Sessions = app.sessions
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
