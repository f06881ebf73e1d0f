package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/slogx"

	_ "github.com/aussiebroadwan/crew/api/crew" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authn        httpx.Authenticator
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *observability.Metrics

	// Checks run on /readyz, keyed by dependency name.
	Checks map[string]Check

	Invitations       *service.InvitationService
	Onboarding        *service.OnboardingService
	ClientPermissions *service.ClientPermissionService
	Migration         *service.MigrationService
	Organizations     *service.OrganizationService
	Permissions       *service.PermissionService
	Activation        *service.ActivationService
	Identities        *identity.LocalProvider
	Sessions          *identity.Sessions
}

// NewRouter builds a router. requestTimeout bounds every request context;
// zero disables it.
func NewRouter(
	authn httpx.Authenticator,
	buildVersion string,
	requestTimeout time.Duration,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		authn:        authn,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      metrics,
		Checks:       map[string]Check{},
	}

	// The metrics middleware must sit next to the mux to see the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Timeout(requestTimeout),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerOnboarding()
	r.registerOrganizations()
	r.registerActivation()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Crew Membership Service API
//	@version		0.1.0
//	@description	Invitation-gated onboarding and permission resolution for production organizations.
//	@description
//	@description				Errors carry a kind in "error" and, for unusable invitations, a "reason" of invalid, expired or exhausted.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/crew
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token or Google ID token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-caller limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.authn),
		httpx.RateLimitByPrincipal(limit),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationHandler{Invitations: r.Invitations}

	// Public code lookup - strict limit by IP to slow down code guessing
	r.Mux.Handle("POST /v1/invitations/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/organizations/{id}/invitations",
		r.secured(http.HandlerFunc(h.HandleMint), httpx.ModerateLimit),
	)
}

func (r *Router) registerOnboarding() {
	h := &OnboardingHandler{Onboarding: r.Onboarding, Sessions: r.Sessions}

	// Public signup - strict limit by IP
	r.Mux.Handle("POST /v1/onboarding/password",
		httpx.Chain(http.HandlerFunc(h.HandlePassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/identity",
		r.secured(http.HandlerFunc(h.HandleIdentity), httpx.StrictLimit),
	)
}

func (r *Router) registerOrganizations() {
	orgs := &OrganizationHandler{Organizations: r.Organizations, Permissions: r.Permissions}
	clients := &ClientPermissionsHandler{ClientPermissions: r.ClientPermissions}
	migrations := &MigrationHandler{Migration: r.Migration}

	r.Mux.Handle("POST /v1/organizations",
		r.secured(http.HandlerFunc(orgs.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/organizations/{id}/members/{userId}/permissions",
		r.secured(http.HandlerFunc(orgs.HandleEffectivePermissions), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/organizations/{id}/clients",
		r.secured(http.HandlerFunc(clients.HandleRegister), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/organizations/{id}/clients/{clientId}/permissions",
		r.secured(http.HandlerFunc(clients.HandleApply), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/organizations/{id}/migrations/client-overrides",
		r.secured(http.HandlerFunc(migrations.HandleClientOverrides), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/organizations/{id}/migrations/roles",
		r.secured(http.HandlerFunc(migrations.HandleRoles), httpx.ModerateLimit))
}

func (r *Router) registerActivation() {
	r.Mux.Handle("POST /v1/activation-requests",
		httpx.Chain(&ActivationHandler{Activation: r.Activation},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	if r.Identities == nil || r.Sessions == nil {
		return
	}
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(&SessionHandler{Identities: r.Identities, Sessions: r.Sessions},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Checks),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
