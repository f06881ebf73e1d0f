package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/internal/crew/store/drivers/sqlite"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/idx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	router     *Router
	store      *sqlite.Store
	sessions   *identity.Sessions
	dispatcher *service.Dispatcher
	metrics    *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	catalog, err := permission.DefaultCatalog()
	require.NoError(t, err)
	sessions, err := identity.NewSessions([]byte(testSecret), "crew-test", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	dispatcher := &service.Dispatcher{Metrics: metrics}
	t.Cleanup(dispatcher.Wait)

	transformer := permission.NewTransformer()
	roles := service.NewRoleCache(st, 64, time.Minute)
	identities := &identity.LocalProvider{Store: st}
	invitations := &service.InvitationService{Store: st, Metrics: metrics}

	r := NewRouter(identity.Chain{sessions}, "test", 5*time.Second, metrics, logger)
	r.Invitations = invitations
	r.Onboarding = &service.OnboardingService{
		Store:       st,
		Identities:  identities,
		Invitations: invitations,
		Fanout:      &service.FanoutService{Store: st, Metrics: metrics},
		Roles:       roles,
		Transformer: transformer,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	}
	r.ClientPermissions = &service.ClientPermissionService{Store: st, Transformer: transformer}
	r.Migration = &service.MigrationService{Store: st, Catalog: catalog, Transformer: transformer, Roles: roles, Metrics: metrics}
	r.Organizations = &service.OrganizationService{Store: st, Catalog: catalog, Roles: roles}
	r.Permissions = &service.PermissionService{Store: st, Resolver: permission.NewResolver(catalog)}
	r.Activation = &service.ActivationService{Store: st, Mailer: service.LogMailer{}, Dispatcher: dispatcher, OperatorEmail: "ops@example.com"}
	r.Identities = identities
	r.Sessions = sessions
	r.Checks["database"] = st.Ping
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, sessions: sessions, dispatcher: dispatcher, metrics: metrics}
}

func (e *testEnv) token(t *testing.T, subject string) string {
	t.Helper()
	tok, _, err := e.sessions.Issue(subject, subject+"@example.com", strings.ToUpper(subject[:1])+subject[1:])
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// createOrg creates an organization owned by ownerID through the API.
func (e *testEnv) createOrg(t *testing.T, ownerID string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/organizations", e.token(t, ownerID), CreateOrganizationRequest{Name: "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Organization](t, rec).ID
}

func (e *testEnv) addInvitation(t *testing.T, orgID, code, roleID string, maxUses int, expiresAt time.Time) domain.Invitation {
	t.Helper()
	now := time.Now()
	inv := domain.Invitation{
		ID: idx.New().String(), Code: code, OrganizationID: orgID, RoleID: roleID,
		Status: domain.InvitationActive, MaxUses: maxUses, ExpiresAt: expiresAt,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.store.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]string{"database": "ok"}, decode[HealthResponse](t, rec).Checks)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `crew_http_requests_total{method="GET",route="GET /livez",status="200"} 1`)
}

func TestReadyzReportsFailingChecks(t *testing.T) {
	h := ReadyzHandler(time.Now(), "test", map[string]Check{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[HealthResponse](t, rec)
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "error: connection refused", body.Checks["redis"])
	require.Equal(t, "ok", body.Checks["database"])
}

func TestValidateInvitationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	org := env.createOrg(t, "owner")
	env.addInvitation(t, org, "ABC123", "operator", 1, time.Now().Add(time.Hour))
	env.addInvitation(t, org, "OLD123", "operator", 1, time.Now().Add(-time.Hour))

	rec := env.do(t, http.MethodPost, "/v1/invitations/validate", "", ValidateInvitationRequest{Code: "abc123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[ValidateInvitationResponse](t, rec)
	require.True(t, got.Valid)
	require.Equal(t, "ABC123", got.Invitation.Code)
	require.Equal(t, []string{}, got.Invitation.UsedBy)

	tests := []struct {
		name   string
		code   string
		status int
		kind   string
		reason string
	}{
		{"expired", "OLD123", http.StatusPreconditionFailed, "failed-precondition", "expired"},
		{"unknown", "NOPE00", http.StatusNotFound, "not-found", ""},
		{"empty", "", http.StatusBadRequest, "invalid-argument", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/invitations/validate", "", ValidateInvitationRequest{Code: tt.code})
			require.Equal(t, tt.status, rec.Code)
			e := decode[httpx.ErrorResponse](t, rec)
			require.Equal(t, tt.kind, e.Error)
			require.Equal(t, tt.reason, e.Reason)
		})
	}

	rec = env.do(t, http.MethodPost, "/v1/invitations/validate", "", map[string]any{"code": "ABC123", "extra": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordOnboardingThenSignIn(t *testing.T) {
	env := newTestEnv(t)
	org := env.createOrg(t, "owner")
	inv := env.addInvitation(t, org, "JOIN0001", "operator", 1, time.Now().Add(time.Hour))

	rec := env.do(t, http.MethodPost, "/v1/onboarding/password", "", PasswordJoinRequest{
		JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org, RoleID: "operator", Name: "Pat"},
		Email:       "pat@example.com",
		Password:    "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	joined := decode[JoinResponse](t, rec)
	require.True(t, joined.Success)
	require.NotEmpty(t, joined.AccessToken)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	env.dispatcher.Wait()

	// The new member can read their own permissions with the issued token.
	rec = env.do(t, http.MethodGet, "/v1/organizations/"+org+"/members/"+joined.UserID+"/permissions", joined.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	eff := decode[EffectivePermissionsResponse](t, rec)
	require.Equal(t, "operator", eff.RoleID)
	require.NotEmpty(t, eff.Permissions)

	rec = env.do(t, http.MethodPost, "/v1/sessions", "", SessionRequest{Email: "pat@example.com", Password: "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, joined.UserID, decode[SessionResponse](t, rec).UserID)

	rec = env.do(t, http.MethodPost, "/v1/sessions", "", SessionRequest{Email: "pat@example.com", Password: "wrong password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The invitation is spent.
	rec = env.do(t, http.MethodPost, "/v1/onboarding/password", "", PasswordJoinRequest{
		JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org, RoleID: "operator", Name: "Kim"},
		Email:       "kim@example.com",
		Password:    "correct horse",
	})
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)
	require.Equal(t, "exhausted", decode[httpx.ErrorResponse](t, rec).Reason)

	rec = env.do(t, http.MethodPost, "/v1/onboarding/password", "", map[string]any{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdentityOnboarding(t *testing.T) {
	env := newTestEnv(t)
	org := env.createOrg(t, "owner")
	inv := env.addInvitation(t, org, "JOIN0002", "operator", 2, time.Now().Add(time.Hour))
	body := JoinRequest{InvitationID: inv.ID, OrganizationID: org, RoleID: "operator"}

	rec := env.do(t, http.MethodPost, "/v1/onboarding/identity", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	tok := env.token(t, "google-user")
	rec = env.do(t, http.MethodPost, "/v1/onboarding/identity", tok, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(t, decode[JoinResponse](t, rec).Replayed)

	rec = env.do(t, http.MethodPost, "/v1/onboarding/identity", tok, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[JoinResponse](t, rec).Replayed)

	other := env.createOrg(t, "owner-2")
	rec = env.do(t, http.MethodPost, "/v1/onboarding/identity", env.token(t, "someone"),
		JoinRequest{InvitationID: inv.ID, OrganizationID: other, RoleID: "operator"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/onboarding/identity", env.token(t, "someone"),
		JoinRequest{InvitationID: inv.ID, OrganizationID: org, RoleID: "owner"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid-argument", decode[httpx.ErrorResponse](t, rec).Error)
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	org := env.createOrg(t, "owner")
	owner := env.token(t, "owner")

	rec := env.do(t, http.MethodPost, "/v1/organizations/"+org+"/clients", owner, RegisterClientRequest{Name: "Big Print Co"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	client := decode[Client](t, rec)
	require.Empty(t, client.Permissions)

	// Mint an invitation for the client and let a client member join with it.
	rec = env.do(t, http.MethodPost, "/v1/organizations/"+org+"/invitations", owner,
		MintInvitationRequest{RoleID: "client", ClientID: client.ID, MaxUses: 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	minted := decode[Invitation](t, rec)
	require.Len(t, minted.Code, 8)

	rec = env.do(t, http.MethodPost, "/v1/onboarding/identity", env.token(t, "client-user"),
		JoinRequest{InvitationID: minted.ID, OrganizationID: org, RoleID: "client", ClientID: client.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/v1/organizations/"+org+"/clients/"+client.ID+"/permissions", owner,
		ApplyClientPermissionsRequest{ClientPermissions: map[string]any{"batches.view": "all"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, decode[ApplyClientPermissionsResponse](t, rec).UpdatedCount)

	rec = env.do(t, http.MethodPut, "/v1/organizations/"+org+"/clients/"+client.ID+"/permissions", env.token(t, "client-user"),
		ApplyClientPermissionsRequest{ClientPermissions: map[string]any{}})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "permission-denied", decode[httpx.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPut, "/v1/organizations/"+org+"/clients/ghost/permissions", owner,
		ApplyClientPermissionsRequest{ClientPermissions: map[string]any{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/organizations/"+org+"/migrations/client-overrides", owner, MigrationRequest{DryRun: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[MigrationResponse](t, rec)
	require.True(t, report.DryRun)
	require.Equal(t, 1, report.Summary.Unchanged)

	rec = env.do(t, http.MethodPost, "/v1/organizations/"+org+"/migrations/roles", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report = decode[MigrationResponse](t, rec)
	require.False(t, report.DryRun)
	require.Zero(t, report.Summary.Migrated)
	require.Equal(t, 6, report.Summary.Unchanged)

	rec = env.do(t, http.MethodPost, "/v1/organizations/"+org+"/migrations/roles", env.token(t, "client-user"), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestActivationEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/activation-requests", "", ActivationRequest{
		CompanyName: "Acme", ContactName: "Sam", ContactEmail: "sam@acme.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[ActivationResponse](t, rec).ID
	env.dispatcher.Wait()

	stored, err := env.store.ActivationRequests().GetActivationRequest(context.Background(), id)
	require.NoError(t, err)
	require.True(t, stored.NotificationSent)

	rec = env.do(t, http.MethodPost, "/v1/activation-requests", "", ActivationRequest{CompanyName: "Acme"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
