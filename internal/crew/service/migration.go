package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// Per-item migration results.
const (
	ResultMigrated  = "migrated"
	ResultUnchanged = "unchanged"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)

type MigrationSummary struct {
	Processed int `json:"processed"`
	Migrated  int `json:"migrated"`
	Skipped   int `json:"skipped"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
}

func (s *MigrationSummary) add(o MigrationSummary) {
	s.Processed += o.Processed
	s.Migrated += o.Migrated
	s.Skipped += o.Skipped
	s.Unchanged += o.Unchanged
	s.Errors += o.Errors
}

// MigrationDetail is one role's or member's outcome.
type MigrationDetail struct {
	OrganizationID string   `json:"organizationId"`
	ID             string   `json:"id"`
	Result         string   `json:"result"`
	Removed        []string `json:"removed,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type MigrationReport struct {
	DryRun  bool              `json:"dryRun"`
	Summary MigrationSummary  `json:"summary"`
	Details []MigrationDetail `json:"details"`
}

func (r *MigrationReport) record(d MigrationDetail) {
	switch d.Result {
	case ResultMigrated:
		r.Summary.Processed++
		r.Summary.Migrated++
	case ResultUnchanged:
		r.Summary.Processed++
		r.Summary.Unchanged++
	case ResultSkipped:
		r.Summary.Skipped++
	case ResultError:
		r.Summary.Processed++
		r.Summary.Errors++
	}
	r.Details = append(r.Details, d)
}

func (r *MigrationReport) merge(o MigrationReport) {
	r.Summary.add(o.Summary)
	r.Details = append(r.Details, o.Details...)
}

// MigrationService reconciles stored permission data with the catalog.
type MigrationService struct {
	Store       store.Store
	Catalog     *permission.Catalog
	Transformer *permission.Transformer
	Roles       *RoleCache
	Metrics     *observability.Metrics
	Now         func() time.Time

	// Workers bounds how many organizations ReconcileAll runs at once.
	// Zero or one runs them sequentially.
	Workers int
}

// ReconcileOrganization reconciles every stored role of one organization.
// A failing role is recorded and the run continues.
func (s *MigrationService) ReconcileOrganization(ctx context.Context, organizationID string, dryRun bool) (MigrationReport, error) {
	ctx = slogx.WithOrganization(ctx, organizationID)
	log := slogx.FromContext(ctx)
	report := MigrationReport{DryRun: dryRun, Details: []MigrationDetail{}}

	roles, err := s.Store.Roles().ListRoles(ctx, organizationID)
	if err != nil {
		return report, internal(ctx, "failed to list roles", err)
	}

	now := clock(s.Now)
	for _, role := range roles {
		d := s.reconcileRole(ctx, role, dryRun, now)
		s.Metrics.ObserveRoleMigration(d.Result)
		report.record(d)
	}

	if !dryRun && report.Summary.Migrated > 0 && s.Roles != nil {
		s.Roles.InvalidateOrganization(organizationID)
	}

	log.Info("role migration finished",
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", report.Summary.Processed),
		slog.Int("migrated", report.Summary.Migrated),
		slog.Int("skipped", report.Summary.Skipped),
		slog.Int("errors", report.Summary.Errors),
	)
	return report, nil
}

func (s *MigrationService) reconcileRole(ctx context.Context, role domain.Role, dryRun bool, now time.Time) MigrationDetail {
	log := slogx.FromContext(ctx).With(slog.String("role_id", role.ID))
	d := MigrationDetail{OrganizationID: role.OrganizationID, ID: role.ID}

	res := s.Catalog.Reconcile(role.Permissions, role.ID)
	d.Removed = res.Removed
	switch {
	case !res.Known:
		log.Warn("skipping role not in catalog")
		d.Result = ResultSkipped
		return d
	case !res.Changed:
		d.Result = ResultUnchanged
		return d
	}

	if !dryRun {
		if err := s.Store.Roles().UpdateRolePermissions(ctx, role.OrganizationID, role.ID, res.Canonical, now); err != nil {
			log.Error("failed to migrate role", slog.Any("error", err))
			d.Result = ResultError
			d.Error = err.Error()
			return d
		}
	}
	log.Debug("role migrated", slog.Bool("dry_run", dryRun), slog.Any("removed", res.Removed))
	d.Result = ResultMigrated
	return d
}

// MigrateRoles is ReconcileOrganization for an owner or admin of the
// organization.
func (s *MigrationService) MigrateRoles(ctx context.Context, callerID, organizationID string, dryRun bool) (MigrationReport, error) {
	if organizationID == "" {
		return MigrationReport{}, ErrMissingFields
	}
	if _, err := requireAdmin(ctx, s.Store.Members(), organizationID, callerID); err != nil {
		return MigrationReport{}, err
	}
	return s.ReconcileOrganization(ctx, organizationID, dryRun)
}

// ReconcileAll reconciles every organization. Organizations are
// independent, so up to Workers of them run concurrently; one failing
// organization is recorded and does not stop the others.
func (s *MigrationService) ReconcileAll(ctx context.Context, dryRun bool) (MigrationReport, error) {
	ids, err := s.Store.Organizations().ListOrganizationIDs(ctx)
	if err != nil {
		return MigrationReport{}, internal(ctx, "failed to list organizations", err)
	}

	reports := make([]MigrationReport, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.ReconcileOrganization(gctx, id, dryRun)
			if err != nil {
				r.record(MigrationDetail{OrganizationID: id, Result: ResultError, Error: err.Error()})
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	total := MigrationReport{DryRun: dryRun, Details: []MigrationDetail{}}
	for _, r := range reports {
		total.merge(r)
	}
	return total, nil
}

// MigrateClientOverrides rewrites member overrides still stored as a raw
// client map into structured overrides. Members attached to a client get
// overrides derived from the client's current map. Members that need no
// change are reported unchanged or skipped.
func (s *MigrationService) MigrateClientOverrides(ctx context.Context, callerID, organizationID string, dryRun bool) (MigrationReport, error) {
	if callerID == "" {
		return MigrationReport{}, ErrUnauthenticated
	}
	if organizationID == "" {
		return MigrationReport{}, ErrMissingFields
	}
	if _, err := requireAdmin(ctx, s.Store.Members(), organizationID, callerID); err != nil {
		return MigrationReport{}, err
	}

	ctx = slogx.WithOrganization(ctx, organizationID)
	log := slogx.FromContext(ctx)
	report := MigrationReport{DryRun: dryRun, Details: []MigrationDetail{}}

	members, err := s.Store.Members().ListMembers(ctx, organizationID)
	if err != nil {
		return report, internal(ctx, "failed to list members", err)
	}

	clients := map[string]map[string]any{}
	clientPerms := func(id string) (map[string]any, bool) {
		if p, ok := clients[id]; ok {
			return p, p != nil
		}
		c, err := s.Store.Clients().GetClient(ctx, organizationID, id)
		if err != nil {
			log.Warn("member references missing client", slog.String("client_id", id), slog.Any("error", err))
			clients[id] = nil
			return nil, false
		}
		clients[id] = c.Permissions
		return c.Permissions, true
	}

	now := clock(s.Now)
	for _, m := range members {
		d := MigrationDetail{OrganizationID: organizationID, ID: m.UserID}

		var source map[string]any
		if m.ClientID != "" {
			if p, ok := clientPerms(m.ClientID); ok {
				source = p
			}
		}
		if source == nil && len(m.LegacyOverrides) > 0 {
			source = m.LegacyOverrides
		}
		if source == nil {
			d.Result = ResultSkipped
			report.record(d)
			continue
		}

		next := s.Transformer.Transform(ctx, source, permission.SystemActor)
		if m.LegacyOverrides == nil && sameOverrides(m.Overrides, next) {
			d.Result = ResultUnchanged
			report.record(d)
			continue
		}

		if !dryRun {
			if err := s.Store.Members().ReplaceOverrides(ctx, organizationID, m.UserID, next, now); err != nil {
				log.Error("failed to migrate member overrides", slog.String("user_id", m.UserID), slog.Any("error", err))
				d.Result = ResultError
				d.Error = err.Error()
				report.record(d)
				continue
			}
		}
		d.Result = ResultMigrated
		report.record(d)
	}

	log.Info("client override migration finished",
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", report.Summary.Processed),
		slog.Int("migrated", report.Summary.Migrated),
		slog.Int("skipped", report.Summary.Skipped),
		slog.Int("errors", report.Summary.Errors),
	)
	return report, nil
}

// sameOverrides compares effective values, ignoring audit fields.
func sameOverrides(a, b map[string]permission.Override) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av.Value() != bv.Value() {
			return false
		}
	}
	return true
}
