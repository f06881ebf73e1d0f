package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aussiebroadwan/crew/internal/crew/app"
	"github.com/aussiebroadwan/crew/internal/crew/service"
)

const usage = `usage: crew [command] [flags]

commands:
  serve          run the HTTP service (default)
  migrate-roles  reconcile every organization's roles with the permission catalog
  seed-roles     rewrite one organization's system roles from the catalog
`

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	cfg := app.LoadConfig()

	switch cmd {
	case "serve":
		serve(cfg)
	case "migrate-roles":
		migrateRoles(cfg, args)
	case "seed-roles":
		seedRoles(cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func serve(cfg app.Config) {
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func migrateRoles(cfg app.Config, args []string) {
	fs := flag.NewFlagSet("migrate-roles", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report changes without writing them")
	_ = fs.Parse(args)

	application, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	report, err := application.MigrateRoles(context.Background(), *dryRun)
	if err != nil {
		log.Fatalf("role migration failed: %v", err)
	}
	printReport(report)

	if report.Summary.Errors > 0 {
		application.Close()
		os.Exit(1)
	}
}

func seedRoles(cfg app.Config, args []string) {
	fs := flag.NewFlagSet("seed-roles", flag.ExitOnError)
	org := fs.String("org", "", "organization ID")
	_ = fs.Parse(args)

	if *org == "" {
		fs.Usage()
		os.Exit(2)
	}

	application, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	n, err := application.SeedRoles(context.Background(), *org)
	if err != nil {
		log.Fatalf("seeding roles failed: %v", err)
	}
	application.Logger().Info("roles seeded", "organization_id", *org, "roles", n)
}

func printReport(r service.MigrationReport) {
	for _, d := range r.Details {
		if d.Result == service.ResultUnchanged {
			continue
		}
		line := fmt.Sprintf("%-10s %s/%s", d.Result, d.OrganizationID, d.ID)
		if len(d.Removed) > 0 {
			line += fmt.Sprintf(" removed=%v", d.Removed)
		}
		if d.Error != "" {
			line += " error=" + d.Error
		}
		fmt.Println(line)
	}

	mode := "applied"
	if r.DryRun {
		mode = "dry run"
	}
	s := r.Summary
	fmt.Printf("%s: processed=%d migrated=%d unchanged=%d skipped=%d errors=%d\n",
		mode, s.Processed, s.Migrated, s.Unchanged, s.Skipped, s.Errors)
}
