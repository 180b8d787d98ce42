package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/env"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/schema"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	env.LoadEnv(".env")
}

const usage = `Usage: migrate [flags] [up|status|describe]

  up        apply every pending schema step (default)
  status    show what up would do without changing anything
  describe  print the live schema as JSON

Flags:
`

func main() {
	seedAdmin := flag.Bool("seed-admin", true, "create the default admin account after up when it does not exist")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Fatal(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	logger.Infof("Database connected (%s)", db.Dialector.Name())

	ctx := context.Background()
	switch command {
	case "up":
		err = up(ctx, db, cfg, logger, *seedAdmin)
	case "status":
		err = status(ctx, db, logger)
	case "describe":
		err = describe(ctx, db)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatalf("migrate %s: %v", command, err)
	}
}

func up(ctx context.Context, db *gorm.DB, cfg config.Config, logger *zap.SugaredLogger, seedAdmin bool) error {
	var results []schema.StepResult
	err := schema.RunLocked(ctx, db, cfg.DB.MigrationLockKey, func(ctx context.Context) error {
		var err error
		results, err = schema.NewApplier(db, logger).Apply(ctx, schema.DefaultSteps())
		return err
	})
	if err != nil {
		return err
	}

	applied := 0
	for _, r := range results {
		if r.Status == schema.StatusApplied {
			applied++
		}
	}
	logger.Infof("Schema up to date: %d of %d steps applied in this run", applied, len(results))

	if !seedAdmin {
		return nil
	}

	repo := repository.NewRepository(db, logger, repository.Options{})
	created, err := repo.User.EnsureAdmin(ctx, nil, cfg.Auth.DefaultAdminEmail, cfg.Auth.DefaultAdminPass)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Infof("Created default admin %s", cfg.Auth.DefaultAdminEmail)
	}
	return nil
}

func status(ctx context.Context, db *gorm.DB, logger *zap.SugaredLogger) error {
	applier := schema.NewApplier(db, logger)

	results, err := applier.Plan(ctx, schema.DefaultSteps())
	if err != nil {
		return err
	}

	history, err := applier.History(ctx)
	if err != nil {
		return err
	}
	recorded := make(map[string]string, len(history))
	for _, h := range history {
		recorded[h.Name] = h.AppliedAt.Format("2006-01-02 15:04:05")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTATUS\tRECORDED\tDETAIL")
	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Status, recorded[r.Name], detail)
	}
	return w.Flush()
}

func describe(ctx context.Context, db *gorm.DB) error {
	snapshot, err := schema.Describe(ctx, db)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
