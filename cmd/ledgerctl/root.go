package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookkeeper/internal/config"
	"bookkeeper/internal/database"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/migrations"
	"bookkeeper/internal/redis"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/server"
	"bookkeeper/internal/services"
)

var version = "1.1.0"

// app is the state shared by subcommands. The database is opened lazily so
// --help works without one.
type app struct {
	cfg       *config.Config
	store     *repository.Store
	migration *migrations.Report

	// cache is the server's dashboard cache, so writes made here are not
	// hidden behind a stale dashboard.
	cache       services.MetricsCache
	cacheTried  bool
	redisClient *redis.Client
}

// open connects to the database and upgrades legacy rows, once per process.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	db, err := database.Initialize(a.cfg.DatabaseDriver, a.cfg.DatabaseURL, a.cfg.DatabaseDebug)
	if err != nil {
		return err
	}
	report, err := migrations.RunMigrations(db)
	if err != nil {
		return err
	}
	a.store = repository.NewStore(db)
	a.migration = report
	return nil
}

// connectCache attaches the Redis dashboard cache when REDIS_URL is set.
// An unreachable Redis is logged and the command runs without it.
func (a *app) connectCache() {
	if a.cacheTried || a.cache != nil || a.cfg.RedisURL == "" {
		return
	}
	a.cacheTried = true
	client, err := redis.Initialize(a.cfg.RedisURL)
	if err != nil {
		log := logger.WithComponent("cmd")
		log.Warn().Err(err).Msg("Redis unavailable, dashboard cache will not be invalidated")
		return
	}
	a.redisClient = client
	a.cache = client
}

func (a *app) close() error {
	if a.redisClient == nil {
		return nil
	}
	err := a.redisClient.Close()
	a.redisClient = nil
	return err
}

func (a *app) services() (server.Services, error) {
	if err := a.open(); err != nil {
		return server.Services{}, err
	}
	a.connectCache()
	return server.BuildServices(a.store, a.cache, a.cfg.CacheDuration(), a.cfg.BackupPrefix), nil
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	return (&app{cfg: cfg}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Maintenance commands for the bookkeeper ledger",
		Long: `ledgerctl works directly on the bookkeeper database configured through
DATABASE_DRIVER and DATABASE_URL. Use it to back up and restore the ledger,
check that vendor transactions still mirror the orders, and print the
business summary.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.AddCommand(
		newExportCmd(a),
		newImportCmd(a),
		newAuditCmd(a),
		newRebuildCmd(a),
		newSummaryCmd(a),
		newMigrateCmd(a),
	)
	return root
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
