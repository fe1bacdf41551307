package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/tokengate/adapters/bech32"
	"github.com/artpar/tokengate/adapters/hostsim"
	"github.com/artpar/tokengate/adapters/idgen"
	"github.com/artpar/tokengate/adapters/sqlite"
	"github.com/artpar/tokengate/app"
	"github.com/artpar/tokengate/config"
)

var (
	// Global flags
	cfgFile string
	sender  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tokengate",
	Short: "Permissioned asset catalog and capped-supply token ledger sandbox",
	Long: `Tokengate runs the dual-index asset catalog and the capped-supply
token ledger locally, backed by a SQLite state file and a simulated
host chain module.

Catalog:
  tokengate catalog init     # Write the initial catalog config
  tokengate catalog add      # List new denoms
  tokengate catalog list     # Page through listings

Ledger:
  tokengate ledger init      # Register the unit and mint initial supply
  tokengate ledger mint      # Issue units to recipients
  tokengate ledger info      # Supply summary`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tokengate.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&sender, "sender", "s", "", "address invoking the operation")
}

// env wires the services for one CLI invocation.
type env struct {
	cfg     config.Config
	logger  zerolog.Logger
	db      *sqlite.DB
	catalog *app.CatalogService
	ledger  *app.LedgerService
	host    *hostsim.Module
}

func setup() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	validator := bech32.NewValidator(cfg.Chain.Bech32Prefix)
	host := hostsim.New(sqlite.NewKVStore(db, "host"))
	metrics := app.NewMetrics(prometheus.NewRegistry())

	catalogSvc := app.NewCatalogService(app.CatalogDeps{
		Store:   sqlite.NewKVStore(db, "catalog"),
		Addr:    validator,
		IDGen:   idgen.UUID{},
		Logger:  logger,
		Metrics: metrics,
	})
	ledgerSvc := app.NewLedgerService(app.LedgerDeps{
		Store:    sqlite.NewKVStore(db, "ledger"),
		Addr:     validator,
		Host:     host,
		Querier:  host,
		IDGen:    idgen.UUID{},
		Logger:   logger,
		Metrics:  metrics,
		Contract: cfg.Chain.Contract,
	})

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		catalog: catalogSvc,
		ledger:  ledgerSvc,
		host:    host,
	}, nil
}

func (e *env) close() {
	e.db.Close()
}

func newLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}
	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func requireSender() error {
	if sender == "" {
		return fmt.Errorf("--sender is required")
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
