package cmd

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tirasundara/atm-reconciliation/internal/config"
	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/loader"
	"github.com/tirasundara/atm-reconciliation/internal/logging"
	"github.com/tirasundara/atm-reconciliation/internal/reconciler"
	"github.com/tirasundara/atm-reconciliation/internal/service"
	"github.com/tirasundara/atm-reconciliation/internal/source"
)

// NewRootCommand builds the CLI. Each call gets its own viper instance, so
// commands never share configuration state.
func NewRootCommand(version string) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "reconciliation",
		Short: "Reconcile an ATM transaction log against the core banking ledger",
		Long: `Reconcile an ATM channel log against a core banking system (CBS) ledger.

Both sources are CSV or XLSX tables with the columns REFERENCE, DEBIT,
CREDIT and CURRENCY, read from a local path or an http(s) URL. Records are
matched by REFERENCE and each discrepant reference is reported once as
"Missing in CBS", "Missing in ATM" or "Amount Mismatch".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default .reconciliation.yaml in the working or home directory)")
	flags.String("atm", "", "ATM log: file path or http(s) URL")
	flags.String("cbs", "", "CBS ledger: file path or http(s) URL")
	flags.String("duplicates", string(domain.DuplicateFirst), "duplicate reference policy: first or reject")
	flags.Int("workers", 4, "loader workers for large inputs")
	flags.Int("batch-size", 1000, "rows per loader batch")
	flags.Duration("http-timeout", 30*time.Second, "timeout for URL sources")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error, off")
	flags.String("log-format", "auto", "log format: auto, console or json")
	flags.String("log-output", "stderr", "log output: stderr, stdout or discard")

	bindFlags(v, flags, map[string]string{
		config.KeyConfig:      "config",
		config.KeyATM:         "atm",
		config.KeyCBS:         "cbs",
		config.KeyDuplicates:  "duplicates",
		config.KeyWorkers:     "workers",
		config.KeyBatchSize:   "batch-size",
		config.KeyHTTPTimeout: "http-timeout",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
		config.KeyLogOutput:   "log-output",
	})

	root.AddCommand(newRunCommand(v))
	root.AddCommand(newValidateCommand(v))

	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		// Lookup only fails for unknown names, which would be a programming error
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

// loadConfig resolves the configuration once flags have been parsed
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: logging.OutputFor(cfg.LogOutput),
	})
}

func newService(cfg *config.Config, logger zerolog.Logger) (*service.ReconciliationService, error) {
	policy, err := cfg.DuplicatePolicy()
	if err != nil {
		return nil, err
	}

	l := loader.New(
		loader.WithDuplicatePolicy(policy),
		loader.WithWorkers(cfg.Workers),
		loader.WithBatchSize(cfg.BatchSize),
	)

	return service.NewReconciliationService(l, reconciler.NewDefaultReconciler(), logger), nil
}

func newSources(cfg *config.Config) (domain.RecordSource, domain.RecordSource) {
	return source.FromLocation(domain.ATM, cfg.ATM, cfg.HTTPTimeout),
		source.FromLocation(domain.CBS, cfg.CBS, cfg.HTTPTimeout)
}
