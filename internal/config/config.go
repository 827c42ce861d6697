package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tirasundara/atm-reconciliation/internal/domain"
	"github.com/tirasundara/atm-reconciliation/internal/report"
)

// EnvPrefix is prepended to every environment variable, e.g. RECON_ATM
const EnvPrefix = "RECON"

// Configuration keys
const (
	KeyConfig      = "config"
	KeyATM         = "atm"
	KeyCBS         = "cbs"
	KeyFormat      = "format"
	KeyOutput      = "output"
	KeyPretty      = "pretty"
	KeyFilter      = "filter"
	KeyDuplicates  = "duplicates"
	KeyWorkers     = "workers"
	KeyBatchSize   = "batch_size"
	KeyHTTPTimeout = "http_timeout"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyLogOutput   = "log_output"
)

// Config holds the settings of one reconciliation run
type Config struct {
	ATM         string        // ATM log location: file path or http(s) URL
	CBS         string        // CBS ledger location: file path or http(s) URL
	Format      string        // Report format
	Output      string        // Report path; empty writes to stdout
	Pretty      bool          // Pretty print JSON
	Filter      string        // Only report this issue; empty reports all
	Duplicates  string        // Duplicate reference policy
	Workers     int           // Loader workers for large inputs
	BatchSize   int           // Rows per loader batch
	HTTPTimeout time.Duration // Timeout for URL sources

	LogLevel  string
	LogFormat string
	LogOutput string

	ConfigFile string // Config file actually used, if any
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, report.FormatJSON)
	v.SetDefault(KeyPretty, true)
	v.SetDefault(KeyDuplicates, string(domain.DuplicateFirst))
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyBatchSize, 1000)
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyLogOutput, "stderr")
}

// LoadEnvFiles loads .env files into the process environment. Variables that
// are already set win. Missing files are ignored; unreadable ones are not.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}

// Load builds a Config in order of precedence:
// 1. Command-line flags (bound to v by the caller)
// 2. Environment variables (RECON_*)
// 3. .env files
// 4. Config file (--config, or .reconciliation.yaml in the working or home directory)
// 5. Defaults
func Load(v *viper.Viper) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		ATM:         v.GetString(KeyATM),
		CBS:         v.GetString(KeyCBS),
		Format:      v.GetString(KeyFormat),
		Output:      v.GetString(KeyOutput),
		Pretty:      v.GetBool(KeyPretty),
		Filter:      v.GetString(KeyFilter),
		Duplicates:  v.GetString(KeyDuplicates),
		Workers:     v.GetInt(KeyWorkers),
		BatchSize:   v.GetInt(KeyBatchSize),
		HTTPTimeout: v.GetDuration(KeyHTTPTimeout),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		LogOutput:   v.GetString(KeyLogOutput),
		ConfigFile:  v.ConfigFileUsed(),
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName(".reconciliation")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

// Validate checks the settings that would otherwise fail late
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.ATM == "" {
		result = multierror.Append(result, errors.New("ATM source is required"))
	}
	if c.CBS == "" {
		result = multierror.Append(result, errors.New("CBS source is required"))
	}
	if !slices.Contains(report.Formats, strings.ToLower(c.Format)) {
		result = multierror.Append(result, fmt.Errorf("unsupported output format %q (want one of %s)",
			c.Format, strings.Join(report.Formats, ", ")))
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, _, err := c.FilterIssue(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.BatchSize < 1 {
		result = multierror.Append(result, fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize))
	}

	return result.ErrorOrNil()
}

// DuplicatePolicy parses the configured duplicate policy
func (c *Config) DuplicatePolicy() (domain.DuplicatePolicy, error) {
	return domain.ParseDuplicatePolicy(c.Duplicates)
}

// FilterIssue parses the configured filter. ok is false when every issue is reported.
func (c *Config) FilterIssue() (issue domain.DiscrepancyIssue, ok bool, err error) {
	f := strings.TrimSpace(c.Filter)
	if f == "" || strings.EqualFold(f, "all") {
		return "", false, nil
	}

	issue, err = domain.ParseDiscrepancyIssue(f)
	if err != nil {
		return "", false, err
	}
	return issue, true, nil
}
