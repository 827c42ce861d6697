package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tirasundara/atm-reconciliation/internal/config"
	"github.com/tirasundara/atm-reconciliation/internal/report"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the ATM log against the CBS ledger and write a report",
		Example: `  reconciliation run --atm atm.csv --cbs cbs.xlsx
  reconciliation run --atm atm.csv --cbs https://cbs.example.com/export.csv --format table
  reconciliation run --atm atm.csv --cbs cbs.csv --format xlsx --output Reconciliation_Report
  reconciliation run --atm atm.csv --cbs cbs.csv --filter "Missing in CBS" --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconciliation(cmd, v)
		},
	}

	flags := runCmd.Flags()
	flags.String("format", report.FormatJSON, "output format: json, csv, yaml, table or xlsx")
	flags.String("output", "", "path to output file (if empty, writes to stdout)")
	flags.Bool("pretty", true, "pretty print JSON output")
	flags.String("filter", "", `only report one issue: "Missing in CBS", "Missing in ATM" or "Amount Mismatch"`)

	bindFlags(v, flags, map[string]string{
		config.KeyFormat: "format",
		config.KeyOutput: "output",
		config.KeyPretty: "pretty",
		config.KeyFilter: "filter",
	})

	return runCmd
}

func runReconciliation(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	if cfg.ConfigFile != "" {
		logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Using config file")
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	atm, cbs := newSources(cfg)
	result, err := svc.Run(cmd.Context(), atm, cbs)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if issue, ok, _ := cfg.FilterIssue(); ok {
		result = report.FilterByIssue(result, issue)
	}

	formatter, err := report.NewFormatter(cfg.Format, cfg.Pretty)
	if err != nil {
		return err
	}

	output, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), cfg.Output, formatter, output)
}

func writeOutput(stdout io.Writer, outputFile string, formatter report.OutputFormatter, output []byte) error {
	if outputFile == "" {
		if _, err := stdout.Write(output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if formatter.FileExtension() != "xlsx" && len(output) > 0 && output[len(output)-1] != '\n' {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	// If no extension is provided, add the formatter's default extension
	if filepath.Ext(outputFile) == "" {
		outputFile = fmt.Sprintf("%s.%s", outputFile, formatter.FileExtension())
	}

	if err := os.WriteFile(outputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
