package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newValidateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that both sources load, without reconciling",
		Long: `Fetch and load the ATM log and the CBS ledger and report every schema or
amount problem on both sides at once. Nothing is reconciled.`,
		Example: `  reconciliation validate --atm atm.csv --cbs cbs.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			svc, err := newService(cfg, newLogger(cfg))
			if err != nil {
				return err
			}

			atmSrc, cbsSrc := newSources(cfg)
			atm, cbs, err := svc.Validate(cmd.Context(), atmSrc, cbsSrc)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ATM log %s: %d records, %d references\n", atm.Source, atm.Len(), len(atm.References()))
			fmt.Fprintf(out, "CBS ledger %s: %d records, %d references\n", cbs.Source, cbs.Len(), len(cbs.References()))
			return nil
		},
	}
}
