// Package cli implements invoicectl, an offline front end to the invoice engine.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/invoice-engine/internal/config"
	"github.com/noah-isme/invoice-engine/internal/invoice"
	"github.com/noah-isme/invoice-engine/internal/money"
)

var version = "dev"

type globalFlags struct {
	grouping        string
	suffix          string
	tolerateInvalid bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Render and check GST tax invoices offline",
		Long:          "invoicectl computes totals, page plans and amount-in-words for invoice files (JSON or YAML) using the same engine as the API.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.grouping, "grouping", "", "Digit grouping: indian, western or primary,secondary (default from INVOICE_DIGIT_GROUPING)")
	cmd.PersistentFlags().StringVar(&flags.suffix, "suffix", "", "Word appended to amounts in words, e.g. Only")
	cmd.PersistentFlags().BoolVar(&flags.tolerateInvalid, "tolerate-invalid", false, "Render without items that have out-of-range values")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newWordsCmd(flags))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the command tree.
func Execute() error {
	return newRootCmd().Execute()
}

// engine builds an engine from the environment, then applies flag overrides.
func (f *globalFlags) engine() (*invoice.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Invoice.EngineOptions()
	if err != nil {
		return nil, err
	}
	if f.grouping != "" {
		if opts.Formatter, err = money.ParseGrouping(f.grouping); err != nil {
			return nil, err
		}
	}
	if f.suffix != "" {
		opts.Words.Suffix = f.suffix
	}
	if f.tolerateInvalid {
		opts.TolerateInvalidItems = true
	}
	return invoice.NewEngine(opts), nil
}
