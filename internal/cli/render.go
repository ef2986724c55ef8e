package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Compute pages, totals and amount in words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := flags.engine()
			if err != nil {
				return err
			}
			inv, err := loadInvoice(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := engine.Render(inv)
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}

			if asTable {
				_, err = fmt.Fprint(cmd.OutOrStdout(), renderTable(result))
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "Print a terminal table instead of JSON")
	return cmd
}
