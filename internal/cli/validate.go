package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Report field-level violations without rendering",
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
			result := engine.Validate(inv)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if errs := result.Errors(); len(errs) > 0 {
				return fmt.Errorf("validation failed: %d error(s)", len(errs))
			}
			if strict && len(result.Warnings()) > 0 {
				return fmt.Errorf("validation failed (strict): %d warning(s)", len(result.Warnings()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings too")
	return cmd
}
