package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/fne-client/pkg/fnelib"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice documents locally",
	Long: `Validate one or more JSON invoice documents without any network call.

Every violated rule is reported under its field path, for example:
  items[0].taxes: at least one tax type is required on sale invoices

Examples:
  fne-client validate invoice.json
  fne-client validate drafts/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	client := newClient()
	allValid := true

	for _, file := range args {
		inv, err := loadDocument(file)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", file, err)
			allValid = false
			continue
		}

		err = client.Validate(inv)
		if err == nil {
			fmt.Printf("✓ %s: VALID\n", file)
			continue
		}

		allValid = false
		var verr *fnelib.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %s: INVALID\n", file)
			for _, key := range verr.Errors.Keys() {
				fmt.Printf("  - %s: %s\n", key, verr.Errors.Get(key))
			}
		} else {
			fmt.Printf("✗ %s: %v\n", file, err)
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some documents")
	}
	return nil
}
