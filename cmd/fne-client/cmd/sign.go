package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fne-client/pkg/fnelib"
)

var signCmd = &cobra.Command{
	Use:   "sign [file]",
	Short: "Validate and submit an invoice for signing",
	Long: `Validate a JSON invoice document and submit it to the signing service.

The document is validated locally first; an invalid document never reaches
the network. On success the signed response (reference, sticker token,
remaining sticker balance) is printed as JSON.

Examples:
  fne-client sign invoice.json --token <bearer-token>
  FNE_API_TOKEN=<bearer-token> fne-client sign invoice.json
  fne-client sign invoice.json --base-url http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	inv, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	client := newClient()

	result, err := client.Sign(context.Background(), inv)
	if err != nil {
		var verr *fnelib.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Document is invalid:\n")
			for _, key := range verr.Errors.Keys() {
				fmt.Fprintf(os.Stderr, "  - %s: %s\n", key, verr.Errors.Get(key))
			}
		}
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
