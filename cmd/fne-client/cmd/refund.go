package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rezonia/fne-client/pkg/fnelib"
)

var refundItems []string

var refundCmd = &cobra.Command{
	Use:   "refund [invoice-id]",
	Short: "Refund items of a signed invoice",
	Long: `Submit a refund for one or more line items of a previously signed invoice.

Each --item takes the signed item id and the refunded quantity as ID:QTY.

Examples:
  fne-client refund FNE-20260827-000001 --item item-1:2
  fne-client refund FNE-20260827-000001 --item item-1:1 --item item-2:0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runRefund,
}

func init() {
	rootCmd.AddCommand(refundCmd)

	refundCmd.Flags().StringArrayVar(&refundItems, "item", nil, "Refunded item as ID:QTY (repeatable)")
	refundCmd.MarkFlagRequired("item")
}

func runRefund(cmd *cobra.Command, args []string) error {
	items := make([]fnelib.RefundItem, 0, len(refundItems))
	for _, entry := range refundItems {
		id, qty, ok := strings.Cut(entry, ":")
		if !ok || id == "" {
			return fmt.Errorf("invalid --item %q: expected ID:QTY", entry)
		}
		quantity, err := decimal.NewFromString(qty)
		if err != nil {
			return fmt.Errorf("invalid quantity in --item %q: %w", entry, err)
		}
		items = append(items, fnelib.NewRefundItem(id, quantity))
	}

	client := newClient()

	result, err := client.Refund(context.Background(), args[0], items...)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
