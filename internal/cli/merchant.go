package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resale/backend/internal/domain"
)

func newMerchantCommand(deps Dependencies) *cobra.Command {
	merchant := &cobra.Command{
		Use:   "merchant",
		Short: "Look up Amazon, Walmart and Sears products.",
	}
	merchant.AddCommand(newMerchantItemCommand(deps))
	merchant.AddCommand(newMerchantLookupCommand(deps))
	return merchant
}

func newMerchantItemCommand(deps Dependencies) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "item <url>",
		Short: "Fetch the product behind a marketplace product URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := merchantService(deps)
			if err != nil {
				return err
			}
			item, err := svc.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, flags, item)
		},
	}

	addOutputFlags(cmd, &flags)
	return cmd
}

func newMerchantLookupCommand(deps Dependencies) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "lookup <merchant> <id>",
		Short: "Fetch a product by merchant name and merchant item id.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := merchantService(deps)
			if err != nil {
				return err
			}
			item, err := svc.GetItemByMerchant(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd, flags, item)
		},
	}

	addOutputFlags(cmd, &flags)
	return cmd
}

func merchantService(deps Dependencies) (MerchantService, error) {
	if deps.Merchant == nil {
		return nil, fmt.Errorf("%w: no merchant adapters", domain.ErrMerchantNotConfigured)
	}
	return deps.Merchant()
}
