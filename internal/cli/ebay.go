package cli

import (
	"github.com/spf13/cobra"
)

func newEbayCommand(deps Dependencies) *cobra.Command {
	ebay := &cobra.Command{
		Use:   "ebay",
		Short: "Fetch eBay store listings and items, one record per variation.",
	}
	ebay.AddCommand(newEbayListingsCommand(deps))
	ebay.AddCommand(newEbayItemsCommand(deps))
	ebay.AddCommand(newEbayVariationCommand(deps))
	return ebay
}

func newEbayListingsCommand(deps Dependencies) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List every active listing of the configured store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ebayService(deps)
			if err != nil {
				return err
			}
			items, err := svc.GetListings(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, flags, items)
		},
	}

	addOutputFlags(cmd, &flags)
	return cmd
}

func newEbayItemsCommand(deps Dependencies) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "items <item-id>...",
		Short: "Fetch eBay items by id.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ebayService(deps)
			if err != nil {
				return err
			}
			items, err := svc.GetItems(cmd.Context(), args)
			if err != nil {
				return err
			}
			return writeJSON(cmd, flags, items)
		},
	}

	addOutputFlags(cmd, &flags)
	return cmd
}

func newEbayVariationCommand(deps Dependencies) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "variation <id>",
		Short: "Fetch a single variation by its <itemId>-<hash> id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ebayService(deps)
			if err != nil {
				return err
			}
			item, err := svc.GetVariation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, flags, item)
		},
	}

	addOutputFlags(cmd, &flags)
	return cmd
}

func ebayService(deps Dependencies) (EbayService, error) {
	if deps.Ebay == nil {
		return nil, errEbayNotConfigured
	}
	svc, err := deps.Ebay()
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, errEbayNotConfigured
	}
	return svc, nil
}
