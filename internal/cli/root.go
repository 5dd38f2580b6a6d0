// Package cli implements the resale command line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resale/backend/internal/domain"
)

// EbayService is the eBay listing use case the commands call
type EbayService interface {
	GetListings(ctx context.Context) ([]domain.Item, error)
	GetItems(ctx context.Context, itemIDs []string) ([]domain.Item, error)
	GetVariation(ctx context.Context, id string) (*domain.Item, error)
}

// MerchantService is the URL dispatch use case the commands call
type MerchantService interface {
	GetItem(ctx context.Context, rawURL string) (*domain.Item, error)
	GetItemByMerchant(ctx context.Context, merchantName, merchantID string) (*domain.Item, error)
}

// Dependencies are resolved lazily so that --help works without credentials
type Dependencies struct {
	Ebay     func() (EbayService, error)
	Merchant func() (MerchantService, error)
}

// errEbayNotConfigured is returned by eBay commands when no app id is set
var errEbayNotConfigured = fmt.Errorf("%w: set RESALE_EBAY_APP_ID", domain.ErrMerchantNotConfigured)

type outputFlags struct {
	Compact bool
}

// NewRootCommand builds the command tree
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "resale",
		Short:         "Look up marketplace listings in a common item format.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEbayCommand(deps))
	root.AddCommand(newMerchantCommand(deps))
	return root
}

func addOutputFlags(cmd *cobra.Command, flags *outputFlags) {
	cmd.Flags().BoolVar(&flags.Compact, "compact", false, "Print JSON on a single line")
}

// writeJSON prints a payload to the command's stdout
func writeJSON(cmd *cobra.Command, flags outputFlags, payload any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !flags.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}

// ExitCode maps a command error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownMerchant):
		return 2
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrVariationNotFound):
		return 3
	case errors.Is(err, domain.ErrMerchantNotConfigured):
		return 4
	default:
		return 1
	}
}
