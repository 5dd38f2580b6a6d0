package domain

import "context"

// EbayClient defines the interface for interacting with the eBay Finding and Shopping APIs
type EbayClient interface {
	FindItemsInStore(ctx context.Context, storeName string) ([]EbayFindingItem, error)
	GetMultipleItems(ctx context.Context, itemIDs []string) ([]EbayItem, error)
}

// MerchantAdapter looks up a single product on one marketplace and returns it
// in the common item schema.
type MerchantAdapter interface {
	Merchant() Merchant
	GetItem(ctx context.Context, id string) (*Item, error)
}
