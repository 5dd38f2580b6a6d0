package domain

import (
	"fmt"
	"strings"
)

// Merchant identifies a supported marketplace
type Merchant string

const (
	MerchantEbay    Merchant = "ebay"
	MerchantAmazon  Merchant = "amazon"
	MerchantWalmart Merchant = "walmart"
	MerchantSears   Merchant = "sears"
)

// IsValid returns true if the merchant is one of the supported marketplaces
func (m Merchant) IsValid() bool {
	switch m {
	case MerchantEbay, MerchantAmazon, MerchantWalmart, MerchantSears:
		return true
	default:
		return false
	}
}

// String returns the string representation of Merchant
func (m Merchant) String() string {
	return string(m)
}

// DisplayName returns the marketplace name as shown in item payloads
func (m Merchant) DisplayName() string {
	switch m {
	case MerchantEbay:
		return "eBay"
	case MerchantAmazon:
		return "Amazon"
	case MerchantWalmart:
		return "Walmart"
	case MerchantSears:
		return "Sears"
	default:
		return string(m)
	}
}

// ParseMerchant converts a case-insensitive merchant name to a Merchant
func ParseMerchant(name string) (Merchant, error) {
	m := Merchant(strings.ToLower(strings.TrimSpace(name)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMerchant, name)
	}
	return m, nil
}
