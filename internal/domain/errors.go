package domain

import "errors"

var (
	// ErrUnknownMerchant is returned when a URL or merchant name does not map to a supported marketplace
	ErrUnknownMerchant = errors.New("unknown merchant")

	// ErrItemNotFound is returned when the marketplace has no item for the requested id
	ErrItemNotFound = errors.New("item not found")

	// ErrVariationNotFound is returned when a variation hash matches none of an item's variations
	ErrVariationNotFound = errors.New("variation not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrVendorAPIFailure is returned when a marketplace API request fails
	ErrVendorAPIFailure = errors.New("vendor API request failed")

	// ErrInvalidResponse is returned when a marketplace response cannot be decoded
	ErrInvalidResponse = errors.New("invalid vendor response")

	// ErrRateLimited is returned when the local or remote rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMerchantNotConfigured is returned when a marketplace has no credentials configured
	ErrMerchantNotConfigured = errors.New("merchant not configured")
)
