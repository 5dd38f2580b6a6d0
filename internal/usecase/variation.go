package usecase

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resale/backend/internal/domain"
)

// NoVariationHash is the hash component of ids of items listed without variations
const NoVariationHash = "0"

// GenerateID builds the identifier of a listing: "<itemId>-<variationHash>".
// The hash is the MD5 of the variation's JSON encoding, or NoVariationHash.
// Quantity and SellingStatus are encoded too, so the id changes when stock does.
func GenerateID(listing domain.EbayListing) string {
	return fmt.Sprintf("%s-%s", listing.Item.ItemID, VariationHash(listing.Variation))
}

// VariationHash returns the hash identifying a variation within its item
func VariationHash(variation *domain.EbayVariation) string {
	if variation == nil {
		return NoVariationHash
	}
	// encoding/json writes struct fields in declaration order, so the encoding is stable
	data, err := json.Marshal(variation)
	if err != nil {
		return NoVariationHash
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// ParseItemID splits an id produced by GenerateID into the eBay item id and variation hash
func ParseItemID(id string) (itemID, variationHash string, err error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", fmt.Errorf("%w: malformed item id %q", domain.ErrInvalidRequest, id)
	}
	return id[:idx], id[idx+1:], nil
}

// ExplodeVariations turns an item into one listing per variation.
// Items without variations, or with an empty variation list, yield a single listing.
func ExplodeVariations(item domain.EbayItem) []domain.EbayListing {
	if !item.HasVariations() {
		return []domain.EbayListing{{Item: item}}
	}

	listings := make([]domain.EbayListing, 0, len(item.Variations.Variation))
	for i := range item.Variations.Variation {
		variation := item.Variations.Variation[i]
		listings = append(listings, domain.EbayListing{
			Item:      item,
			Variation: &variation,
		})
	}
	return listings
}

// FindVariation returns the exploded listing whose hash matches variationHash.
// The second result is false, and the unexploded item is returned, when nothing matches.
func FindVariation(item domain.EbayItem, variationHash string) (domain.EbayListing, bool) {
	if item.HasVariations() {
		for _, listing := range ExplodeVariations(item) {
			if VariationHash(listing.Variation) == variationHash {
				return listing, true
			}
		}
		return domain.EbayListing{Item: item}, false
	}
	return domain.EbayListing{Item: item}, variationHash == NoVariationHash
}
