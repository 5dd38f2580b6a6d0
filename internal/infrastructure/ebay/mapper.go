package ebay

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resale/backend/internal/domain"
)

// activeListingStatus is the ListingStatus of a listing that can still be bought
const activeListingStatus = "Active"

// rawListing is the audit payload kept on every mapped eBay item
type rawListing struct {
	Finding  *domain.EbayFindingItem `json:"finding,omitempty"`
	Shopping domain.EbayListing      `json:"shopping"`
}

// MapToItem converts an eBay listing into the common item schema.
// finding is the store search entry the listing was discovered from, if any.
func MapToItem(listing domain.EbayListing, id string, finding *domain.EbayFindingItem) *domain.Item {
	item := listing.Item
	available := quantityAvailable(listing)

	var shippingCost *decimal.Decimal
	if item.ShippingCostSummary != nil && item.ShippingCostSummary.ShippingServiceCost != nil {
		cost := item.ShippingCostSummary.ShippingServiceCost.Value
		shippingCost = &cost
	}

	raw, _ := json.Marshal(rawListing{Finding: finding, Shopping: listing})

	return &domain.Item{
		ID:           id,
		MerchantName: domain.MerchantEbay.DisplayName(),
		MerchantID:   item.ItemID,
		Image: domain.Image{
			Gallery: galleryURL(item),
			Images:  images(listing),
		},
		Specifics: domain.Specifics{
			Title:       item.Title,
			Description: item.Description,
			Category:    item.PrimaryCategoryName,
			Variation:   variationSpecifics(listing.Variation),
			Specifics:   toSpecifics(item.ItemSpecifics),
			IsAvailable: available > 0 && (item.ListingStatus == "" || item.ListingStatus == activeListingStatus),
		},
		Price: domain.NewPrice(price(listing), shippingCost, available >= 1),
		Shipping: domain.Shipping{
			Cost: shippingCost,
		},
		Raw: raw,
	}
}

// price is the variation start price, or the item's current price when there is no variation
func price(listing domain.EbayListing) decimal.Decimal {
	if listing.Variation != nil {
		return listing.Variation.StartPrice.Value
	}
	return listing.Item.CurrentPrice.Value
}

func quantityAvailable(listing domain.EbayListing) int {
	if v := listing.Variation; v != nil {
		sold := 0
		if v.SellingStatus != nil {
			sold = v.SellingStatus.QuantitySold
		}
		return v.Quantity - sold
	}
	return listing.Item.Quantity - listing.Item.QuantitySold
}

func galleryURL(item domain.EbayItem) string {
	if item.GalleryURL != "" {
		return item.GalleryURL
	}
	if len(item.PictureURL) > 0 {
		return item.PictureURL[0]
	}
	return ""
}

// images lists the pictures of the listing's own variation first, then the item pictures
func images(listing domain.EbayListing) []string {
	result := make([]string, 0, len(listing.Item.PictureURL))
	seen := make(map[string]bool)
	add := func(urls []string) {
		for _, u := range urls {
			if u != "" && !seen[u] {
				seen[u] = true
				result = append(result, u)
			}
		}
	}

	if listing.Variation != nil && listing.Item.Variations != nil {
		for _, pictures := range listing.Item.Variations.Pictures {
			value := specificValue(listing.Variation.VariationSpecifics, pictures.VariationSpecificName)
			if value == "" {
				continue
			}
			for _, set := range pictures.VariationSpecificPictureSet {
				if strings.EqualFold(set.VariationSpecificValue, value) {
					add(set.PictureURL)
				}
			}
		}
	}
	add(listing.Item.PictureURL)

	return result
}

func specificValue(list domain.EbayNameValueList, name string) string {
	for _, nv := range list.NameValueList {
		if strings.EqualFold(nv.Name, name) && len(nv.Value) > 0 {
			return nv.Value[0]
		}
	}
	return ""
}

func variationSpecifics(v *domain.EbayVariation) []domain.Specific {
	if v == nil {
		return []domain.Specific{}
	}
	return toSpecifics(&v.VariationSpecifics)
}

func toSpecifics(list *domain.EbayNameValueList) []domain.Specific {
	specifics := []domain.Specific{}
	if list == nil {
		return specifics
	}
	for _, nv := range list.NameValueList {
		specifics = append(specifics, domain.Specific{
			Name:  nv.Name,
			Value: strings.Join(nv.Value, ", "),
		})
	}
	return specifics
}
