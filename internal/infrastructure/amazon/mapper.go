package amazon

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/resale/backend/internal/domain"
)

const (
	availableNow = "now"

	// primeDeliveryDays is the delivery estimate for Prime eligible offers
	primeDeliveryDays = 2
)

// MapToItem converts an ItemLookup product into the common item schema.
// now anchors the Prime delivery estimate.
func MapToItem(p *Product, now time.Time) *domain.Item {
	listing := p.firstListing()
	available := listing != nil && listing.AvailabilityAttributes.AvailabilityType == availableNow

	var shipping domain.Shipping
	if listing != nil && listing.IsEligibleForPrime == "1" {
		cost := decimal.Zero
		delivery := now.AddDate(0, 0, primeDeliveryDays)
		shipping = domain.Shipping{
			Cost:            &cost,
			MinDeliveryDate: &delivery,
			MaxDeliveryDate: &delivery,
		}
	}

	raw, _ := json.Marshal(p)

	return &domain.Item{
		MerchantName: domain.MerchantAmazon.DisplayName(),
		MerchantID:   p.ASIN,
		Image: domain.Image{
			Gallery: gallery(p),
			Images:  images(p),
		},
		Specifics: domain.Specifics{
			Title:       p.ItemAttributes.Title,
			Description: strings.Join(p.ItemAttributes.Feature, ";"),
			Category:    p.ItemAttributes.ProductGroup,
			Variation:   []domain.Specific{},
			Specifics:   specifics(p.ItemAttributes),
			IsAvailable: available,
		},
		Price:    domain.NewPrice(price(p, listing), shipping.Cost, available),
		Shipping: shipping,
		Raw:      raw,
	}
}

// price is the list price, falling back to the offer price
func price(p *Product, listing *offerListing) decimal.Decimal {
	if amount, ok := fromCents(p.ItemAttributes.ListPrice); ok {
		return amount
	}
	if listing != nil {
		if amount, ok := fromCents(listing.Price); ok {
			return amount
		}
	}
	return decimal.Zero
}

func fromCents(m *money) (decimal.Decimal, bool) {
	if m == nil || m.Amount == "" {
		return decimal.Zero, false
	}
	cents, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Zero, false
	}
	return cents.Shift(-2), true
}

func gallery(p *Product) string {
	if p.LargeImage != nil && p.LargeImage.URL != "" {
		return p.LargeImage.URL
	}
	if imgs := images(p); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

func images(p *Product) []string {
	urls := make([]string, 0, len(p.ImageSets))
	for _, set := range p.ImageSets {
		if set.LargeImage != nil && set.LargeImage.URL != "" {
			urls = append(urls, set.LargeImage.URL)
		}
	}
	return urls
}

func specifics(attrs itemAttributes) []domain.Specific {
	result := []domain.Specific{}
	for _, s := range []domain.Specific{
		{Name: "UPC", Value: attrs.UPC},
		{Name: "EAN", Value: attrs.EAN},
		{Name: "Brand", Value: attrs.Brand},
	} {
		if s.Value != "" {
			result = append(result, s)
		}
	}
	return result
}
