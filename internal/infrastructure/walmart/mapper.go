package walmart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/resale/backend/internal/domain"
)

// MapToItem converts a Walmart product into the common item schema
func MapToItem(p *Product) *domain.Item {
	opts := p.BuyingOptions
	if opts == nil {
		opts = &buyingOptions{}
	}

	price := decimal.Zero
	if opts.Price != nil {
		price = opts.Price.CurrencyAmount
	}

	var shippingCost *decimal.Decimal
	if opts.ShippingPrice != nil {
		cost := opts.ShippingPrice.CurrencyAmount
		shippingCost = &cost
	}

	raw, _ := json.Marshal(p)

	return &domain.Item{
		MerchantName: domain.MerchantWalmart.DisplayName(),
		MerchantID:   p.USItemID,
		Image: domain.Image{
			Gallery: p.PrimaryImageURL,
			Images:  heroImages(p.ImageAssets),
		},
		Specifics: domain.Specifics{
			Title:       p.ProductName,
			Description: p.LongDescription,
			Category:    p.Category,
			Variation:   []domain.Specific{},
			Specifics:   specifics(p),
			IsAvailable: opts.Available,
		},
		Price: domain.NewPrice(price, shippingCost, offersSingleQuantity(opts.QuantityOptions)),
		Shipping: domain.Shipping{
			Cost:            shippingCost,
			MinDeliveryDate: opts.EarliestPromiseDeliveryDate.Time(),
			MaxDeliveryDate: opts.LatestPromiseDeliveryDate.Time(),
		},
		Raw: raw,
	}
}

func heroImages(assets []imageAsset) []string {
	images := make([]string, 0, len(assets))
	for _, a := range assets {
		if a.Versions.Hero != "" {
			images = append(images, a.Versions.Hero)
		}
	}
	return images
}

func specifics(p *Product) []domain.Specific {
	result := []domain.Specific{}
	if p.UPC != "" {
		result = append(result, domain.Specific{Name: "UPC", Value: p.UPC})
	}
	if p.Brand != "" {
		result = append(result, domain.Specific{Name: "Brand", Value: p.Brand})
	}
	return result
}

// offersSingleQuantity reports whether a quantity of one can be ordered
func offersSingleQuantity(options []int) bool {
	for _, q := range options {
		if q == 1 {
			return true
		}
	}
	return false
}
