package sears

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resale/backend/internal/domain"
)

// buyableNow are the normalized schema.org ItemAvailability values of an orderable product
var buyableNow = map[string]bool{
	"instock":             true,
	"limitedavailability": true,
	"onlineonly":          true,
}

// MapToItem converts a parsed Sears product into the common item schema
func MapToItem(p *Product) *domain.Item {
	price := decimal.Zero
	if p.Price != nil {
		price = *p.Price
	}
	available := isAvailable(p.Availability)

	gallery := ""
	if len(p.Images) > 0 {
		gallery = p.Images[0]
	}

	raw, _ := json.Marshal(p)

	return &domain.Item{
		MerchantName: domain.MerchantSears.DisplayName(),
		MerchantID:   p.PartNumber,
		Image: domain.Image{
			Gallery: gallery,
			Images:  p.Images,
		},
		Specifics: domain.Specifics{
			Title:       p.Name,
			Description: p.Description,
			Category:    p.Category,
			Variation:   []domain.Specific{},
			Specifics:   specifics(p),
			IsAvailable: available,
		},
		Price: domain.NewPrice(price, p.ShippingCost, available),
		Shipping: domain.Shipping{
			Cost: p.ShippingCost,
		},
		Raw: raw,
	}
}

// isAvailable normalizes "https://schema.org/InStock", "InStock" and "in stock" alike
func isAvailable(availability string) bool {
	a := strings.ToLower(availability)
	if i := strings.LastIndex(a, "/"); i >= 0 {
		a = a[i+1:]
	}
	a = strings.NewReplacer(" ", "", "_", "").Replace(a)
	return buyableNow[a]
}

func specifics(p *Product) []domain.Specific {
	result := []domain.Specific{}
	for _, s := range []domain.Specific{
		{Name: "Brand", Value: p.Brand},
		{Name: "GTIN", Value: p.GTIN},
		{Name: "MPN", Value: p.MPN},
		{Name: "SKU", Value: p.SKU},
	} {
		if s.Value != "" {
			result = append(result, s)
		}
	}
	return result
}
