package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EstimatedTaxRate is the flat sales tax rate applied to every listed price
var EstimatedTaxRate = decimal.RequireFromString("0.0845")

// Item is the normalized representation of a marketplace listing.
// One Item exists per vendor item and variation combination.
type Item struct {
	ID           string    `json:"id"`
	MerchantName string    `json:"merchantName"`
	MerchantID   string    `json:"merchantId"`
	Image        Image     `json:"image"`
	Specifics    Specifics `json:"specifics"`
	Price        Price     `json:"price"`
	Shipping     Shipping  `json:"shipping"`

	// Raw is the vendor payload the item was built from, kept for auditing
	Raw json.RawMessage `json:"@merchant,omitempty"`
}

// Image holds the gallery (primary) image and the full image set
type Image struct {
	Gallery string   `json:"gallery"`
	Images  []string `json:"images"`
}

// Specifics holds the textual description of an item
type Specifics struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Variation   []Specific `json:"variation"`
	Specifics   []Specific `json:"specifics"`
	IsAvailable bool       `json:"isAvailable"`
}

// Specific is a single name/value attribute
type Specific struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Price holds pricing details. ShippingCost is nil when unknown.
type Price struct {
	Price                  decimal.Decimal  `json:"price"`
	EstimatedTax           decimal.Decimal  `json:"estimatedTax"`
	ShippingCost           *decimal.Decimal `json:"shippingCost"`
	HasSingleItemAvailable bool             `json:"hasSingleItemAvailable"`
}

// Shipping holds the shipping cost and delivery estimate window
type Shipping struct {
	Cost            *decimal.Decimal `json:"cost"`
	MinDeliveryDate *time.Time       `json:"minDeliveryDate"`
	MaxDeliveryDate *time.Time       `json:"maxDeliveryDate"`
}

// EstimateTax returns the estimated sales tax for a price
func EstimateTax(price decimal.Decimal) decimal.Decimal {
	return price.Mul(EstimatedTaxRate)
}

// NewPrice builds a Price with the estimated tax filled in
func NewPrice(price decimal.Decimal, shippingCost *decimal.Decimal, hasSingleItemAvailable bool) Price {
	return Price{
		Price:                  price,
		EstimatedTax:           EstimateTax(price),
		ShippingCost:           shippingCost,
		HasSingleItemAvailable: hasSingleItemAvailable,
	}
}
