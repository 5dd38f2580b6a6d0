package domain

import "github.com/shopspring/decimal"

// EbayItem represents an item from the eBay Shopping API GetMultipleItems call
type EbayItem struct {
	ItemID                      string                   `json:"ItemID"`
	Title                       string                   `json:"Title"`
	Description                 string                   `json:"Description,omitempty"`
	ListingStatus               string                   `json:"ListingStatus,omitempty"`
	ViewItemURLForNaturalSearch string                   `json:"ViewItemURLForNaturalSearch,omitempty"`
	GalleryURL                  string                   `json:"GalleryURL,omitempty"`
	PictureURL                  []string                 `json:"PictureURL,omitempty"`
	PrimaryCategoryName         string                   `json:"PrimaryCategoryName,omitempty"`
	CurrentPrice                EbayAmount               `json:"CurrentPrice"`
	Quantity                    int                      `json:"Quantity"`
	QuantitySold                int                      `json:"QuantitySold"`
	HandlingTime                int                      `json:"HandlingTime,omitempty"`
	ShippingCostSummary         *EbayShippingCostSummary `json:"ShippingCostSummary,omitempty"`
	ItemSpecifics               *EbayNameValueList       `json:"ItemSpecifics,omitempty"`
	Variations                  *EbayVariations          `json:"Variations,omitempty"`
}

// EbayAmount is a monetary value with its currency
type EbayAmount struct {
	Value      decimal.Decimal `json:"Value"`
	CurrencyID string          `json:"CurrencyID,omitempty"`
}

// EbayShippingCostSummary holds the cheapest shipping option for an item
type EbayShippingCostSummary struct {
	ShippingServiceCost *EbayAmount `json:"ShippingServiceCost,omitempty"`
	ShippingType        string      `json:"ShippingType,omitempty"`
}

// EbayNameValueList is eBay's generic attribute container
type EbayNameValueList struct {
	NameValueList []EbayNameValue `json:"NameValueList"`
}

// EbayNameValue is a single attribute; eBay allows several values per name
type EbayNameValue struct {
	Name  string   `json:"Name"`
	Value []string `json:"Value"`
}

// EbayVariations holds the size/color variations of a multi-variation listing
type EbayVariations struct {
	Variation []EbayVariation         `json:"Variation"`
	Pictures  []EbayVariationPictures `json:"Pictures,omitempty"`
}

// EbayVariation is one purchasable variation of a listing
type EbayVariation struct {
	SKU                string             `json:"SKU,omitempty"`
	StartPrice         EbayAmount         `json:"StartPrice"`
	Quantity           int                `json:"Quantity"`
	VariationSpecifics EbayNameValueList  `json:"VariationSpecifics"`
	SellingStatus      *EbaySellingStatus `json:"SellingStatus,omitempty"`
}

// EbaySellingStatus holds the sales counters of a variation
type EbaySellingStatus struct {
	QuantitySold int `json:"QuantitySold"`
}

// EbayVariationPictures maps variation specific values (e.g. a color) to pictures
type EbayVariationPictures struct {
	VariationSpecificName       string                    `json:"VariationSpecificName"`
	VariationSpecificPictureSet []EbayVariationPictureSet `json:"VariationSpecificPictureSet"`
}

// EbayVariationPictureSet lists the pictures of one variation specific value
type EbayVariationPictureSet struct {
	VariationSpecificValue string   `json:"VariationSpecificValue"`
	PictureURL             []string `json:"PictureURL"`
}

// HasVariations reports whether the item carries at least one variation
func (i *EbayItem) HasVariations() bool {
	return i.Variations != nil && len(i.Variations.Variation) > 0
}

// EbayListing is a single logical item: an eBay item narrowed to at most one variation.
// Variation is nil for items listed without variations.
type EbayListing struct {
	Item      EbayItem       `json:"item"`
	Variation *EbayVariation `json:"variation,omitempty"`
}

// EbayFindingItem represents a store item from the eBay Finding API.
// The Finding API JSON encoding wraps every value in an array.
type EbayFindingItem struct {
	ItemID        []string                   `json:"itemId"`
	Title         []string                   `json:"title,omitempty"`
	GlobalID      []string                   `json:"globalId,omitempty"`
	ViewItemURL   []string                   `json:"viewItemURL,omitempty"`
	GalleryURL    []string                   `json:"galleryURL,omitempty"`
	SellingStatus []EbayFindingSellingStatus `json:"sellingStatus,omitempty"`
}

// EbayFindingSellingStatus is the selling state reported by the Finding API
type EbayFindingSellingStatus struct {
	CurrentPrice []EbayFindingAmount `json:"currentPrice,omitempty"`
	SellingState []string            `json:"sellingState,omitempty"`
}

// EbayFindingAmount is the Finding API money representation
type EbayFindingAmount struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

// ID returns the item id of a Finding API item, or "" when absent
func (f *EbayFindingItem) ID() string {
	if len(f.ItemID) == 0 {
		return ""
	}
	return f.ItemID[0]
}
