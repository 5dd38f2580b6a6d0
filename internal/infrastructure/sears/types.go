package sears

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the product data recovered from a Sears product page
type Product struct {
	PartNumber   string           `json:"partNumber"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category,omitempty"`
	Brand        string           `json:"brand,omitempty"`
	SKU          string           `json:"sku,omitempty"`
	MPN          string           `json:"mpn,omitempty"`
	GTIN         string           `json:"gtin,omitempty"`
	Images       []string         `json:"images"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     string           `json:"currency,omitempty"`
	Availability string           `json:"availability,omitempty"`
	ShippingCost *decimal.Decimal `json:"shippingCost,omitempty"`
	Source       string           `json:"source"`
}

// ldProduct is a schema.org Product node of a JSON-LD block
type ldProduct struct {
	Type        ldList   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SKU         ldText   `json:"sku"`
	MPN         ldText   `json:"mpn"`
	GTIN        ldText   `json:"gtin"`
	GTIN12      ldText   `json:"gtin12"`
	GTIN13      ldText   `json:"gtin13"`
	Category    ldName   `json:"category"`
	Brand       ldName   `json:"brand"`
	Image       ldList   `json:"image"`
	Offers      ldOffers `json:"offers"`
}

func (p ldProduct) isProduct() bool {
	for _, t := range p.Type {
		if t == "Product" || strings.HasSuffix(t, "/Product") {
			return true
		}
	}
	return false
}

func (p ldProduct) gtin() string {
	for _, g := range []ldText{p.GTIN, p.GTIN12, p.GTIN13} {
		if g != "" {
			return string(g)
		}
	}
	return ""
}

type ldOffer struct {
	Price           ldNumber `json:"price"`
	LowPrice        ldNumber `json:"lowPrice"`
	PriceCurrency   string   `json:"priceCurrency"`
	Availability    string   `json:"availability"`
	ShippingDetails *struct {
		ShippingRate struct {
			Value ldNumber `json:"value"`
		} `json:"shippingRate"`
	} `json:"shippingDetails"`
}

// ldOffers accepts a single Offer, an AggregateOffer or a list of offers
type ldOffers []ldOffer

func (o *ldOffers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []ldOffer
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*o = list
		return nil
	}
	var single ldOffer
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*o = ldOffers{single}
	return nil
}

// ldList accepts a string, a list of strings, or objects carrying a url or name
type ldList []string

func (l *ldList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var raws []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return err
		}
	} else {
		raws = []json.RawMessage{data}
	}

	var result ldList
	for _, raw := range raws {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				result = append(result, s)
			}
			continue
		}
		var obj struct {
			URL  string `json:"url"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			if obj.URL != "" {
				result = append(result, obj.URL)
			} else if obj.Name != "" {
				result = append(result, obj.Name)
			}
		}
	}
	*l = result
	return nil
}

// ldName accepts a string or a Thing with a name, such as a Brand
type ldName string

func (n *ldName) UnmarshalJSON(data []byte) error {
	var list ldList
	if err := list.UnmarshalJSON(data); err != nil {
		return err
	}
	if len(list) > 0 {
		*n = ldName(list[0])
	}
	return nil
}

// ldText accepts a string or a bare number, as identifiers like sku and gtin13 come either way
type ldText string

func (t *ldText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ldText(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = ldText(n.String())
	}
	return nil
}

// ldNumber accepts a JSON number or numeric string; anything else leaves it unset
type ldNumber struct {
	value *decimal.Decimal
}

func (n *ldNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil {
		n.value = &d
	}
	return nil
}
