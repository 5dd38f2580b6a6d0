package sears

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/resale/backend/internal/domain"
)

const (
	sourceJSONLD    = "json-ld"
	sourceOpenGraph = "open-graph"
)

// ParseProduct extracts product data from a product page.
// The schema.org Product JSON-LD block is preferred; Open Graph meta tags fill any gaps.
func ParseProduct(doc *goquery.Document, partNumber string) (*Product, error) {
	p := &Product{PartNumber: partNumber, Images: []string{}}

	if ld := findLDProduct(doc); ld != nil {
		applyLD(p, ld)
		p.Source = sourceJSONLD
	}
	if applyOpenGraph(p, doc) && p.Source == "" {
		p.Source = sourceOpenGraph
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: no product data on page for %s", domain.ErrInvalidResponse, partNumber)
	}
	return p, nil
}

func findLDProduct(doc *goquery.Document) *ldProduct {
	var found *ldProduct
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, node := range ldNodes([]byte(s.Text())) {
			var p ldProduct
			if err := json.Unmarshal(node, &p); err != nil {
				continue
			}
			if p.isProduct() {
				found = &p
				return false
			}
		}
		return true
	})
	return found
}

// ldNodes flattens a JSON-LD block into its top-level nodes, expanding lists and @graph
func ldNodes(data []byte) []json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil
		}
		return list
	}

	var graph struct {
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil
	}
	return append([]json.RawMessage{data}, graph.Graph...)
}

func applyLD(p *Product, ld *ldProduct) {
	p.Name = strings.TrimSpace(ld.Name)
	p.Description = strings.TrimSpace(ld.Description)
	p.Category = string(ld.Category)
	p.Brand = string(ld.Brand)
	p.SKU = string(ld.SKU)
	p.MPN = string(ld.MPN)
	p.GTIN = ld.gtin()
	p.Images = appendUnique(p.Images, ld.Image...)

	for _, o := range ld.Offers {
		price := o.Price.value
		if price == nil {
			price = o.LowPrice.value
		}
		if price == nil {
			continue
		}
		p.Price = price
		p.Currency = o.PriceCurrency
		p.Availability = o.Availability
		if o.ShippingDetails != nil {
			p.ShippingCost = o.ShippingDetails.ShippingRate.Value.value
		}
		break
	}
}

// applyOpenGraph fills empty fields from og: and product: meta tags and reports whether any were used
func applyOpenGraph(p *Product, doc *goquery.Document) bool {
	used := false
	fill := func(field *string, value string) {
		if *field == "" && value != "" {
			*field = value
			used = true
		}
	}

	fill(&p.Name, meta(doc, "og:title"))
	fill(&p.Description, meta(doc, "og:description"))
	if p.Description == "" {
		fill(&p.Description, metaName(doc, "description"))
	}
	fill(&p.Brand, meta(doc, "product:brand"))
	fill(&p.Availability, meta(doc, "product:availability"))

	if len(p.Images) == 0 {
		doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok && content != "" {
				p.Images = appendUnique(p.Images, content)
				used = true
			}
		})
	}

	if p.Price == nil {
		if amount, err := decimal.NewFromString(meta(doc, "product:price:amount")); err == nil {
			p.Price = &amount
			fill(&p.Currency, meta(doc, "product:price:currency"))
			used = true
		}
	}

	return used
}

func meta(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}

func metaName(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First().Attr("content")
	return strings.TrimSpace(content)
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range list {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, v)
		}
	}
	return list
}
