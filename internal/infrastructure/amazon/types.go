package amazon

import "encoding/xml"

// itemLookupResponse is the Product Advertising API ItemLookup envelope
type itemLookupResponse struct {
	XMLName xml.Name `xml:"ItemLookupResponse"`
	Items   struct {
		Request struct {
			IsValid string     `xml:"IsValid"`
			Errors  []apiError `xml:"Errors>Error"`
		} `xml:"Request"`
		Item []Product `xml:"Item"`
	} `xml:"Items"`
}

// errorResponse is returned instead of ItemLookupResponse for signature, throttling and credential failures
type errorResponse struct {
	XMLName xml.Name   `xml:"ItemLookupErrorResponse"`
	Errors  []apiError `xml:"Error"`
}

type apiError struct {
	Code    string `xml:"Code" json:"code"`
	Message string `xml:"Message" json:"message"`
}

// Product is a single ItemLookup result with the ItemAttributes, Images, OfferFull and SalesRank groups
type Product struct {
	ASIN           string         `xml:"ASIN" json:"asin"`
	DetailPageURL  string         `xml:"DetailPageURL" json:"detailPageUrl,omitempty"`
	SalesRank      string         `xml:"SalesRank" json:"salesRank,omitempty"`
	LargeImage     *image         `xml:"LargeImage" json:"largeImage,omitempty"`
	ImageSets      []imageSet     `xml:"ImageSets>ImageSet" json:"imageSets,omitempty"`
	ItemAttributes itemAttributes `xml:"ItemAttributes" json:"itemAttributes"`
	Offers         []offer        `xml:"Offers>Offer" json:"offers,omitempty"`
}

type image struct {
	URL    string `xml:"URL" json:"url"`
	Height int    `xml:"Height" json:"height,omitempty"`
	Width  int    `xml:"Width" json:"width,omitempty"`
}

type imageSet struct {
	Category   string `xml:"Category,attr" json:"category,omitempty"`
	LargeImage *image `xml:"LargeImage" json:"largeImage,omitempty"`
}

type itemAttributes struct {
	Title        string   `xml:"Title" json:"title"`
	Brand        string   `xml:"Brand" json:"brand,omitempty"`
	UPC          string   `xml:"UPC" json:"upc,omitempty"`
	EAN          string   `xml:"EAN" json:"ean,omitempty"`
	Feature      []string `xml:"Feature" json:"feature,omitempty"`
	ProductGroup string   `xml:"ProductGroup" json:"productGroup,omitempty"`
	ListPrice    *money   `xml:"ListPrice" json:"listPrice,omitempty"`
}

// money amounts are integer minor units (cents)
type money struct {
	Amount         string `xml:"Amount" json:"amount"`
	CurrencyCode   string `xml:"CurrencyCode" json:"currencyCode"`
	FormattedPrice string `xml:"FormattedPrice" json:"formattedPrice,omitempty"`
}

type offer struct {
	OfferListing []offerListing `xml:"OfferListing" json:"offerListing"`
}

type offerListing struct {
	OfferListingID         string `xml:"OfferListingId" json:"offerListingId,omitempty"`
	Price                  *money `xml:"Price" json:"price,omitempty"`
	AvailabilityAttributes struct {
		AvailabilityType string `xml:"AvailabilityType" json:"availabilityType"`
	} `xml:"AvailabilityAttributes" json:"availabilityAttributes"`
	IsEligibleForPrime string `xml:"IsEligibleForPrime" json:"isEligibleForPrime"`
}

// firstListing returns the first offer listing, if any
func (p *Product) firstListing() *offerListing {
	for i := range p.Offers {
		if len(p.Offers[i].OfferListing) > 0 {
			return &p.Offers[i].OfferListing[0]
		}
	}
	return nil
}
