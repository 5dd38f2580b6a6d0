package walmart

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// productResponse is the product endpoint envelope
type productResponse struct {
	Product *Product `json:"product"`
}

// Product is the raw Walmart product payload
type Product struct {
	USItemID        string         `json:"usItemId"`
	ProductName     string         `json:"productName"`
	LongDescription string         `json:"longDescription"`
	UPC             string         `json:"upc"`
	Brand           string         `json:"brand"`
	Category        string         `json:"category,omitempty"`
	PrimaryImageURL string         `json:"primaryImageUrl"`
	ImageAssets     []imageAsset   `json:"imageAssets"`
	BuyingOptions   *buyingOptions `json:"buyingOptions"`
}

type imageAsset struct {
	Versions struct {
		Hero      string `json:"hero"`
		Thumbnail string `json:"thumbnail,omitempty"`
		Zoom      string `json:"zoom,omitempty"`
	} `json:"versions"`
}

type buyingOptions struct {
	Available                   bool        `json:"available"`
	Price                       *amount     `json:"price"`
	ShippingPrice               *amount     `json:"shippingPrice"`
	QuantityOptions             []int       `json:"quantityOptions"`
	EarliestPromiseDeliveryDate epochMillis `json:"earliestPromiseDeliveryDate"`
	LatestPromiseDeliveryDate   epochMillis `json:"latestPromiseDeliveryDate"`
}

type amount struct {
	CurrencyAmount decimal.Decimal `json:"currencyAmount"`
	CurrencyUnit   string          `json:"currencyUnit,omitempty"`
}

// epochMillis is a timestamp sent as milliseconds since the Unix epoch, as a number or a numeric string
type epochMillis struct {
	ms    int64
	valid bool
}

func (e *epochMillis) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = epochMillis{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		data = []byte(s)
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*e = epochMillis{ms: ms, valid: true}
	return nil
}

func (e epochMillis) MarshalJSON() ([]byte, error) {
	if !e.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(e.ms, 10)), nil
}

// Time returns the timestamp, or nil when absent
func (e epochMillis) Time() *time.Time {
	if !e.valid || e.ms <= 0 {
		return nil
	}
	t := time.UnixMilli(e.ms).UTC()
	return &t
}
