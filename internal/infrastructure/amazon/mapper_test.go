package amazon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resale/backend/internal/domain"
)

func testProduct() *Product {
	p := &Product{
		ASIN:       "B00X4WHP5E",
		LargeImage: &image{URL: "https://img/large.jpg"},
		ImageSets: []imageSet{
			{LargeImage: &image{URL: "https://img/1.jpg"}},
			{LargeImage: &image{URL: "https://img/2.jpg"}},
		},
		ItemAttributes: itemAttributes{
			Title:        "Acme Kettle",
			Brand:        "Acme",
			UPC:          "012345678905",
			EAN:          "0012345678905",
			Feature:      []string{"Stainless steel", "Dishwasher safe"},
			ProductGroup: "Kitchen",
			ListPrice:    &money{Amount: "1999", CurrencyCode: "USD"},
		},
	}
	listing := offerListing{IsEligibleForPrime: "1"}
	listing.AvailabilityAttributes.AvailabilityType = "now"
	p.Offers = []offer{{OfferListing: []offerListing{listing}}}
	return p
}

func TestMapToItem(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	item := MapToItem(testProduct(), now)

	assert.Equal(t, "Amazon", item.MerchantName)
	assert.Equal(t, "B00X4WHP5E", item.MerchantID)
	assert.Equal(t, "https://img/large.jpg", item.Image.Gallery)
	assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, item.Image.Images)
	assert.Equal(t, "Acme Kettle", item.Specifics.Title)
	assert.Equal(t, "Stainless steel;Dishwasher safe", item.Specifics.Description)
	assert.Equal(t, "Kitchen", item.Specifics.Category)
	assert.Empty(t, item.Specifics.Variation)
	assert.Equal(t, []domain.Specific{
		{Name: "UPC", Value: "012345678905"},
		{Name: "EAN", Value: "0012345678905"},
		{Name: "Brand", Value: "Acme"},
	}, item.Specifics.Specifics)
	assert.True(t, item.Specifics.IsAvailable)
	assert.True(t, item.Price.HasSingleItemAvailable)
	assert.NotEmpty(t, item.Raw)
}

func TestMapToItem_PriceFromCents(t *testing.T) {
	item := MapToItem(testProduct(), time.Now())

	assert.True(t, decimal.RequireFromString("19.99").Equal(item.Price.Price), "got %s", item.Price.Price)
	assert.True(t, decimal.RequireFromString("1.689155").Equal(item.Price.EstimatedTax), "got %s", item.Price.EstimatedTax)
}

func TestMapToItem_FallsBackToOfferPrice(t *testing.T) {
	p := testProduct()
	p.ItemAttributes.ListPrice = nil
	p.Offers[0].OfferListing[0].Price = &money{Amount: "1250"}

	item := MapToItem(p, time.Now())

	assert.Equal(t, "12.5", item.Price.Price.String())
}

func TestMapToItem_Prime(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	t.Run("prime eligible ships free in two days", func(t *testing.T) {
		item := MapToItem(testProduct(), now)

		require.NotNil(t, item.Shipping.Cost)
		assert.True(t, item.Shipping.Cost.IsZero())
		require.NotNil(t, item.Price.ShippingCost)
		assert.True(t, item.Price.ShippingCost.IsZero())
		want := time.Date(2024, 3, 17, 9, 30, 0, 0, time.UTC)
		require.NotNil(t, item.Shipping.MinDeliveryDate)
		require.NotNil(t, item.Shipping.MaxDeliveryDate)
		assert.Equal(t, want, *item.Shipping.MinDeliveryDate)
		assert.Equal(t, want, *item.Shipping.MaxDeliveryDate)
	})

	t.Run("non prime leaves shipping unknown", func(t *testing.T) {
		p := testProduct()
		p.Offers[0].OfferListing[0].IsEligibleForPrime = "0"

		item := MapToItem(p, now)

		assert.Nil(t, item.Shipping.Cost)
		assert.Nil(t, item.Price.ShippingCost)
		assert.Nil(t, item.Shipping.MinDeliveryDate)
		assert.Nil(t, item.Shipping.MaxDeliveryDate)
	})
}

func TestMapToItem_SparseProduct(t *testing.T) {
	p := &Product{
		ASIN:      "B000000001",
		ImageSets: []imageSet{{LargeImage: &image{URL: "https://img/only.jpg"}}},
		ItemAttributes: itemAttributes{
			Title: "Bare",
		},
	}

	item := MapToItem(p, time.Now())

	assert.Equal(t, "https://img/only.jpg", item.Image.Gallery)
	assert.Empty(t, item.Specifics.Specifics)
	assert.False(t, item.Specifics.IsAvailable)
	assert.False(t, item.Price.HasSingleItemAvailable)
	assert.True(t, item.Price.Price.IsZero())
	assert.Nil(t, item.Shipping.Cost)
}
