package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resale/backend/internal/domain"
)

func testConfig(baseURL string) Config {
	return Config{
		AppID:           "test-app-id",
		FindingURL:      baseURL + "/finding",
		ShoppingURL:     baseURL + "/shopping",
		TokenURL:        baseURL + "/token",
		RequestsPerHour: 0,
	}
}

const findingPageOne = `{"findItemsIneBayStoresResponse":[{
  "ack":["Success"],
  "searchResult":[{"@count":"2","item":[
    {"itemId":["111"],"title":["Denim Jacket"]},
    {"itemId":["222"],"title":["Leather Boots"]}
  ]}],
  "paginationOutput":[{"pageNumber":["1"],"totalPages":["2"]}]
}]}`

const findingPageTwo = `{"findItemsIneBayStoresResponse":[{
  "ack":["Success"],
  "searchResult":[{"@count":"1","item":[{"itemId":["333"],"title":["Wool Scarf"]}]}],
  "paginationOutput":[{"pageNumber":["2"],"totalPages":["2"]}]
}]}`

const shoppingItems = `{"Ack":"Success","Item":[{
  "ItemID":"111",
  "Title":"Denim Jacket",
  "CurrentPrice":{"Value":49.5,"CurrencyID":"USD"},
  "Quantity":3,
  "QuantitySold":1,
  "Variations":{"Variation":[
    {"SKU":"J-S","StartPrice":{"Value":49.5},"Quantity":1,"VariationSpecifics":{"NameValueList":[{"Name":"Size","Value":["S"]}]}},
    {"SKU":"J-M","StartPrice":{"Value":52.0},"Quantity":2,"VariationSpecifics":{"NameValueList":[{"Name":"Size","Value":["M"]}]}}
  ]}
}]}`

func TestNewClient(t *testing.T) {
	client := NewClient(Config{AppID: "app"}, nil)

	assert.NotNil(t, client)
	assert.Equal(t, "0", client.config.SiteID)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Nil(t, client.tokenSource, "no token source without a cert id")

	withCert := NewClient(Config{AppID: "app", CertID: "cert", TokenURL: "https://example.com/token"}, nil)
	assert.NotNil(t, withCert.tokenSource)
}

func TestFindItemsInStore_Paginates(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/finding", r.URL.Path)
		assert.Equal(t, "findItemsIneBayStores", r.URL.Query().Get("OPERATION-NAME"))
		assert.Equal(t, "test-app-id", r.URL.Query().Get("SECURITY-APPNAME"))
		assert.Equal(t, "vintage-finds", r.URL.Query().Get("storeName"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("paginationInput.pageNumber") == "1" {
			w.Write([]byte(findingPageOne))
			return
		}
		w.Write([]byte(findingPageTwo))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	items, err := client.FindItemsInStore(context.Background(), "vintage-finds")

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "111", items[0].ID())
	assert.Equal(t, "333", items[2].ID())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFindItemsInStore_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"findItemsIneBayStoresResponse":[{"ack":["Failure"],
			"errorMessage":[{"error":[{"errorId":["1"],"message":["Invalid store name"]}]}]}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	items, err := client.FindItemsInStore(context.Background(), "missing-store")

	assert.Nil(t, items)
	assert.ErrorIs(t, err, domain.ErrVendorAPIFailure)
	assert.Contains(t, err.Error(), "Invalid store name")
}

func TestFindItemsInStore_RequiresStoreName(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"), nil)

	_, err := client.FindItemsInStore(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetMultipleItems_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shopping", r.URL.Path)
		assert.Equal(t, "GetMultipleItems", r.URL.Query().Get("callname"))
		assert.Equal(t, "111", r.URL.Query().Get("ItemID"))
		assert.Contains(t, r.URL.Query().Get("IncludeSelector"), "Variations")
		assert.Empty(t, r.Header.Get(iafTokenHeader))

		w.Write([]byte(shoppingItems))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	items, err := client.GetMultipleItems(context.Background(), []string{"111"})

	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "Denim Jacket", item.Title)
	assert.True(t, item.HasVariations())
	require.Len(t, item.Variations.Variation, 2)
	assert.Equal(t, "52", item.Variations.Variation[1].StartPrice.Value.String())
}

func TestGetMultipleItems_BatchesOfTwenty(t *testing.T) {
	var batches []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ItemID"), ",")
		batches = append(batches, len(ids))
		w.Write([]byte(`{"Ack":"Success","Item":[]}`))
	}))
	defer server.Close()

	ids := make([]string, 25)
	for i := range ids {
		ids[i] = strings.Repeat("1", i+1)
	}

	client := NewClient(testConfig(server.URL), nil)
	_, err := client.GetMultipleItems(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, []int{20, 5}, batches)
}

func TestGetMultipleItems_SendsApplicationToken(t *testing.T) {
	var tokenCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			atomic.AddInt32(&tokenCalls, 1)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "test-app-id", user)
			assert.Equal(t, "test-cert-id", pass)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"app-token","token_type":"Bearer","expires_in":7200}`))
		case "/shopping":
			assert.Equal(t, "app-token", r.Header.Get(iafTokenHeader))
			w.Write([]byte(`{"Ack":"Success","Item":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CertID = "test-cert-id"
	client := NewClient(cfg, nil)

	ids := make([]string, 21)
	for i := range ids {
		ids[i] = "1"
	}
	_, err := client.GetMultipleItems(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "token should be reused across batches")
}

func TestGetMultipleItems_InvalidItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Ack":"Failure","Errors":[{"ShortMessage":"Invalid item ID.","ErrorCode":"10.12","SeverityCode":"Error"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)
	items, err := client.GetMultipleItems(context.Background(), []string{"999"})

	assert.Nil(t, items)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestGetMultipleItems_HTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, "", domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, "", domain.ErrVendorAPIFailure},
		{"invalid json", http.StatusOK, "not json", domain.ErrInvalidResponse},
		{"generic failure ack", http.StatusOK, `{"Ack":"Failure","Errors":[{"ErrorCode":"1.23","LongMessage":"Auth token is invalid."}]}`, domain.ErrVendorAPIFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), nil)
			items, err := client.GetMultipleItems(context.Background(), []string{"111"})

			assert.Nil(t, items)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "requests are never retried")
		})
	}
}

func TestGetMultipleItems_NoIDs(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"), nil)

	items, err := client.GetMultipleItems(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFindItemsInStore_RateLimited(t *testing.T) {
	client := NewClient(Config{AppID: "app", FindingURL: "http://127.0.0.1:1", RequestsPerHour: 1}, nil)
	for client.rateLimiter.Allow() {
	}

	t.Run("wait past the deadline is rate limited", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := client.FindItemsInStore(ctx, "vintage-finds")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("cancelled context is reported as such", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.FindItemsInStore(ctx, "vintage-finds")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrRateLimited)
	})
}
