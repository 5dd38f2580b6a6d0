package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resale/backend/config"
	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockEbayService is a mock implementation of EbayService
type mockEbayService struct {
	items      []domain.Item
	err        error
	requestIDs []string
}

func (m *mockEbayService) GetListings(ctx context.Context) ([]domain.Item, error) {
	return m.items, m.err
}

func (m *mockEbayService) GetItem(ctx context.Context, itemID string) ([]domain.Item, error) {
	m.requestIDs = []string{itemID}
	return m.items, m.err
}

func (m *mockEbayService) GetItems(ctx context.Context, itemIDs []string) ([]domain.Item, error) {
	m.requestIDs = itemIDs
	return m.items, m.err
}

func (m *mockEbayService) GetVariation(ctx context.Context, id string) (*domain.Item, error) {
	m.requestIDs = []string{id}
	if m.err != nil {
		return nil, m.err
	}
	return &m.items[0], nil
}

// mockMerchantService is a mock implementation of MerchantService
type mockMerchantService struct {
	item      *domain.Item
	err       error
	lastURL   string
	lastName  string
	lastID    string
	merchants []domain.Merchant
}

func (m *mockMerchantService) GetItem(ctx context.Context, rawURL string) (*domain.Item, error) {
	m.lastURL = rawURL
	return m.item, m.err
}

func (m *mockMerchantService) GetItemByMerchant(ctx context.Context, merchantName, merchantID string) (*domain.Item, error) {
	m.lastName, m.lastID = merchantName, merchantID
	return m.item, m.err
}

func (m *mockMerchantService) Merchants() []domain.Merchant {
	return m.merchants
}

func testItem(id string) domain.Item {
	return domain.Item{
		ID:           id,
		MerchantName: "eBay",
		MerchantID:   "100",
		Price:        domain.NewPrice(decimal.NewFromInt(10), nil, true),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

// setupTestRouter creates a test router; nil services exercise the not configured path
func setupTestRouter(ebay EbayService, merchants MerchantService) *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(ebay, merchants), nil)
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status with merchants", func(t *testing.T) {
		router := setupTestRouter(&mockEbayService{}, &mockMerchantService{
			merchants: []domain.Merchant{domain.MerchantAmazon, domain.MerchantWalmart},
		})

		w := doGet(router, "/health")

		require.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "resale-backend", response["service"])
		assert.Equal(t, []interface{}{"ebay", "amazon", "walmart"}, response["merchants"])
		assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(nil, nil)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestEbayEndpoints(t *testing.T) {
	t.Run("listings", func(t *testing.T) {
		svc := &mockEbayService{items: []domain.Item{testItem("100-0"), testItem("200-0")}}
		router := setupTestRouter(svc, nil)

		w := doGet(router, "/api/v1/ebay/listings")

		require.Equal(t, http.StatusOK, w.Code)
		var response ItemsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
		assert.Equal(t, "100-0", response.Items[0].ID)
	})

	t.Run("empty listings encode as an empty array", func(t *testing.T) {
		router := setupTestRouter(&mockEbayService{}, nil)

		w := doGet(router, "/api/v1/ebay/listings")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"count":0}`, w.Body.String())
	})

	t.Run("batch items split comma separated ids", func(t *testing.T) {
		svc := &mockEbayService{items: []domain.Item{testItem("1-0")}}
		router := setupTestRouter(svc, nil)

		w := doGet(router, "/api/v1/ebay/items?ids=1,%202&ids=3")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"1", "2", "3"}, svc.requestIDs)
	})

	t.Run("batch items require ids", func(t *testing.T) {
		router := setupTestRouter(&mockEbayService{}, nil)

		w := doGet(router, "/api/v1/ebay/items")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("single item", func(t *testing.T) {
		svc := &mockEbayService{items: []domain.Item{testItem("100-abc"), testItem("100-def")}}
		router := setupTestRouter(svc, nil)

		w := doGet(router, "/api/v1/ebay/items/100")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"100"}, svc.requestIDs)
	})

	t.Run("variation", func(t *testing.T) {
		svc := &mockEbayService{items: []domain.Item{testItem("100-abc")}}
		router := setupTestRouter(svc, nil)

		w := doGet(router, "/api/v1/ebay/variations/100-abc")

		require.Equal(t, http.StatusOK, w.Code)
		var item domain.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		assert.Equal(t, "100-abc", item.ID)
	})

	t.Run("variation not found", func(t *testing.T) {
		svc := &mockEbayService{err: fmt.Errorf("%w: 100-zzz", domain.ErrVariationNotFound)}
		router := setupTestRouter(svc, nil)

		w := doGet(router, "/api/v1/ebay/variations/100-zzz")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "variation not found")
	})

	t.Run("not configured", func(t *testing.T) {
		router := setupTestRouter(nil, nil)

		w := doGet(router, "/api/v1/ebay/listings")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestMerchantEndpoints(t *testing.T) {
	walmartItem := &domain.Item{ID: "walmart-12345678", MerchantName: "Walmart", MerchantID: "12345678"}

	t.Run("item by url", func(t *testing.T) {
		svc := &mockMerchantService{item: walmartItem}
		router := setupTestRouter(nil, svc)

		w := doGet(router, "/api/v1/merchant/item?url=https%3A%2F%2Fwww.walmart.com%2Fip%2F12345678")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://www.walmart.com/ip/12345678", svc.lastURL)
		var item domain.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		assert.Equal(t, "walmart-12345678", item.ID)
	})

	t.Run("unknown merchant", func(t *testing.T) {
		svc := &mockMerchantService{err: fmt.Errorf("%w: www.example.com", domain.ErrUnknownMerchant)}
		router := setupTestRouter(nil, svc)

		w := doGet(router, "/api/v1/merchant/item?url=https%3A%2F%2Fwww.example.com%2Fx")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "unknown merchant")
	})

	t.Run("url required", func(t *testing.T) {
		router := setupTestRouter(nil, &mockMerchantService{})

		w := doGet(router, "/api/v1/merchant/item")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lookup by merchant and id", func(t *testing.T) {
		svc := &mockMerchantService{item: walmartItem}
		router := setupTestRouter(nil, svc)

		w := doGet(router, "/api/v1/merchant/walmart/items/12345678")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "walmart", svc.lastName)
		assert.Equal(t, "12345678", svc.lastID)
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidRequest, http.StatusBadRequest},
		{domain.ErrUnknownMerchant, http.StatusUnprocessableEntity},
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrVariationNotFound, http.StatusNotFound},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrVendorAPIFailure, http.StatusBadGateway},
		{domain.ErrInvalidResponse, http.StatusBadGateway},
		{domain.ErrMerchantNotConfigured, http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", domain.ErrRateLimited), http.StatusTooManyRequests},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("rate limiter: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(&mockEbayService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ebay/listings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(nil, nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := doGet(router, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJSONResponses(t *testing.T) {
	router := setupTestRouter(&mockEbayService{}, &mockMerchantService{})

	for _, path := range []string{"/health", "/api/v1/ebay/listings", "/api/v1/merchant/item"} {
		t.Run(path, func(t *testing.T) {
			w := doGet(router, path)

			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		})
	}
}
