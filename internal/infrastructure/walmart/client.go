package walmart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// maxResponseSize is the maximum accepted response body (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds Walmart API configuration
type Config struct {
	APIKey          string
	BaseURL         string
	RequestsPerHour int
}

// Client looks up Walmart products
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Walmart client
func NewClient(cfg Config, log *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	limit := rate.Inf
	if cfg.RequestsPerHour > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerHour) / 3600)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config:      cfg,
		rateLimiter: rate.NewLimiter(limit, 5),
		logger:      logger.OrNop(log).Named("walmart"),
	}
}

// Merchant implements domain.MerchantAdapter
func (c *Client) Merchant() domain.Merchant {
	return domain.MerchantWalmart
}

// GetItem looks up a product by its Walmart item id and maps it to the common item schema
func (c *Client) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	product, err := c.GetProduct(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return MapToItem(product), nil
}

// GetProduct fetches the raw product payload
func (c *Client) GetProduct(ctx context.Context, itemID string) (*Product, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrInvalidRequest)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limiter: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	reqURL := fmt.Sprintf("%s/product/api/%s", c.config.BaseURL, url.PathEscape(itemID))
	if c.config.APIKey != "" {
		reqURL += "?" + url.Values{"apiKey": {c.config.APIKey}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVendorAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrVendorAPIFailure, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: Walmart returned status %d", domain.ErrRateLimited, resp.StatusCode)
	default:
		c.logger.Warn("Walmart API error", zap.Int("status", resp.StatusCode), zap.String("item_id", itemID))
		return nil, fmt.Errorf("%w: status %d", domain.ErrVendorAPIFailure, resp.StatusCode)
	}

	var result productResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrInvalidResponse, err)
	}
	if result.Product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	c.logger.Debug("fetched product", zap.String("item_id", itemID))
	return result.Product, nil
}
