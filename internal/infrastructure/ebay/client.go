package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

const (
	// maxResponseSize is the maximum accepted response body (10MB)
	maxResponseSize = 10 * 1024 * 1024

	// shoppingBatchSize is the GetMultipleItems limit on item ids per call
	shoppingBatchSize = 20

	// findingPageSize is the largest page findItemsIneBayStores returns
	findingPageSize = 100

	// maxFindingPages is the Finding API pagination ceiling
	maxFindingPages = 100

	shoppingAPIVersion   = "1199"
	findingAPIVersion    = "1.13.0"
	shoppingIncludes     = "Details,Description,ItemSpecifics,Variations,ShippingCosts"
	applicationScope     = "https://api.ebay.com/oauth/api_scope"
	iafTokenHeader       = "X-EBAY-API-IAF-TOKEN"
	invalidItemErrorCode = "10.12"
)

// Config holds the eBay developer credentials and endpoints
type Config struct {
	AppID           string
	CertID          string
	SiteID          string
	FindingURL      string
	ShoppingURL     string
	TokenURL        string
	RequestsPerHour int
}

// Client handles communication with the eBay Finding and Shopping APIs
type Client struct {
	httpClient  *http.Client
	config      Config
	tokenSource oauth2.TokenSource
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new eBay API client.
// When a cert id is configured, Shopping API calls carry an application token
// obtained with the OAuth client credentials grant.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.SiteID == "" {
		cfg.SiteID = "0"
	}

	limit := rate.Inf
	if cfg.RequestsPerHour > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerHour) / 3600)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config:      cfg,
		rateLimiter: rate.NewLimiter(limit, 10),
		logger:      logger.OrNop(log).Named("ebay"),
	}

	if cfg.CertID != "" {
		oauthConfig := &clientcredentials.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.CertID,
			TokenURL:     cfg.TokenURL,
			Scopes:       []string{applicationScope},
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.tokenSource = oauthConfig.TokenSource(tokenCtx)
	}

	return c
}

// doRequest executes an HTTP GET request and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, reqURL string, header http.Header) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limiter: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVendorAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrVendorAPIFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: eBay returned status %d", domain.ErrRateLimited, resp.StatusCode)
	default:
		c.logger.Warn("eBay API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 512)),
		)
		return nil, fmt.Errorf("%w: status %d", domain.ErrVendorAPIFailure, resp.StatusCode)
	}
}

// FindItemsInStore returns every active listing of an eBay store
func (c *Client) FindItemsInStore(ctx context.Context, storeName string) ([]domain.EbayFindingItem, error) {
	if storeName == "" {
		return nil, fmt.Errorf("%w: store name is required", domain.ErrInvalidRequest)
	}

	var items []domain.EbayFindingItem
	for page := 1; page <= maxFindingPages; page++ {
		params := url.Values{}
		params.Set("OPERATION-NAME", "findItemsIneBayStores")
		params.Set("SERVICE-VERSION", findingAPIVersion)
		params.Set("SECURITY-APPNAME", c.config.AppID)
		params.Set("RESPONSE-DATA-FORMAT", "JSON")
		params.Set("storeName", storeName)
		params.Set("paginationInput.entriesPerPage", strconv.Itoa(findingPageSize))
		params.Set("paginationInput.pageNumber", strconv.Itoa(page))

		body, err := c.doRequest(ctx, c.config.FindingURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var resp findingResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrInvalidResponse, err)
		}

		result := resp.result()
		if result == nil {
			return nil, fmt.Errorf("%w: empty findItemsIneBayStores response", domain.ErrInvalidResponse)
		}
		if !result.succeeded() {
			return nil, fmt.Errorf("%w: %s", domain.ErrVendorAPIFailure, result.errorMessage())
		}

		items = append(items, result.items()...)

		if page >= result.totalPages() {
			break
		}
	}

	c.logger.Debug("found store items", zap.String("store", storeName), zap.Int("count", len(items)))
	return items, nil
}

// GetMultipleItems retrieves full item detail, including variations, for the given item ids.
// Ids are sent in batches of 20, the Shopping API maximum.
func (c *Client) GetMultipleItems(ctx context.Context, itemIDs []string) ([]domain.EbayItem, error) {
	items := make([]domain.EbayItem, 0, len(itemIDs))
	for start := 0; start < len(itemIDs); start += shoppingBatchSize {
		end := min(start+shoppingBatchSize, len(itemIDs))

		batch, err := c.getMultipleItemsBatch(ctx, itemIDs[start:end])
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}

	return items, nil
}

func (c *Client) getMultipleItemsBatch(ctx context.Context, itemIDs []string) ([]domain.EbayItem, error) {
	params := url.Values{}
	params.Set("callname", "GetMultipleItems")
	params.Set("responseencoding", "JSON")
	params.Set("appid", c.config.AppID)
	params.Set("siteid", c.config.SiteID)
	params.Set("version", shoppingAPIVersion)
	params.Set("ItemID", strings.Join(itemIDs, ","))
	params.Set("IncludeSelector", shoppingIncludes)

	header := http.Header{}
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: fetch application token: %v", domain.ErrVendorAPIFailure, err)
		}
		header.Set(iafTokenHeader, token.AccessToken)
	}

	body, err := c.doRequest(ctx, c.config.ShoppingURL+"?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}

	var resp shoppingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrInvalidResponse, err)
	}

	if resp.Ack == "Failure" {
		if len(resp.Item) == 0 && resp.hasErrorCode(invalidItemErrorCode) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, strings.Join(itemIDs, ","))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrVendorAPIFailure, resp.errorMessage())
	}

	c.logger.Debug("fetched item detail", zap.Strings("item_ids", itemIDs), zap.Int("count", len(resp.Item)))
	return resp.Item, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
