package amazon

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

const (
	// maxResponseSize is the maximum accepted response body (10MB)
	maxResponseSize = 10 * 1024 * 1024

	requestPath    = "/onca/xml"
	serviceName    = "AWSECommerceService"
	apiVersion     = "2013-08-01"
	responseGroups = "ItemAttributes,Images,OfferFull,SalesRank"

	throttledCode = "RequestThrottled"
)

// notFoundCodes are the ItemLookup error codes for an ASIN that does not resolve to a product
var notFoundCodes = map[string]bool{
	"AWS.InvalidParameterValue":              true,
	"AWS.ECommerceService.ItemNotAccessible": true,
	"AWS.ECommerceService.NoExactMatches":    true,
}

// Config holds Product Advertising API credentials
type Config struct {
	AccessKey       string
	SecretKey       string
	AssociateTag    string
	Endpoint        string
	RequestsPerHour int
}

// Client looks up Amazon products through the Product Advertising API
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	now         func() time.Time
}

// NewClient creates a new Amazon client
func NewClient(cfg Config, log *zap.Logger) *Client {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	limit := rate.Inf
	if cfg.RequestsPerHour > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerHour) / 3600)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config:      cfg,
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger.OrNop(log).Named("amazon"),
		now:         time.Now,
	}
}

// Merchant implements domain.MerchantAdapter
func (c *Client) Merchant() domain.Merchant {
	return domain.MerchantAmazon
}

// GetItem looks up a product by ASIN and maps it to the common item schema
func (c *Client) GetItem(ctx context.Context, asin string) (*domain.Item, error) {
	product, err := c.ItemLookup(ctx, asin)
	if err != nil {
		return nil, err
	}
	return MapToItem(product, c.now()), nil
}

// ItemLookup fetches the raw product for an ASIN
func (c *Client) ItemLookup(ctx context.Context, asin string) (*Product, error) {
	if asin == "" {
		return nil, fmt.Errorf("%w: ASIN is required", domain.ErrInvalidRequest)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limiter: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	params := url.Values{}
	params.Set("Service", serviceName)
	params.Set("Operation", "ItemLookup")
	params.Set("AWSAccessKeyId", c.config.AccessKey)
	params.Set("AssociateTag", c.config.AssociateTag)
	params.Set("IdType", "ASIN")
	params.Set("ItemId", asin)
	params.Set("ResponseGroup", responseGroups)
	params.Set("Version", apiVersion)
	params.Set("Timestamp", c.now().UTC().Format("2006-01-02T15:04:05Z"))

	reqURL, err := c.signedURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var result itemLookupResponse
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrInvalidResponse, err)
	}

	if len(result.Items.Item) == 0 {
		for _, e := range result.Items.Request.Errors {
			if notFoundCodes[e.Code] {
				return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, asin)
			}
		}
		if len(result.Items.Request.Errors) > 0 {
			e := result.Items.Request.Errors[0]
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrVendorAPIFailure, e.Code, e.Message)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, asin)
	}

	c.logger.Debug("looked up product", zap.String("asin", asin))
	return &result.Items.Item[0], nil
}

// statusError classifies a non-200 response. Throttling arrives as a 503 with a RequestThrottled error.
func (c *Client) statusError(status int, body []byte) error {
	var errResp errorResponse
	_ = xml.Unmarshal(body, &errResp)

	for _, e := range errResp.Errors {
		if e.Code == throttledCode {
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, e.Message)
		}
	}
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: Amazon returned status %d", domain.ErrRateLimited, status)
	}

	fields := []zap.Field{zap.Int("status", status)}
	if len(errResp.Errors) > 0 {
		fields = append(fields, zap.String("code", errResp.Errors[0].Code), zap.String("message", errResp.Errors[0].Message))
	}
	c.logger.Warn("Amazon API error", fields...)
	return fmt.Errorf("%w: status %d", domain.ErrVendorAPIFailure, status)
}

// signedURL returns the request URL with its HMAC-SHA256 Signature parameter.
// The string to sign is "GET\n<host>\n<path>\n<canonical query>".
func (c *Client) signedURL(params url.Values) (string, error) {
	endpoint, err := url.Parse(c.config.Endpoint)
	if err != nil || endpoint.Host == "" {
		return "", fmt.Errorf("%w: invalid Amazon endpoint %q", domain.ErrMerchantNotConfigured, c.config.Endpoint)
	}

	query := canonicalQuery(params)
	toSign := strings.Join([]string{http.MethodGet, strings.ToLower(endpoint.Host), requestPath, query}, "\n")

	mac := hmac.New(sha256.New, []byte(c.config.SecretKey))
	mac.Write([]byte(toSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s://%s%s?%s&Signature=%s", endpoint.Scheme, endpoint.Host, requestPath, query, escape(signature)), nil
}

// canonicalQuery sorts parameters by byte order and RFC 3986 encodes them
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, escape(k)+"="+escape(params.Get(k)))
	}
	return strings.Join(pairs, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
