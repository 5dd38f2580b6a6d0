package sears

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

const (
	// maxPageSize is the maximum accepted product page (10MB)
	maxPageSize = 10 * 1024 * 1024

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds Sears storefront configuration
type Config struct {
	BaseURL         string
	RequestsPerHour int
}

// Client reads Sears product pages
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Sears client
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
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger.OrNop(log).Named("sears"),
	}
}

// Merchant implements domain.MerchantAdapter
func (c *Client) Merchant() domain.Merchant {
	return domain.MerchantSears
}

// GetItem reads the product page of a part number and maps it to the common item schema
func (c *Client) GetItem(ctx context.Context, partNumber string) (*domain.Item, error) {
	product, err := c.GetProduct(ctx, partNumber)
	if err != nil {
		return nil, err
	}
	return MapToItem(product), nil
}

// GetProduct fetches and parses the product page of a part number
func (c *Client) GetProduct(ctx context.Context, partNumber string) (*Product, error) {
	if partNumber == "" {
		return nil, fmt.Errorf("%w: part number is required", domain.ErrInvalidRequest)
	}

	doc, err := c.fetchPage(ctx, fmt.Sprintf("%s/p-%s", c.config.BaseURL, url.PathEscape(partNumber)))
	if err != nil {
		return nil, err
	}

	product, err := ParseProduct(doc, partNumber)
	if err != nil {
		c.logger.Warn("unparsable product page", zap.String("part_number", partNumber), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("parsed product page", zap.String("part_number", partNumber), zap.String("source", product.Source))
	return product, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limiter: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVendorAPIFailure, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, pageURL)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: Sears returned status %d", domain.ErrRateLimited, resp.StatusCode)
	default:
		c.logger.Warn("Sears page error", zap.Int("status", resp.StatusCode), zap.String("url", pageURL))
		return nil, fmt.Errorf("%w: status %d", domain.ErrVendorAPIFailure, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", domain.ErrInvalidResponse, err)
	}
	return doc, nil
}
