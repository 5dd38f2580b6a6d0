package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// merchantPattern recognizes one marketplace's product URLs
type merchantPattern struct {
	merchant domain.Merchant
	host     *regexp.Regexp
	itemID   *regexp.Regexp // first capture group is the vendor item id
}

// Package-level compiled patterns, checked in order
var merchantPatterns = []merchantPattern{
	{
		merchant: domain.MerchantAmazon,
		host:     regexp.MustCompile(`(?i)(^|\.)amazon\.(com|co\.[a-z]{2}|com\.[a-z]{2}|[a-z]{2,3})$`),
		itemID:   regexp.MustCompile(`/(?:dp|gp/product|gp/aw/d|exec/obidos/ASIN|o/ASIN)/([A-Z0-9]{10})(?:[/?]|$)`),
	},
	{
		merchant: domain.MerchantWalmart,
		host:     regexp.MustCompile(`(?i)(^|\.)walmart\.com$`),
		itemID:   regexp.MustCompile(`/(\d{8,})(?:/|$)`),
	},
	{
		merchant: domain.MerchantSears,
		host:     regexp.MustCompile(`(?i)(^|\.)sears\.com$`),
		itemID:   regexp.MustCompile(`/p-([A-Za-z0-9]+)(?:/|$)`),
	},
}

// MerchantService picks the marketplace adapter for a product URL and delegates the lookup
type MerchantService struct {
	adapters map[domain.Merchant]domain.MerchantAdapter
	logger   *zap.Logger
}

// NewMerchantService creates a dispatcher over the given adapters
func NewMerchantService(log *zap.Logger, adapters ...domain.MerchantAdapter) *MerchantService {
	byMerchant := make(map[domain.Merchant]domain.MerchantAdapter, len(adapters))
	for _, a := range adapters {
		byMerchant[a.Merchant()] = a
	}
	return &MerchantService{
		adapters: byMerchant,
		logger:   logger.OrNop(log).Named("merchant_service"),
	}
}

// ResolveURL identifies the marketplace and vendor item id of a product URL
func ResolveURL(rawURL string) (domain.Merchant, string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", "", fmt.Errorf("%w: cannot parse %q", domain.ErrUnknownMerchant, rawURL)
	}

	host := u.Hostname()
	for _, p := range merchantPatterns {
		if !p.host.MatchString(host) {
			continue
		}
		m := p.itemID.FindStringSubmatch(u.EscapedPath())
		if m == nil {
			return "", "", fmt.Errorf("%w: no %s item id in %q", domain.ErrUnknownMerchant, p.merchant, rawURL)
		}
		return p.merchant, m[1], nil
	}

	return "", "", fmt.Errorf("%w: %s", domain.ErrUnknownMerchant, host)
}

// GenerateMerchantID builds the aggregator id of a dispatched item: "<merchant>-<vendorId>"
func GenerateMerchantID(merchantName, merchantID string) string {
	return strings.ToLower(merchantName) + "-" + merchantID
}

// GetItem looks up the product behind a marketplace URL
func (s *MerchantService) GetItem(ctx context.Context, rawURL string) (*domain.Item, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}

	merchant, id, err := ResolveURL(rawURL)
	if err != nil {
		s.logger.Debug("unresolved merchant url", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	return s.lookup(ctx, merchant, id)
}

// GetItemByMerchant looks up a product by marketplace name and vendor item id
func (s *MerchantService) GetItemByMerchant(ctx context.Context, merchantName, merchantID string) (*domain.Item, error) {
	merchant, err := ParseMerchant(merchantName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(merchantID) == "" {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrInvalidRequest)
	}

	return s.lookup(ctx, merchant, merchantID)
}

// Merchants lists the marketplaces that have an adapter
func (s *MerchantService) Merchants() []domain.Merchant {
	merchants := make([]domain.Merchant, 0, len(s.adapters))
	for _, p := range merchantPatterns {
		if _, ok := s.adapters[p.merchant]; ok {
			merchants = append(merchants, p.merchant)
		}
	}
	return merchants
}

func (s *MerchantService) lookup(ctx context.Context, merchant domain.Merchant, id string) (*domain.Item, error) {
	adapter, ok := s.adapters[merchant]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not configured", domain.ErrUnknownMerchant, merchant)
	}

	item, err := adapter.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.MerchantID == "" {
		item.MerchantID = id
	}
	item.ID = GenerateMerchantID(merchant.String(), item.MerchantID)
	s.logger.Debug("dispatched item lookup",
		zap.String("merchant", merchant.String()),
		zap.String("merchant_id", item.MerchantID),
	)
	return item, nil
}

// ParseMerchant accepts only marketplaces reachable through the dispatcher
func ParseMerchant(name string) (domain.Merchant, error) {
	merchant, err := domain.ParseMerchant(name)
	if err != nil {
		return "", err
	}
	for _, p := range merchantPatterns {
		if p.merchant == merchant {
			return merchant, nil
		}
	}
	return "", fmt.Errorf("%w: %s items are fetched through the eBay service", domain.ErrUnknownMerchant, merchant)
}
