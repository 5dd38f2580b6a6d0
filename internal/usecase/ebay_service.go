package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/ebay"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// EbayServiceConfig holds configuration for the eBay service
type EbayServiceConfig struct {
	StoreName string
}

// EbayService fetches eBay listings and normalizes them, one item per variation
type EbayService struct {
	client    domain.EbayClient
	storeName string
	logger    *zap.Logger
}

// NewEbayService creates a new eBay service
func NewEbayService(client domain.EbayClient, config EbayServiceConfig, log *zap.Logger) *EbayService {
	return &EbayService{
		client:    client,
		storeName: config.StoreName,
		logger:    logger.OrNop(log).Named("ebay_service"),
	}
}

// storeListing pairs a store search result with its full item detail
type storeListing struct {
	finding  domain.EbayFindingItem
	shopping domain.EbayItem
}

// GetListings returns the current store listings.
// Flow: store search -> item detail per id -> dedupe by item id -> explode variations -> map
func (s *EbayService) GetListings(ctx context.Context) ([]domain.Item, error) {
	if s.storeName == "" {
		return nil, fmt.Errorf("%w: eBay store name", domain.ErrMerchantNotConfigured)
	}

	found, err := s.client.FindItemsInStore(ctx, s.storeName)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found))
	for _, f := range found {
		if id := f.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}

	details, err := s.client.GetMultipleItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.EbayItem, len(details))
	for _, d := range details {
		byID[d.ItemID] = d
	}

	listings := make([]storeListing, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, f := range found {
		detail, ok := byID[f.ID()]
		if !ok {
			s.logger.Warn("no item detail for store listing", zap.String("item_id", f.ID()))
			continue
		}
		if seen[detail.ItemID] {
			continue
		}
		seen[detail.ItemID] = true
		listings = append(listings, storeListing{finding: f, shopping: detail})
	}

	items := make([]domain.Item, 0, len(listings))
	for _, l := range listings {
		finding := l.finding
		items = append(items, explodeAndMap(l.shopping, &finding)...)
	}

	s.logger.Info("fetched store listings",
		zap.String("store", s.storeName),
		zap.Int("listings", len(listings)),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// GetItem returns a single eBay item, one record per variation
func (s *EbayService) GetItem(ctx context.Context, itemID string) ([]domain.Item, error) {
	return s.GetItems(ctx, []string{itemID})
}

// GetItems returns the given eBay items, one record per variation
func (s *EbayService) GetItems(ctx context.Context, itemIDs []string) ([]domain.Item, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one item id is required", domain.ErrInvalidRequest)
	}
	for _, id := range itemIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty item id", domain.ErrInvalidRequest)
		}
	}

	details, err := s.client.GetMultipleItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(details))
	for _, d := range details {
		items = append(items, explodeAndMap(d, nil)...)
	}
	return items, nil
}

// GetVariation resolves an id produced by GenerateID back to its single record
func (s *EbayService) GetVariation(ctx context.Context, id string) (*domain.Item, error) {
	itemID, hash, err := ParseItemID(id)
	if err != nil {
		return nil, err
	}

	details, err := s.client.GetMultipleItems(ctx, []string{itemID})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	listing, ok := FindVariation(details[0], hash)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrVariationNotFound, id)
	}
	return ebay.MapToItem(listing, GenerateID(listing), nil), nil
}

func explodeAndMap(item domain.EbayItem, finding *domain.EbayFindingItem) []domain.Item {
	listings := ExplodeVariations(item)
	items := make([]domain.Item, 0, len(listings))
	for _, listing := range listings {
		items = append(items, *ebay.MapToItem(listing, GenerateID(listing), finding))
	}
	return items
}
