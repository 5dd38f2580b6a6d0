package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// maxItemIDs caps the ids accepted by one batch item request
const maxItemIDs = 100

// EbayService is the eBay listing use case consumed by the handlers
type EbayService interface {
	GetListings(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, itemID string) ([]domain.Item, error)
	GetItems(ctx context.Context, itemIDs []string) ([]domain.Item, error)
	GetVariation(ctx context.Context, id string) (*domain.Item, error)
}

// MerchantService is the URL dispatch use case consumed by the handlers
type MerchantService interface {
	GetItem(ctx context.Context, rawURL string) (*domain.Item, error)
	GetItemByMerchant(ctx context.Context, merchantName, merchantID string) (*domain.Item, error)
	Merchants() []domain.Merchant
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	ebay      EbayService
	merchants MerchantService
}

// NewHandler creates a new HTTP handler.
// Either service may be nil, in which case its endpoints answer 503.
func NewHandler(ebay EbayService, merchants MerchantService) *Handler {
	return &Handler{
		ebay:      ebay,
		merchants: merchants,
	}
}

// ItemsResponse wraps a list of normalized items
type ItemsResponse struct {
	Items []domain.Item `json:"items"`
	Count int           `json:"count"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	merchants := []string{}
	if h.ebay != nil {
		merchants = append(merchants, domain.MerchantEbay.String())
	}
	if h.merchants != nil {
		for _, m := range h.merchants.Merchants() {
			merchants = append(merchants, m.String())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "resale-backend",
		"version":   "1.0.0",
		"merchants": merchants,
	})
}

// GetListings handles GET /api/v1/ebay/listings
func (h *Handler) GetListings(c *gin.Context) {
	if h.ebay == nil {
		h.notConfigured(c, "eBay")
		return
	}

	items, err := h.ebay.GetListings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemsResponse(items))
}

// GetEbayItems handles GET /api/v1/ebay/items?ids=a,b
func (h *Handler) GetEbayItems(c *gin.Context) {
	if h.ebay == nil {
		h.notConfigured(c, "eBay")
		return
	}

	ids := splitIDs(c.QueryArray("ids"))
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ids query parameter is required"})
		return
	}
	if len(ids) > maxItemIDs {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many ids"})
		return
	}

	items, err := h.ebay.GetItems(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemsResponse(items))
}

// GetEbayItem handles GET /api/v1/ebay/items/:id
func (h *Handler) GetEbayItem(c *gin.Context) {
	if h.ebay == nil {
		h.notConfigured(c, "eBay")
		return
	}

	items, err := h.ebay.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrItemNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, newItemsResponse(items))
}

// GetEbayVariation handles GET /api/v1/ebay/variations/:id
func (h *Handler) GetEbayVariation(c *gin.Context) {
	if h.ebay == nil {
		h.notConfigured(c, "eBay")
		return
	}

	item, err := h.ebay.GetVariation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetMerchantItem handles GET /api/v1/merchant/item?url=...
func (h *Handler) GetMerchantItem(c *gin.Context) {
	if h.merchants == nil {
		h.notConfigured(c, "merchant")
		return
	}

	rawURL := c.Query("url")
	if strings.TrimSpace(rawURL) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url query parameter is required"})
		return
	}

	item, err := h.merchants.GetItem(c.Request.Context(), rawURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// LookupMerchantItem handles GET /api/v1/merchant/:merchant/items/:id
func (h *Handler) LookupMerchantItem(c *gin.Context) {
	if h.merchants == nil {
		h.notConfigured(c, "merchant")
		return
	}

	item, err := h.merchants.GetItemByMerchant(c.Request.Context(), c.Param("merchant"), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) notConfigured(c *gin.Context, service string) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: service + " service not configured"})
}

// fail writes the status matching a domain error and records it on the request log
func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusForError(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// StatusForError maps domain errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownMerchant):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrVariationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrVendorAPIFailure), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrMerchantNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newItemsResponse(items []domain.Item) ItemsResponse {
	if items == nil {
		items = []domain.Item{}
	}
	return ItemsResponse{Items: items, Count: len(items)}
}

// splitIDs accepts both ?ids=a,b and ?ids=a&ids=b
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
