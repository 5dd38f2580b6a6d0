// Package bootstrap wires configuration into vendor clients and use cases for
// both the HTTP server and the command line tool.
package bootstrap

import (
	"go.uber.org/zap"

	"github.com/resale/backend/config"
	httpDelivery "github.com/resale/backend/internal/delivery/http"
	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/amazon"
	"github.com/resale/backend/internal/infrastructure/ebay"
	"github.com/resale/backend/internal/infrastructure/logger"
	"github.com/resale/backend/internal/infrastructure/sears"
	"github.com/resale/backend/internal/infrastructure/walmart"
	"github.com/resale/backend/internal/usecase"
)

// App holds the wired use cases
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Ebay is nil when no eBay app id is configured
	Ebay     *usecase.EbayService
	Merchant *usecase.MerchantService
}

// Build creates every configured vendor client and the use cases over them
func Build(cfg *config.Config, log *zap.Logger) *App {
	log = logger.OrNop(log)

	app := &App{
		Config:   cfg,
		Logger:   log,
		Merchant: usecase.NewMerchantService(log, MerchantAdapters(cfg, log)...),
	}

	if cfg.Ebay.Enabled() {
		client := ebay.NewClient(ebay.Config{
			AppID:           cfg.Ebay.AppID,
			CertID:          cfg.Ebay.CertID,
			SiteID:          cfg.Ebay.SiteID,
			FindingURL:      cfg.Ebay.FindingURL,
			ShoppingURL:     cfg.Ebay.ShoppingURL,
			TokenURL:        cfg.Ebay.TokenURL,
			RequestsPerHour: cfg.RateLimit.Ebay,
		}, log)
		app.Ebay = usecase.NewEbayService(client, usecase.EbayServiceConfig{
			StoreName: cfg.Ebay.StoreName,
		}, log)
	} else {
		log.Warn("eBay not configured (set RESALE_EBAY_APP_ID)")
	}

	log.Info("merchants configured", zap.Stringers("merchants", app.Merchant.Merchants()))
	return app
}

// MerchantAdapters builds an adapter for every URL-dispatchable merchant that has credentials
func MerchantAdapters(cfg *config.Config, log *zap.Logger) []domain.MerchantAdapter {
	var adapters []domain.MerchantAdapter
	for _, m := range cfg.EnabledMerchants() {
		switch m {
		case domain.MerchantAmazon:
			adapters = append(adapters, amazon.NewClient(amazon.Config{
				AccessKey:       cfg.Amazon.AccessKey,
				SecretKey:       cfg.Amazon.SecretKey,
				AssociateTag:    cfg.Amazon.AssociateTag,
				Endpoint:        cfg.Amazon.Endpoint,
				RequestsPerHour: cfg.RateLimit.Amazon,
			}, log))
		case domain.MerchantWalmart:
			adapters = append(adapters, walmart.NewClient(walmart.Config{
				APIKey:          cfg.Walmart.APIKey,
				BaseURL:         cfg.Walmart.BaseURL,
				RequestsPerHour: cfg.RateLimit.Walmart,
			}, log))
		case domain.MerchantSears:
			adapters = append(adapters, sears.NewClient(sears.Config{
				BaseURL:         cfg.Sears.BaseURL,
				RequestsPerHour: cfg.RateLimit.Sears,
			}, log))
		}
	}
	return adapters
}

// HTTPHandler returns the HTTP handler over the wired use cases
func (a *App) HTTPHandler() *httpDelivery.Handler {
	// a nil *EbayService must reach the handler as a nil interface
	var ebayService httpDelivery.EbayService
	if a.Ebay != nil {
		ebayService = a.Ebay
	}
	return httpDelivery.NewHandler(ebayService, a.Merchant)
}
