package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resale/backend/internal/domain"
)

type fakeEbay struct {
	items []domain.Item
	ids   []string
	err   error
}

func (f *fakeEbay) GetListings(ctx context.Context) ([]domain.Item, error) {
	return f.items, f.err
}

func (f *fakeEbay) GetItems(ctx context.Context, itemIDs []string) ([]domain.Item, error) {
	f.ids = itemIDs
	return f.items, f.err
}

func (f *fakeEbay) GetVariation(ctx context.Context, id string) (*domain.Item, error) {
	f.ids = []string{id}
	if f.err != nil {
		return nil, f.err
	}
	return &f.items[0], nil
}

type fakeMerchant struct {
	item *domain.Item
	args []string
	err  error
}

func (f *fakeMerchant) GetItem(ctx context.Context, rawURL string) (*domain.Item, error) {
	f.args = []string{rawURL}
	return f.item, f.err
}

func (f *fakeMerchant) GetItemByMerchant(ctx context.Context, merchantName, merchantID string) (*domain.Item, error) {
	f.args = []string{merchantName, merchantID}
	return f.item, f.err
}

func depsFor(ebay EbayService, merchant MerchantService) Dependencies {
	return Dependencies{
		Ebay:     func() (EbayService, error) { return ebay, nil },
		Merchant: func() (MerchantService, error) { return merchant, nil },
	}
}

func run(t *testing.T, deps Dependencies, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(deps)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEbayListings(t *testing.T) {
	ebay := &fakeEbay{items: []domain.Item{{ID: "100-0"}, {ID: "200-0"}}}

	out, err := run(t, depsFor(ebay, nil), "ebay", "listings")

	require.NoError(t, err)
	var items []domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)
	assert.Contains(t, out, "\n  ", "indented by default")
}

func TestEbayItems_Compact(t *testing.T) {
	ebay := &fakeEbay{items: []domain.Item{{ID: "100-0"}}}

	out, err := run(t, depsFor(ebay, nil), "ebay", "items", "100", "200", "--compact")

	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, ebay.ids)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestEbayVariation(t *testing.T) {
	ebay := &fakeEbay{items: []domain.Item{{ID: "100-abc"}}}

	out, err := run(t, depsFor(ebay, nil), "ebay", "variation", "100-abc")

	require.NoError(t, err)
	assert.Equal(t, []string{"100-abc"}, ebay.ids)
	assert.Contains(t, out, `"id": "100-abc"`)
}

func TestEbay_NotConfigured(t *testing.T) {
	deps := Dependencies{Ebay: func() (EbayService, error) { return nil, nil }}

	_, err := run(t, deps, "ebay", "listings")

	assert.ErrorIs(t, err, domain.ErrMerchantNotConfigured)
	assert.Equal(t, 4, ExitCode(err))
}

func TestMerchantItem(t *testing.T) {
	merchant := &fakeMerchant{item: &domain.Item{ID: "walmart-12345678"}}

	out, err := run(t, depsFor(nil, merchant), "merchant", "item", "https://www.walmart.com/ip/12345678")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.walmart.com/ip/12345678"}, merchant.args)
	assert.Contains(t, out, "walmart-12345678")
}

func TestMerchantLookup(t *testing.T) {
	merchant := &fakeMerchant{item: &domain.Item{ID: "amazon-B00X4WHP5E"}}

	_, err := run(t, depsFor(nil, merchant), "merchant", "lookup", "amazon", "B00X4WHP5E")

	require.NoError(t, err)
	assert.Equal(t, []string{"amazon", "B00X4WHP5E"}, merchant.args)
}

func TestMerchantItem_UnknownMerchant(t *testing.T) {
	merchant := &fakeMerchant{err: fmt.Errorf("%w: example.com", domain.ErrUnknownMerchant)}

	_, err := run(t, depsFor(nil, merchant), "merchant", "item", "https://example.com/x")

	assert.ErrorIs(t, err, domain.ErrUnknownMerchant)
	assert.Equal(t, 2, ExitCode(err))
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t, depsFor(&fakeEbay{}, &fakeMerchant{}), "merchant", "lookup", "amazon")
	assert.Error(t, err)

	_, err = run(t, depsFor(&fakeEbay{}, &fakeMerchant{}), "ebay", "items")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 3, ExitCode(domain.ErrVariationNotFound))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}
