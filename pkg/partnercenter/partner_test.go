package partnercenter

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sternrassler/partner-center-client/internal/testutil"
	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCustomerID = "4a4c4d52-2b0d-4f6a-9a8e-7c2a6b1e0f11"

func newTestPartner(t *testing.T) (*Partner, *testutil.MockPartnerCenter) {
	t.Helper()

	mock := testutil.NewMockPartnerCenter()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig(client.StaticToken("token"), "partnercenter-test/1.0")
	cfg.BaseURL = mock.URL()
	cfg.Retry = client.RetryConfig{
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
	}

	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return New(c), mock
}

func offerItems(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = map[string]any{
			"id":   fmt.Sprintf("OFFER-%03d", i),
			"name": fmt.Sprintf("Offer %d", i),
			"category": map[string]any{
				"id":   "Productivity",
				"name": "Productivity",
			},
			"isAvailableForPurchase": true,
			"attributes":             map[string]any{"objectType": ObjectTypeOffer},
		}
	}
	return items
}

func invoiceItems(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = map[string]any{
			"id":           fmt.Sprintf("D0%08d", i),
			"invoiceDate":  "2024-03-01T00:00:00Z",
			"totalCharges": 100.5,
			"currencyCode": "USD",
			"attributes":   map[string]any{"objectType": ObjectTypeInvoice},
		}
	}
	return items
}

func TestDefaultRegistryBindings(t *testing.T) {
	for _, objectType := range []string{ObjectTypeOffer, ObjectTypeInvoice} {
		assert.Equal(t, enumerator.StrategyIndex, enumerator.DefaultRegistry.StrategyFor(objectType), objectType)
	}
}

func TestCheckParam(t *testing.T) {
	assert.NoError(t, checkParam("country", "US", "required,iso3166_1_alpha2"))

	err := checkParam("country", "", "required,iso3166_1_alpha2")
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "country")
}
