package partnercenter

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Sternrassler/partner-center-client/internal/testutil"
	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainOperations_Exists(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetResponse("/v1/domains/contoso.onmicrosoft.com", testutil.MockResponse{StatusCode: http.StatusOK})

	exists, err := partner.Domains().ByDomain("contoso.onmicrosoft.com").Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = partner.Domains().ByDomain("fabrikam.onmicrosoft.com").Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists, "404 means the domain is available")
}

func TestDomainOperations_ExistsAsync(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetResponse("/v1/domains/contoso.onmicrosoft.com", testutil.MockResponse{StatusCode: http.StatusOK})

	future := partner.Domains().ByDomain("contoso.onmicrosoft.com").ExistsAsync(context.Background())
	<-future.Done()

	exists, err := future.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDomainOperations_InvalidDomain(t *testing.T) {
	partner, mock := newTestPartner(t)

	for _, domain := range []string{"", "not a domain", "localhost"} {
		_, err := partner.Domains().ByDomain(domain).Exists(context.Background())
		assert.ErrorIs(t, err, ErrInvalidParameter, "domain %q", domain)
	}
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestDomainOperations_ServerErrorPropagates(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetResponse("/v1/domains/contoso.onmicrosoft.com", testutil.MockResponse{StatusCode: http.StatusForbidden})

	exists, err := partner.Domains().ByDomain("contoso.onmicrosoft.com").Exists(context.Background())
	require.Error(t, err)
	assert.False(t, exists)

	var perr *client.PartnerError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusForbidden, perr.StatusCode)
}
