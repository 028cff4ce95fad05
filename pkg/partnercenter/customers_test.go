package partnercenter

import (
	"context"
	"testing"
	"time"

	"github.com/Sternrassler/partner-center-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerOperations_Get(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetResponse("/v1/customers/"+testCustomerID, testutil.NewJSONResponse(
		`{"id":"`+testCustomerID+`","companyProfile":{"tenantId":"`+testCustomerID+`","domain":"contoso.onmicrosoft.com","companyName":"Contoso"},"attributes":{"objectType":"Customer"}}`))

	customer, err := partner.Customers().ByID(testCustomerID).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testCustomerID, customer.ID)
	assert.Equal(t, "Contoso", customer.CompanyProfile.CompanyName)
	assert.Equal(t, ObjectTypeCustomer, customer.Attributes.ObjectType)
}

func TestCustomerOperations_InvalidID(t *testing.T) {
	partner, mock := newTestPartner(t)
	customer := partner.Customers().ByID("not-a-uuid")

	_, err := customer.Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = customer.SubscribedSkus().Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = customer.ManagedServices().Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = customer.ValidationStatus(ValidationTypeAccount).Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)

	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestSubscribedSkuCollectionOperations_Get(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetCollection("/v1/customers/"+testCustomerID+"/subscribedskus", ObjectTypeSubscribedSku, []any{
		map[string]any{
			"availableUnits":   5,
			"activeUnits":      25,
			"consumedUnits":    20,
			"capabilityStatus": "Enabled",
			"productSku": map[string]any{
				"id":            "sku-1",
				"name":          "Microsoft 365 E3",
				"skuPartNumber": "SPE_E3",
			},
			"servicePlans": []any{
				map[string]any{"id": "plan-1", "serviceName": "EXCHANGE_S_ENTERPRISE", "capabilityStatus": "Enabled"},
			},
		},
	})

	skus, err := partner.Customers().ByID(testCustomerID).SubscribedSkus().Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, skus.TotalCount)
	require.Len(t, skus.Items, 1)
	sku := skus.Items[0]
	assert.Equal(t, 20, sku.ConsumedUnits)
	assert.Equal(t, "SPE_E3", sku.ProductSku.SkuPartNumber)
	require.Len(t, sku.ServicePlans, 1)
	assert.Equal(t, "EXCHANGE_S_ENTERPRISE", sku.ServicePlans[0].ServiceName)
}

func TestManagedServiceCollectionOperations_GetAsync(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetCollection("/v1/customers/"+testCustomerID+"/managedservices", ObjectTypeManagedService, []any{
		map[string]any{"id": "Exchange", "name": "Exchange Online", "adminServiceUrl": "https://admin.example.com"},
		map[string]any{"id": "SharePoint", "name": "SharePoint Online"},
	})

	services, err := partner.Customers().ByID(testCustomerID).ManagedServices().GetAsync(context.Background()).Wait()
	require.NoError(t, err)

	require.Len(t, services.Items, 2)
	assert.Equal(t, "Exchange Online", services.Items[0].Name)
	assert.Equal(t, "https://admin.example.com", services.Items[0].AdminServiceURL)
}

func TestValidationStatusOperations_Get(t *testing.T) {
	partner, mock := newTestPartner(t)
	mock.SetResponse("/v1/validations/"+testCustomerID+"/validationStatus", testutil.NewJSONResponse(
		`{"customerId":"`+testCustomerID+`","validationType":"Account","status":"Approved","lastUpdateDateTime":"2024-05-01T10:00:00Z"}`))

	status, err := partner.Customers().ByID(testCustomerID).ValidationStatus(ValidationTypeAccount).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Approved", status.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), status.LastUpdateDateTime.UTC())
	assert.Equal(t, "account", mock.Requests()[0].Query().Get("type"))
}

func TestValidationStatusOperations_InvalidType(t *testing.T) {
	partner, mock := newTestPartner(t)

	_, err := partner.Customers().ByID(testCustomerID).ValidationStatus("identity").Get(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, 0, mock.GetRequestCount())
}
