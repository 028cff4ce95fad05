package partnercenter

import (
	"context"
	"net/url"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
)

// ValidationTypeAccount is the only validation type Partner Center
// currently reports on.
const ValidationTypeAccount = "account"

// CustomerCollectionOperations groups the customer operations.
type CustomerCollectionOperations struct {
	partner *Partner
}

// ByID returns the operations for one customer tenant.
func (c *CustomerCollectionOperations) ByID(customerID string) *CustomerOperations {
	return &CustomerOperations{partner: c.partner, customerID: customerID}
}

// CustomerOperations reads a customer and its sub-resources.
type CustomerOperations struct {
	partner    *Partner
	customerID string
}

func (c *CustomerOperations) checkID() error {
	return checkParam("customer id", c.customerID, "required,uuid")
}

func (c *CustomerOperations) path(suffix string) string {
	return "/v1/customers/" + escape(c.customerID) + suffix
}

// Get returns the customer.
func (c *CustomerOperations) Get(ctx context.Context) (*Customer, error) {
	return c.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the customer.
func (c *CustomerOperations) GetAsync(ctx context.Context) *async.Future[*Customer] {
	return start(ctx, func(ctx context.Context) (*Customer, error) {
		if err := c.checkID(); err != nil {
			return nil, err
		}
		return getJSON[Customer](ctx, c.partner.transport, "customer.get", c.path(""), nil)
	})
}

// SubscribedSkus returns the operations on the customer's subscribed SKUs.
func (c *CustomerOperations) SubscribedSkus() *SubscribedSkuCollectionOperations {
	return &SubscribedSkuCollectionOperations{customer: c}
}

// ManagedServices returns the operations on the customer's managed services.
func (c *CustomerOperations) ManagedServices() *ManagedServiceCollectionOperations {
	return &ManagedServiceCollectionOperations{customer: c}
}

// ValidationStatus returns the operations on the customer's validation
// status of validationType.
func (c *CustomerOperations) ValidationStatus(validationType string) *ValidationStatusOperations {
	return &ValidationStatusOperations{customer: c, validationType: validationType}
}

// SubscribedSkuCollectionOperations reads a customer's subscribed SKUs.
type SubscribedSkuCollectionOperations struct {
	customer *CustomerOperations
}

// Get returns the subscribed SKUs.
func (s *SubscribedSkuCollectionOperations) Get(ctx context.Context) (*resource.Collection[SubscribedSku], error) {
	return s.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the subscribed SKUs.
func (s *SubscribedSkuCollectionOperations) GetAsync(ctx context.Context) *async.Future[*resource.Collection[SubscribedSku]] {
	return start(ctx, func(ctx context.Context) (*resource.Collection[SubscribedSku], error) {
		if err := s.customer.checkID(); err != nil {
			return nil, err
		}
		return getJSON[resource.Collection[SubscribedSku]](ctx, s.customer.partner.transport,
			"customer.subscribedskus.get", s.customer.path("/subscribedskus"), nil)
	})
}

// ManagedServiceCollectionOperations reads a customer's managed services.
type ManagedServiceCollectionOperations struct {
	customer *CustomerOperations
}

// Get returns the managed services.
func (m *ManagedServiceCollectionOperations) Get(ctx context.Context) (*resource.Collection[ManagedService], error) {
	return m.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the managed services.
func (m *ManagedServiceCollectionOperations) GetAsync(ctx context.Context) *async.Future[*resource.Collection[ManagedService]] {
	return start(ctx, func(ctx context.Context) (*resource.Collection[ManagedService], error) {
		if err := m.customer.checkID(); err != nil {
			return nil, err
		}
		return getJSON[resource.Collection[ManagedService]](ctx, m.customer.partner.transport,
			"customer.managedservices.get", m.customer.path("/managedservices"), nil)
	})
}

// ValidationStatusOperations reads one validation status of a customer.
type ValidationStatusOperations struct {
	customer       *CustomerOperations
	validationType string
}

// Get returns the validation status.
func (v *ValidationStatusOperations) Get(ctx context.Context) (*ValidationStatus, error) {
	return v.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the validation status.
func (v *ValidationStatusOperations) GetAsync(ctx context.Context) *async.Future[*ValidationStatus] {
	return start(ctx, func(ctx context.Context) (*ValidationStatus, error) {
		if err := v.customer.checkID(); err != nil {
			return nil, err
		}
		if err := checkParam("validation type", v.validationType, "required,oneof="+ValidationTypeAccount); err != nil {
			return nil, err
		}
		path := "/v1/validations/" + escape(v.customer.customerID) + "/validationStatus"
		return getJSON[ValidationStatus](ctx, v.customer.partner.transport,
			"customer.validationstatus.get", path, url.Values{"type": {v.validationType}})
	})
}
