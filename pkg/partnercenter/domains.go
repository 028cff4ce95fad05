package partnercenter

import (
	"context"
	"fmt"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/client"
)

// DomainCollectionOperations groups the domain operations.
type DomainCollectionOperations struct {
	partner *Partner
}

// ByDomain returns the operations for one domain name.
func (d *DomainCollectionOperations) ByDomain(domain string) *DomainOperations {
	return &DomainOperations{partner: d.partner, domain: domain}
}

// DomainOperations checks a single domain.
type DomainOperations struct {
	partner *Partner
	domain  string
}

// Exists reports whether the domain is already taken. A 404 from Partner
// Center means the domain is available and yields false.
func (d *DomainOperations) Exists(ctx context.Context) (bool, error) {
	return d.ExistsAsync(ctx).Await(ctx)
}

// ExistsAsync starts the domain availability check.
func (d *DomainOperations) ExistsAsync(ctx context.Context) *async.Future[bool] {
	return start(ctx, d.exists)
}

func (d *DomainOperations) exists(ctx context.Context) (bool, error) {
	if err := checkParam("domain", d.domain, "required,fqdn"); err != nil {
		return false, err
	}

	ctx = client.WithOperation(ctx, "domain.exists")
	err := d.partner.transport.Head(ctx, "/v1/domains/"+escape(d.domain))
	switch {
	case err == nil:
		return true, nil
	case client.IsNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("domain.exists: %w", err)
	}
}
