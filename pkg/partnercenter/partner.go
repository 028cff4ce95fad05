// Package partnercenter exposes typed operations over the Partner Center
// REST API.
//
// Every operation follows the same steps: validate its parameters, build
// the endpoint path, call the transport and decode the JSON payload. Each
// call comes in a blocking form and an asynchronous form returning an
// async.Future; the blocking form awaits the asynchronous one.
//
//	partner := partnercenter.New(c)
//	page, err := partner.Offers("US").Get(ctx, 0, 100)
//	factory, err := partner.Offers("US").Enumerators(0, 100)
//	e, err := factory.Create(page)
//	for e.HasValue() {
//		if err := e.Next(ctx); err != nil { ... }
//	}
package partnercenter

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidParameter is returned when an operation parameter fails
// validation. No request is sent in that case.
var ErrInvalidParameter = errors.New("invalid parameter")

// Transport performs the HTTP calls behind the operations.
type Transport interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	Head(ctx context.Context, path string) error
}

var _ Transport = (*client.Client)(nil)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Partner is the entry point to the Partner Center operations.
type Partner struct {
	transport Transport
}

// New returns the operations root bound to transport.
func New(transport Transport) *Partner {
	return &Partner{transport: transport}
}

// Domains returns the domain operations.
func (p *Partner) Domains() *DomainCollectionOperations {
	return &DomainCollectionOperations{partner: p}
}

// Offers returns the offer catalog of country, an ISO 3166 alpha-2 code.
func (p *Partner) Offers(country string) *OfferCollectionOperations {
	return newOfferCollectionOperations(p, country)
}

// Invoices returns the invoice operations.
func (p *Partner) Invoices() *InvoiceCollectionOperations {
	return newInvoiceCollectionOperations(p)
}

// Customers returns the customer operations.
func (p *Partner) Customers() *CustomerCollectionOperations {
	return &CustomerCollectionOperations{partner: p}
}

// checkParam validates value against a validator tag.
func checkParam(name, value, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidParameter, name, value, err)
	}
	return nil
}

// getJSON fetches path into a new T.
func getJSON[T any](ctx context.Context, t Transport, operation, path string, query url.Values) (*T, error) {
	ctx = client.WithOperation(ctx, operation)

	var out T
	if err := t.GetJSON(ctx, path, query, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return &out, nil
}

// start runs fn asynchronously; the blocking variants await its future.
func start[T any](ctx context.Context, fn func(context.Context) (T, error)) *async.Future[T] {
	return async.Run(ctx, fn)
}

// escape substitutes a parameter into a path segment.
func escape(s string) string {
	return url.PathEscape(s)
}
