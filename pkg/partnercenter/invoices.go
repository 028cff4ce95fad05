package partnercenter

import (
	"context"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
)

func init() {
	enumerator.DefaultRegistry.Register(ObjectTypeInvoice, enumerator.StrategyIndex)
}

// InvoiceCollectionOperations reads the partner's invoices.
type InvoiceCollectionOperations struct {
	pagedCollection[Invoice]
}

func newInvoiceCollectionOperations(p *Partner) *InvoiceCollectionOperations {
	return &InvoiceCollectionOperations{
		pagedCollection: pagedCollection[Invoice]{
			partner:    p,
			path:       "/v1/invoices",
			objectType: ObjectTypeInvoice,
			operation:  "invoices.get",
		},
	}
}

// ByID returns the operations for a single invoice.
func (i *InvoiceCollectionOperations) ByID(invoiceID string) *InvoiceOperations {
	return &InvoiceOperations{partner: i.partner, invoiceID: invoiceID}
}

// InvoiceOperations reads a single invoice.
type InvoiceOperations struct {
	partner   *Partner
	invoiceID string
}

// Get returns the invoice.
func (i *InvoiceOperations) Get(ctx context.Context) (*Invoice, error) {
	return i.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the invoice.
func (i *InvoiceOperations) GetAsync(ctx context.Context) *async.Future[*Invoice] {
	return start(ctx, i.get)
}

func (i *InvoiceOperations) get(ctx context.Context) (*Invoice, error) {
	if err := checkParam("invoice id", i.invoiceID, "required,alphanum"); err != nil {
		return nil, err
	}
	return getJSON[Invoice](ctx, i.partner.transport, "invoice.get", "/v1/invoices/"+escape(i.invoiceID), nil)
}
