package partnercenter

import (
	"context"
	"net/url"
	"strings"

	"github.com/Sternrassler/partner-center-client/pkg/async"
	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
)

func init() {
	enumerator.DefaultRegistry.Register(ObjectTypeOffer, enumerator.StrategyIndex)
}

// OfferCollectionOperations reads the offer catalog of one country.
type OfferCollectionOperations struct {
	pagedCollection[Offer]
	country string
}

func newOfferCollectionOperations(p *Partner, country string) *OfferCollectionOperations {
	country = strings.ToUpper(country)
	o := &OfferCollectionOperations{country: country}
	o.pagedCollection = pagedCollection[Offer]{
		partner:    p,
		path:       "/v1/offers",
		objectType: ObjectTypeOffer,
		operation:  "offers.get",
		extra:      url.Values{"country": {country}},
		check: func() error {
			return checkParam("country", country, "required,iso3166_1_alpha2")
		},
	}
	return o
}

// Country returns the catalog country.
func (o *OfferCollectionOperations) Country() string {
	return o.country
}

// ByID returns the operations for a single offer.
func (o *OfferCollectionOperations) ByID(offerID string) *OfferOperations {
	return &OfferOperations{collection: o, offerID: offerID}
}

// OfferOperations reads a single offer.
type OfferOperations struct {
	collection *OfferCollectionOperations
	offerID    string
}

// Get returns the offer.
func (o *OfferOperations) Get(ctx context.Context) (*Offer, error) {
	return o.GetAsync(ctx).Await(ctx)
}

// GetAsync starts fetching the offer.
func (o *OfferOperations) GetAsync(ctx context.Context) *async.Future[*Offer] {
	return start(ctx, o.get)
}

func (o *OfferOperations) get(ctx context.Context) (*Offer, error) {
	if err := o.collection.check(); err != nil {
		return nil, err
	}
	// dot segments would be resolved away when the request URL is joined
	if err := checkParam("offer id", o.offerID, "required,printascii,excludesall=/?#,ne=.,ne=.."); err != nil {
		return nil, err
	}
	query := url.Values{"country": {o.collection.country}}
	return getJSON[Offer](ctx, o.collection.partner.transport, "offer.get", "/v1/offers/"+escape(o.offerID), query)
}
