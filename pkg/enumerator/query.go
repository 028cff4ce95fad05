package enumerator

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// MaxPageSize is the largest page size the Partner Center API accepts.
const MaxPageSize = 1000

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	encoder  = schema.NewEncoder()
)

// Query describes one logical collection request. Every page of an
// enumeration is requested with the same Query except for Offset.
type Query struct {
	// Path is the collection endpoint, e.g. "/v1/offers".
	Path string `schema:"-" validate:"required,startswith=/"`

	// Offset is the index of the first item of the page.
	Offset int `schema:"offset" validate:"gte=0"`

	// PageSize is the number of items requested per page.
	PageSize int `schema:"size" validate:"gte=1,lte=1000"`

	Filter string `schema:"filter,omitempty"`
	Sort   string `schema:"sort_by,omitempty"`

	// Extra holds endpoint specific parameters such as country.
	Extra url.Values `schema:"-" validate:"-"`
}

// Validate checks the query against the API paging limits.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// At returns a copy of q positioned at offset.
func (q Query) At(offset int) Query {
	q.Offset = offset
	return q
}

// Values encodes the query parameters for the request URL.
func (q Query) Values() (url.Values, error) {
	values := url.Values{}
	if err := encoder.Encode(q, values); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	for key, vals := range q.Extra {
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	return values, nil
}

// String renders path and parameters, mainly for logging.
func (q Query) String() string {
	values, err := q.Values()
	if err != nil {
		return q.Path
	}
	return q.Path + "?" + values.Encode()
}
