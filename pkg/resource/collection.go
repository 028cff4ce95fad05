package resource

// Collection is one server-returned page of a resource collection.
//
// TotalCount is the number of items across all pages of the logical query
// as reported by the server. It is a hint: it can drift while the
// underlying data changes and is not guaranteed to match the sum of the
// items actually returned.
//
// A Collection handed out by an enumerator is a snapshot and is never
// modified after it has been returned.
type Collection[T any] struct {
	TotalCount int        `json:"totalCount"`
	Items      []T        `json:"items"`
	Links      Links      `json:"links,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// NewCollection builds a page from items, using len(items) as the total
// when total is negative.
func NewCollection[T any](items []T, total int) *Collection[T] {
	if total < 0 {
		total = len(items)
	}
	return &Collection[T]{
		TotalCount: total,
		Items:      items,
	}
}

// Count returns the number of items materialized in this page.
func (c *Collection[T]) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// IsEmpty reports whether the page holds no items.
func (c *Collection[T]) IsEmpty() bool {
	return c.Count() == 0
}

// ObjectType returns the collection object type reported by the server.
func (c *Collection[T]) ObjectType() string {
	if c == nil {
		return ""
	}
	return c.Attributes.ObjectType
}
