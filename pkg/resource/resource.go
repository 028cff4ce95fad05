// Package resource defines the base entity shapes returned by the
// Partner Center API: single resources, navigation links and paged
// resource collections.
package resource

// Attributes carries the metadata every Partner Center resource embeds.
type Attributes struct {
	// ObjectType names the resource kind, e.g. "Offer" or "Invoice".
	ObjectType string `json:"objectType,omitempty"`

	// Etag is the resource version used for optimistic concurrency.
	Etag string `json:"etag,omitempty"`
}

// Link is a navigation link to a related resource or page.
type Link struct {
	URI     string         `json:"uri"`
	Method  string         `json:"method,omitempty"`
	Headers []KeyValuePair `json:"headers,omitempty"`
}

// KeyValuePair is a header that must accompany a link request.
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Links holds the optional navigation links of a resource or page.
type Links struct {
	Self     *Link `json:"self,omitempty"`
	Next     *Link `json:"next,omitempty"`
	Previous *Link `json:"previous,omitempty"`
}

// HasNext reports whether the server advertised a next page link.
func (l Links) HasNext() bool {
	return l.Next != nil && l.Next.URI != ""
}

// Resource is the common envelope of a single Partner Center entity.
type Resource struct {
	Links      Links      `json:"links,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}
