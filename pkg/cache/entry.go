package cache

import (
	"net/http"
	"time"
)

// Entry is a cached Partner Center response.
type Entry struct {
	Data       []byte      `json:"data"`
	ETag       string      `json:"etag"`
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`

	// LastModified is taken from the Last-Modified response header, if any.
	LastModified time.Time `json:"last_modified"`

	// StoredAt is when the entry was written.
	StoredAt time.Time `json:"stored_at"`

	// Expires bounds how long the entry is kept in Redis.
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}
