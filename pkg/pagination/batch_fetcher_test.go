package pagination

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/enumerator"
	"github.com/Sternrassler/partner-center-client/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher serves a slice of ints by offset and size.
type mockFetcher struct {
	mu       sync.Mutex
	items    []int
	total    int
	failAt   int
	failErr  error
	delay    time.Duration
	offsets  []int
	inFlight int
	peak     int
}

func newMockFetcher(n int) *mockFetcher {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return &mockFetcher{items: items, failAt: -1}
}

func (m *mockFetcher) FetchPage(ctx context.Context, q enumerator.Query) (*resource.Collection[int], error) {
	m.mu.Lock()
	m.offsets = append(m.offsets, q.Offset)
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if q.Offset == m.failAt {
		return nil, m.failErr
	}

	start := min(q.Offset, len(m.items))
	end := min(q.Offset+q.PageSize, len(m.items))
	total := len(m.items)
	if m.total > 0 {
		total = m.total
	}
	return &resource.Collection[int]{
		TotalCount: total,
		Items:      append([]int(nil), m.items[start:end]...),
	}, nil
}

func (m *mockFetcher) requestedOffsets() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]int(nil), m.offsets...)
	sort.Ints(out)
	return out
}

func query(size int) enumerator.Query {
	return enumerator.Query{Path: "/v1/offers", PageSize: size}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestNewBatchFetcher_Defaults(t *testing.T) {
	bf := NewBatchFetcher[int](newMockFetcher(0), Config{})
	assert.Equal(t, 4, bf.config.MaxConcurrency)
	assert.Equal(t, 30*time.Second, bf.config.Timeout)
}

func TestBatchFetcher_FetchAll(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		pageSize    int
		wantOffsets []int
	}{
		{"empty collection", 0, 10, []int{0}},
		{"single page", 7, 10, []int{0}},
		{"exact pages", 30, 10, []int{0, 10, 20}},
		{"short last page", 25, 10, []int{0, 10, 20}},
		{"many pages", 95, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockFetcher(tt.total)
			bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 3})

			items, err := bf.FetchAll(context.Background(), query(tt.pageSize))
			require.NoError(t, err)

			require.Len(t, items, tt.total)
			for i, v := range items {
				assert.Equal(t, i, v, "items must be in collection order")
			}

			wantPages := (tt.total + tt.pageSize - 1) / tt.pageSize
			if wantPages == 0 {
				wantPages = 1
			}
			assert.Len(t, m.requestedOffsets(), wantPages)
			if tt.wantOffsets != nil {
				assert.Equal(t, tt.wantOffsets, m.requestedOffsets())
			}
		})
	}
}

func TestBatchFetcher_FetchRemaining_StartsAfterFirstPage(t *testing.T) {
	m := newMockFetcher(40)
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 2})

	q := query(10).At(10)
	first, err := m.FetchPage(context.Background(), q)
	require.NoError(t, err)

	items, err := bf.FetchRemaining(context.Background(), q, first)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30}, m.requestedOffsets())
	require.Len(t, items, 30)
	assert.Equal(t, 10, items[0])
	assert.Equal(t, 39, items[29])
}

func TestBatchFetcher_RespectsMaxConcurrency(t *testing.T) {
	m := newMockFetcher(100)
	m.delay = 5 * time.Millisecond
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 3})

	_, err := bf.FetchAll(context.Background(), query(5))
	require.NoError(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.LessOrEqual(t, m.peak, 3)
}

func TestBatchFetcher_PageError(t *testing.T) {
	errBoom := errors.New("server failed")
	m := newMockFetcher(50)
	m.failAt = 20
	m.failErr = errBoom
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 2})

	items, err := bf.FetchAll(context.Background(), query(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "offset 20")
	assert.Nil(t, items)
}

func TestBatchFetcher_FirstPageError(t *testing.T) {
	errBoom := errors.New("unavailable")
	m := newMockFetcher(50)
	m.failAt = 0
	m.failErr = errBoom
	bf := NewBatchFetcher[int](m, DefaultConfig())

	_, err := bf.FetchAll(context.Background(), query(10))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []int{0}, m.requestedOffsets())
}

func TestBatchFetcher_InvalidQuery(t *testing.T) {
	bf := NewBatchFetcher[int](newMockFetcher(10), DefaultConfig())

	_, err := bf.FetchAll(context.Background(), enumerator.Query{Path: "/v1/offers"})
	assert.ErrorIs(t, err, enumerator.ErrInvalidQuery)
}

func TestBatchFetcher_NilFirstPage(t *testing.T) {
	bf := NewBatchFetcher[int](newMockFetcher(10), DefaultConfig())

	_, err := bf.FetchRemaining(context.Background(), query(10), nil)
	assert.ErrorIs(t, err, enumerator.ErrNilCollection)
}

func TestBatchFetcher_InflatedTotalStopsEarly(t *testing.T) {
	m := newMockFetcher(12)
	m.total = 100000
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 4})

	items, err := bf.FetchAll(context.Background(), query(10))
	require.NoError(t, err)

	assert.Len(t, items, 12)
	assert.Equal(t, []int{0, 10, 20, 30, 40}, m.requestedOffsets())
	assert.LessOrEqual(t, cap(items), 100)
}

func TestBatchFetcher_EmptyPageEndsCollection(t *testing.T) {
	m := newMockFetcher(20)
	m.total = 60
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 2})

	items, err := bf.FetchAll(context.Background(), query(10))
	require.NoError(t, err)

	require.Len(t, items, 20)
	assert.Equal(t, 19, items[19])
	// wave {10, 20} sees the empty page at 20 and no further wave starts
	assert.Equal(t, []int{0, 10, 20}, m.requestedOffsets())
}

func TestBatchFetcher_WavesBoundRequests(t *testing.T) {
	m := newMockFetcher(100)
	bf := NewBatchFetcher[int](m, Config{MaxConcurrency: 3})

	items, err := bf.FetchAll(context.Background(), query(10))
	require.NoError(t, err)

	assert.Len(t, items, 100)
	assert.Len(t, m.requestedOffsets(), 10)
}

func TestPlanOffsets(t *testing.T) {
	assert.Nil(t, planOffsets(10, 10, 10))
	assert.Equal(t, []int{10, 20}, planOffsets(10, 10, 25))
	assert.Equal(t, []int{3, 6, 9}, planOffsets(3, 3, 10))
	assert.Nil(t, planOffsets(0, 0, 10))
}
