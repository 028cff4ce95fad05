// Package pagination provides parallel batch fetching for offset-paged
// Partner Center collections.
//
// Partner Center reports totalCount on every page, so once the first page
// is known all remaining offsets can be requested at once. This package
// fetches them with a bounded number of concurrent requests and returns
// the items in collection order. Use an enumerator.Enumerator instead when
// pages must be processed one at a time.
//
// Example usage:
//
//	offers := partner.Offers("US")
//	fetcher := pagination.NewBatchFetcher[partnercenter.Offer](offers, pagination.DefaultConfig())
//	items, err := fetcher.FetchAll(ctx, offers.Query(0, 100))
//
// The batch fetcher:
//   - Fetches the first page to learn totalCount
//   - Plans the remaining offsets with a constant page size stride
//   - Fetches them concurrently (default 4 in flight)
//   - Cancels outstanding fetches on the first error
package pagination
