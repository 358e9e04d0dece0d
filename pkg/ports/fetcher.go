package ports

import "context"

// Fetcher defines how the download transformer retrieves remote assets.
// This decouples the state tree from the transport: hosts can route
// through caches, mirrors or test fixtures.
type Fetcher interface {
	// Fetch retrieves the asset at url. Implementations honor ctx
	// cancellation; a canceled fetch returns ctx.Err().
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}
