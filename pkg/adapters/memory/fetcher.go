package memory

import (
	"context"
	"fmt"
	"sort"
)

// Fetcher implements ports.Fetcher over an in-memory map. Hosts use it to
// serve embedded or preloaded assets without touching the network.
type Fetcher struct {
	assets map[string][]byte
}

// NewFetcher creates a new Fetcher with the provided assets, keyed by URL.
func NewFetcher(assets map[string][]byte) *Fetcher {
	copied := make(map[string][]byte, len(assets))
	for url, data := range assets {
		copied[url] = append([]byte(nil), data...)
	}
	return &Fetcher{assets: copied}
}

// NewTextFetcher creates a new Fetcher from string assets. This avoids
// byte-slice noise for text formats, improving DX for tests and examples.
func NewTextFetcher(assets map[string]string) *Fetcher {
	copied := make(map[string][]byte, len(assets))
	for url, data := range assets {
		copied[url] = []byte(data)
	}
	return &Fetcher{assets: copied}
}

// Fetch returns the asset registered under url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := f.assets[url]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", url)
	}
	// Copy out so callers can't mutate the stored asset.
	return append([]byte(nil), data...), nil
}

// URLs returns all registered asset URLs.
func (f *Fetcher) URLs() []string {
	urls := make([]string, 0, len(f.assets))
	for url := range f.assets {
		urls = append(urls, url)
	}
	sort.Strings(urls) // Deterministic order
	return urls
}
