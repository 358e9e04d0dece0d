// Package testutils provides shared fakes for the driven ports: an
// in-memory fetcher and a recording render backend. Tests assert against
// the recorded calls instead of real network or GPU access.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/qqdb/molstar/pkg/ports"
)

// FakeFetcher serves responses from a url-keyed map. Unknown urls fail,
// so tests notice unexpected requests.
type FakeFetcher struct {
	mu        sync.Mutex
	Responses map[string][]byte
	Requests  []string
}

// NewFakeFetcher builds a fetcher serving the given url to payload map.
func NewFakeFetcher(responses map[string][]byte) *FakeFetcher {
	return &FakeFetcher{Responses: responses}
}

func (f *FakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Requests = append(f.Requests, url)
	body, ok := f.Responses[url]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("fake fetcher: no response for %q", url)
	}
	return body, nil
}

// FakeTexture records uploads and disposal for assertions.
type FakeTexture struct {
	Spec     ports.TextureSpec
	Images   []*ports.TextureImage
	Disposed bool
}

func (t *FakeTexture) Load(img *ports.TextureImage) error {
	if t.Disposed {
		return fmt.Errorf("fake texture: load after dispose")
	}
	t.Images = append(t.Images, img)
	return nil
}

func (t *FakeTexture) Dispose() { t.Disposed = true }

// LastImage returns the most recent upload, or nil.
func (t *FakeTexture) LastImage() *ports.TextureImage {
	if len(t.Images) == 0 {
		return nil
	}
	return t.Images[len(t.Images)-1]
}

// FakeBackend hands out FakeTextures and keeps them for inspection.
type FakeBackend struct {
	mu       sync.Mutex
	Textures []*FakeTexture

	// CreateErr, when set, fails every CreateTexture call.
	CreateErr error
}

// NewFakeBackend builds an empty recording backend.
func NewFakeBackend() *FakeBackend { return &FakeBackend{} }

func (b *FakeBackend) CreateTexture(ctx context.Context, spec ports.TextureSpec) (ports.Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}
	tex := &FakeTexture{Spec: spec}
	b.mu.Lock()
	b.Textures = append(b.Textures, tex)
	b.mu.Unlock()
	return tex, nil
}
