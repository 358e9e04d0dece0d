package ports

import "context"

// TextureKind selects the texture topology.
type TextureKind string

const (
	Texture2D TextureKind = "image-2d"
	Texture3D TextureKind = "image-3d"
)

// TextureSpec describes the texture to allocate. Format and Filter use the
// backend's own vocabulary ("alpha", "rgba", "linear", "nearest"); the
// framework passes them through untouched.
type TextureSpec struct {
	Kind     TextureKind
	Format   string
	ElemType string
	Filter   string
}

// TextureImage is a packed texture upload: density values in x-fastest
// order. Depth is 1 for 2D textures.
type TextureImage struct {
	Width  int
	Height int
	Depth  int
	Data   []float32
}

// Texture is a GPU-side resource created by a RenderBackend. The direct
// volume representation re-uploads through Load when its source changes
// and releases the resource through Dispose when its cell is removed.
type Texture interface {
	// Load uploads the image, replacing any previous contents.
	Load(img *TextureImage) error

	// Dispose releases the resource. Load after Dispose is an error.
	Dispose()
}

// RenderBackend abstracts the host's GPU layer. The framework itself never
// talks to a GPU; representations that need device resources request them
// here and fail with domain.ErrNoRenderBackend when no backend is attached.
type RenderBackend interface {
	// CreateTexture allocates an empty texture. The framework never reads
	// texture contents back.
	CreateTexture(ctx context.Context, spec TextureSpec) (Texture, error)
}
