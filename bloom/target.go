package bloom

import "github.com/cogentcore/webgpu/wgpu"

// RenderTarget holds all the information of something that can be
// rendered to. The scene draw callback receives one describing the
// pipeline's scene texture.
type RenderTarget struct {
	View *wgpu.TextureView

	// In case of multisample rendering, this holds the texture view
	// the multisampled fragment is resolved to. The callback must set
	// it as the resolve target of its color attachment.
	ResolveTarget *wgpu.TextureView

	// Texture format of View
	Format wgpu.TextureFormat

	// Size of the target to render to
	Width  uint32
	Height uint32

	// The number of samples of the View texture
	SampleCount uint32
}
