package bloom

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture together with its identity view. A
// multisampled Texture additionally owns a single-sample resolve
// texture of the same size and format, so later passes can sample the
// resolved image.
type Texture struct {
	texture       *wgpu.Texture
	textureView   *wgpu.TextureView
	resolveTarget *Texture

	format      wgpu.TextureFormat
	sampleCount uint32
	width       uint32
	height      uint32
}

// newRenderTexture creates an RGBA16F texture that can be used as both
// a render attachment and a sampled texture.
func newRenderTexture(ctx *Context, width, height, samples uint32, label string) (*Texture, error) {
	texture, err := ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Format:        wgpu.TextureFormatRGBA16Float,
		SampleCount:   samples,
		MipLevelCount: 1,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},

		Usage: wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageCopySrc,
	})

	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}

	textureView, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()

		return nil, fmt.Errorf("create texture view %q: %w", label, err)
	}

	var resolveTarget *Texture

	if samples > 1 {
		resolveTarget, err = newRenderTexture(ctx, width, height, 1, label+".Resolve")
		if err != nil {
			textureView.Release()
			texture.Release()

			return nil, fmt.Errorf("create resolve texture: %w", err)
		}
	}

	return &Texture{
		texture:       texture,
		textureView:   textureView,
		resolveTarget: resolveTarget,

		format:      wgpu.TextureFormatRGBA16Float,
		sampleCount: samples,
		width:       width,
		height:      height,
	}, nil
}

// SourceView returns the view a shader should sample: the resolve
// target for a multisampled texture, the texture itself otherwise.
func (t *Texture) SourceView() *wgpu.TextureView {
	if t.resolveTarget != nil {
		return t.resolveTarget.textureView
	}

	return t.textureView
}

// RenderViews returns the attachment view plus, for a multisampled
// texture, the view the pass resolves into.
func (t *Texture) RenderViews() (view, resolveView *wgpu.TextureView) {
	view = t.textureView

	if t.resolveTarget != nil {
		resolveView = t.resolveTarget.textureView
	}

	return
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) SampleCount() uint32 {
	return t.sampleCount
}

// Release frees the texture, its view and the resolve texture. The
// Texture must not be used afterwards.
func (t *Texture) Release() {
	if t.resolveTarget != nil {
		t.resolveTarget.Release()
		t.resolveTarget = nil
	}

	t.textureView.Release()
	t.texture.Release()
}
