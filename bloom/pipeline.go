// Package bloom implements an adaptive bloom post-processing pipeline
// on top of webgpu. A frame is processed in four fullscreen passes:
// brightness extraction, horizontal blur, vertical blur, and an
// additive composite into a caller-supplied output view. The blur
// radius adapts per pixel to the local brightness, so hot spots bleed
// further than faint highlights.
package bloom

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline owns every GPU object of the effect: textures, views,
// sampler, uniform buffers, bind groups and render pipelines. All of
// them are created once in New and released together in Release;
// nothing is allocated per frame.
type Pipeline struct {
	ctx *Context

	sceneTexture      *Texture
	brightnessTexture *Texture
	blurHTexture      *Texture
	blurVTexture      *Texture

	sampler *wgpu.Sampler

	thresholdBuffer       *wgpu.Buffer
	blurHBuffer           *wgpu.Buffer
	blurVBuffer           *wgpu.Buffer
	intensityBuffer       *wgpu.Buffer
	adaptiveScalingBuffer *wgpu.Buffer
	maxRadiusBuffer       *wgpu.Buffer
	intensityCurveBuffer  *wgpu.Buffer

	brightnessLayout *wgpu.BindGroupLayout
	blurLayout       *wgpu.BindGroupLayout
	compositeLayout  *wgpu.BindGroupLayout

	brightnessBindGroup *wgpu.BindGroup
	blurHBindGroup      *wgpu.BindGroup
	blurVBindGroup      *wgpu.BindGroup
	compositeBindGroup  *wgpu.BindGroup

	brightnessPipeline *wgpu.RenderPipeline
	blurPipeline       *wgpu.RenderPipeline
	compositePipeline  *wgpu.RenderPipeline

	params Params
}

// New creates a pipeline rendering at width x height. The scene
// texture is created with the given sample count; when samples > 1 the
// scene pass resolves into a single-sample texture before the
// brightness pass samples it.
func New(ctx *Context, width, height, samples uint32) (p *Pipeline, err error) {
	if samples == 0 {
		samples = 1
	}

	slog.Info("Create bloom pipeline",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Int("samples", int(samples)),
	)

	p = &Pipeline{ctx: ctx, params: DefaultParams()}

	defer func() {
		if err != nil {
			p.Release()
			p = nil
		}
	}()

	if err = p.createTextures(width, height, samples); err != nil {
		return
	}

	p.sampler, err = linearClampSampler(ctx)
	if err != nil {
		return
	}

	if err = p.createUniformBuffers(); err != nil {
		return
	}

	if err = p.createLayouts(); err != nil {
		return
	}

	if err = p.createBindGroups(); err != nil {
		return
	}

	if err = p.createPipelines(); err != nil {
		return
	}

	return p, nil
}

// SceneTarget describes the scene texture as a render target for the
// scene draw callback.
func (p *Pipeline) SceneTarget() *RenderTarget {
	view, resolveView := p.sceneTexture.RenderViews()

	return &RenderTarget{
		View:          view,
		ResolveTarget: resolveView,
		Format:        p.sceneTexture.Format(),
		Width:         p.sceneTexture.Width(),
		Height:        p.sceneTexture.Height(),
		SampleCount:   p.sceneTexture.SampleCount(),
	}
}

func (p *Pipeline) createTextures(width, height, samples uint32) error {
	var err error

	p.sceneTexture, err = newRenderTexture(p.ctx, width, height, samples, "Bloom.Scene")
	if err != nil {
		return fmt.Errorf("scene texture: %w", err)
	}

	p.brightnessTexture, err = newRenderTexture(p.ctx, width, height, 1, "Bloom.Brightness")
	if err != nil {
		return fmt.Errorf("brightness texture: %w", err)
	}

	p.blurHTexture, err = newRenderTexture(p.ctx, width, height, 1, "Bloom.BlurH")
	if err != nil {
		return fmt.Errorf("horizontal blur texture: %w", err)
	}

	p.blurVTexture, err = newRenderTexture(p.ctx, width, height, 1, "Bloom.BlurV")
	if err != nil {
		return fmt.Errorf("vertical blur texture: %w", err)
	}

	return nil
}

func (p *Pipeline) createUniformBuffers() error {
	defaults := p.params

	buffers := []struct {
		target **wgpu.Buffer
		label  string
		values []float32
	}{
		{&p.thresholdBuffer, "Bloom.Threshold", []float32{defaults.Threshold}},
		{&p.blurHBuffer, "Bloom.BlurHDirection", defaults.BlurHDirection[:]},
		{&p.blurVBuffer, "Bloom.BlurVDirection", defaults.BlurVDirection[:]},
		{&p.intensityBuffer, "Bloom.Intensity", []float32{defaults.Intensity}},
		{&p.adaptiveScalingBuffer, "Bloom.AdaptiveScaling", []float32{defaults.AdaptiveScaling}},
		{&p.maxRadiusBuffer, "Bloom.MaxRadius", []float32{defaults.MaxRadius}},
		{&p.intensityCurveBuffer, "Bloom.IntensityCurve", []float32{defaults.IntensityCurve}},
	}

	for _, buf := range buffers {
		created, err := p.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    buf.label,
			Contents: wgpu.ToBytes(buf.values),
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})

		if err != nil {
			return fmt.Errorf("create uniform buffer %q: %w", buf.label, err)
		}

		*buf.target = created
	}

	return nil
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
			Multisampled:  false,
		},
	}
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Sampler: wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		},
	}
}

func uniformEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:             wgpu.BufferBindingTypeUniform,
			HasDynamicOffset: false,
		},
	}
}

func (p *Pipeline) createLayouts() error {
	var err error

	p.brightnessLayout, err = p.ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bloom.BrightnessLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			textureEntry(0),
			samplerEntry(1),
			uniformEntry(2),
		},
	})
	if err != nil {
		return fmt.Errorf("brightness bind group layout: %w", err)
	}

	p.blurLayout, err = p.ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bloom.BlurLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			textureEntry(0),
			samplerEntry(1),
			uniformEntry(2), // direction
			uniformEntry(3), // adaptive scaling
			uniformEntry(4), // max radius
		},
	})
	if err != nil {
		return fmt.Errorf("blur bind group layout: %w", err)
	}

	p.compositeLayout, err = p.ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bloom.CompositeLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			textureEntry(0), // scene
			textureEntry(1), // bloom
			samplerEntry(2),
			uniformEntry(3), // intensity
			uniformEntry(4), // intensity curve
		},
	})
	if err != nil {
		return fmt.Errorf("composite bind group layout: %w", err)
	}

	return nil
}

func (p *Pipeline) createBindGroups() error {
	var err error

	p.brightnessBindGroup, err = p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bloom.BrightnessBindGroup",
		Layout: p.brightnessLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.sceneTexture.SourceView()},
			{Binding: 1, Sampler: p.sampler},
			{Binding: 2, Buffer: p.thresholdBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("brightness bind group: %w", err)
	}

	p.blurHBindGroup, err = p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bloom.BlurHBindGroup",
		Layout: p.blurLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.brightnessTexture.SourceView()},
			{Binding: 1, Sampler: p.sampler},
			{Binding: 2, Buffer: p.blurHBuffer, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: p.adaptiveScalingBuffer, Size: wgpu.WholeSize},
			{Binding: 4, Buffer: p.maxRadiusBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("horizontal blur bind group: %w", err)
	}

	p.blurVBindGroup, err = p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bloom.BlurVBindGroup",
		Layout: p.blurLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.blurHTexture.SourceView()},
			{Binding: 1, Sampler: p.sampler},
			{Binding: 2, Buffer: p.blurVBuffer, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: p.adaptiveScalingBuffer, Size: wgpu.WholeSize},
			{Binding: 4, Buffer: p.maxRadiusBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("vertical blur bind group: %w", err)
	}

	p.compositeBindGroup, err = p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Bloom.CompositeBindGroup",
		Layout: p.compositeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.sceneTexture.SourceView()},
			{Binding: 1, TextureView: p.blurVTexture.SourceView()},
			{Binding: 2, Sampler: p.sampler},
			{Binding: 3, Buffer: p.intensityBuffer, Size: wgpu.WholeSize},
			{Binding: 4, Buffer: p.intensityCurveBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("composite bind group: %w", err)
	}

	return nil
}

func (p *Pipeline) createPipelines() error {
	var err error

	p.brightnessPipeline, err = createRenderPipeline(p.ctx, "Bloom.BrightnessPipeline", p.brightnessLayout, brightnessShaderCode)
	if err != nil {
		return fmt.Errorf("brightness pipeline: %w", err)
	}

	p.blurPipeline, err = createRenderPipeline(p.ctx, "Bloom.BlurPipeline", p.blurLayout, blurShaderCode)
	if err != nil {
		return fmt.Errorf("blur pipeline: %w", err)
	}

	p.compositePipeline, err = createRenderPipeline(p.ctx, "Bloom.CompositePipeline", p.compositeLayout, compositeShaderCode)
	if err != nil {
		return fmt.Errorf("composite pipeline: %w", err)
	}

	return nil
}

func createRenderPipeline(ctx *Context, label string, layout *wgpu.BindGroupLayout, source string) (*wgpu.RenderPipeline, error) {
	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      label + ".Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	defer shader.Release()

	pipelineLayout, err := ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + ".PipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer pipelineLayout.Release()

	pipeline, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    wgpu.TextureFormatRGBA16Float,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	return pipeline, nil
}

// Release frees every GPU object the pipeline owns. The shared sampler
// lives in the context cache and is released with the Context.
func (p *Pipeline) Release() {
	bindGroups := []*wgpu.BindGroup{
		p.brightnessBindGroup, p.blurHBindGroup, p.blurVBindGroup, p.compositeBindGroup,
	}
	for _, bg := range bindGroups {
		if bg != nil {
			bg.Release()
		}
	}

	pipelines := []*wgpu.RenderPipeline{
		p.brightnessPipeline, p.blurPipeline, p.compositePipeline,
	}
	for _, pl := range pipelines {
		if pl != nil {
			pl.Release()
		}
	}

	layouts := []*wgpu.BindGroupLayout{
		p.brightnessLayout, p.blurLayout, p.compositeLayout,
	}
	for _, l := range layouts {
		if l != nil {
			l.Release()
		}
	}

	buffers := []*wgpu.Buffer{
		p.thresholdBuffer, p.blurHBuffer, p.blurVBuffer, p.intensityBuffer,
		p.adaptiveScalingBuffer, p.maxRadiusBuffer, p.intensityCurveBuffer,
	}
	for _, buf := range buffers {
		if buf != nil {
			buf.Release()
		}
	}

	textures := []*Texture{
		p.sceneTexture, p.brightnessTexture, p.blurHTexture, p.blurVTexture,
	}
	for _, tex := range textures {
		if tex != nil {
			tex.Release()
		}
	}
}
