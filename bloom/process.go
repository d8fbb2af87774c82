package bloom

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SceneDrawFunc records the scene into the given render target. The
// callback begins and ends its own render pass on the encoder, the
// pipeline only provides the attachment.
type SceneDrawFunc func(encoder *wgpu.CommandEncoder, target *RenderTarget) error

// passSpec is one fullscreen pass: a pipeline and its bind group
// rendering into a target view.
type passSpec struct {
	label     string
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
	target    *wgpu.TextureView
}

// Process renders one bloomed frame. The scene callback draws into the
// internal scene texture, then the brightness, blur and composite
// passes run in order, the last one into the output view. Each pass is
// submitted as its own command buffer. Process blocks until the queue
// has drained.
func (p *Pipeline) Process(output *wgpu.TextureView, drawScene SceneDrawFunc) error {
	if err := p.submitScene(drawScene); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}

	passes := []passSpec{
		{
			label:     "Bloom.BrightnessPass",
			pipeline:  p.brightnessPipeline,
			bindGroup: p.brightnessBindGroup,
			target:    p.brightnessTexture.SourceView(),
		},
		{
			label:     "Bloom.HorizontalBlurPass",
			pipeline:  p.blurPipeline,
			bindGroup: p.blurHBindGroup,
			target:    p.blurHTexture.SourceView(),
		},
		{
			label:     "Bloom.VerticalBlurPass",
			pipeline:  p.blurPipeline,
			bindGroup: p.blurVBindGroup,
			target:    p.blurVTexture.SourceView(),
		},
		{
			label:     "Bloom.CompositePass",
			pipeline:  p.compositePipeline,
			bindGroup: p.compositeBindGroup,
			target:    output,
		},
	}

	for _, pass := range passes {
		if err := p.submitPass(pass); err != nil {
			return fmt.Errorf("%s: %w", pass.label, err)
		}
	}

	p.ctx.Poll(true, nil)

	return nil
}

func (p *Pipeline) submitScene(drawScene SceneDrawFunc) error {
	encoder, err := p.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Bloom.ScenePass",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	encoderGuard := NewReleaseGuard(encoder)
	defer encoderGuard.Release()

	if err := drawScene(encoder, p.SceneTarget()); err != nil {
		return err
	}

	buf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	bufGuard := NewReleaseGuard(buf)
	defer bufGuard.Release()

	p.ctx.Submit(buf)

	return nil
}

func (p *Pipeline) submitPass(pass passSpec) error {
	encoder, err := p.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: pass.label,
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	encoderGuard := NewReleaseGuard(encoder)
	defer encoderGuard.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: pass.label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       pass.target,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{A: 1},
			},
		},
	})

	passGuard := NewReleaseGuard(renderPass)
	defer passGuard.Release()

	renderPass.SetPipeline(pass.pipeline)
	renderPass.SetBindGroup(0, pass.bindGroup, nil)

	// fullscreen triangle, the vertex shader synthesizes the corners
	renderPass.Draw(3, 1, 0, 0)

	if err := renderPass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	// the pass must be released before the encoder can finish
	passGuard.Release()

	buf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	bufGuard := NewReleaseGuard(buf)
	defer bufGuard.Release()

	p.ctx.Submit(buf)

	return nil
}
