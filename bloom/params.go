package bloom

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/bloom/glm"
)

// Params are the tunable parameters of the pipeline. The zero value is
// not useful, start from DefaultParams.
type Params struct {
	// Threshold is the luminance knee of the brightness pass. Pixels
	// below it contribute no bloom.
	Threshold float32

	// Intensity multiplies the bloom contribution in the composite pass.
	Intensity float32

	// AdaptiveScaling scales the blur radius with local brightness.
	AdaptiveScaling float32

	// MaxRadius is the upper clamp on the blur radius, in texels.
	MaxRadius float32

	// IntensityCurve is the exponent shaping the bloom response:
	// dim bloom is suppressed, bright bloom boosted.
	IntensityCurve float32

	// Blur sampling directions. The non-unit vertical default of
	// (0, 0.7) is intentional, it gives the bloom a slight horizontal
	// bias.
	BlurHDirection glm.Vec2f
	BlurVDirection glm.Vec2f
}

func DefaultParams() Params {
	return Params{
		Threshold:       0.55,
		Intensity:       3.0,
		AdaptiveScaling: 5.0,
		MaxRadius:       40.0,
		IntensityCurve:  5.0,
		BlurHDirection:  glm.Vec2f{1.0, 0.0},
		BlurVDirection:  glm.Vec2f{0.0, 0.7},
	}
}

// Params returns the current host-side parameter values.
func (p *Pipeline) Params() Params {
	return p.params
}

// SetBrightnessThreshold updates the luminance knee of the brightness
// pass. Like all setters it rewrites the existing uniform buffer in
// place, bind groups stay valid.
func (p *Pipeline) SetBrightnessThreshold(threshold float32) error {
	p.params.Threshold = threshold
	return p.writeScalar(p.thresholdBuffer, threshold)
}

// SetBloomIntensity updates the composite multiplier on the bloom
// contribution.
func (p *Pipeline) SetBloomIntensity(intensity float32) error {
	p.params.Intensity = intensity
	return p.writeScalar(p.intensityBuffer, intensity)
}

// SetAdaptiveBlurScaling updates how strongly the blur radius grows
// with local brightness.
func (p *Pipeline) SetAdaptiveBlurScaling(scaling float32) error {
	p.params.AdaptiveScaling = scaling
	return p.writeScalar(p.adaptiveScalingBuffer, scaling)
}

// SetMaxBlurRadius updates the upper clamp on the blur radius in
// texels. Negative values behave like zero.
func (p *Pipeline) SetMaxBlurRadius(radius float32) error {
	p.params.MaxRadius = radius
	return p.writeScalar(p.maxRadiusBuffer, radius)
}

// SetIntensityCurve updates the exponent shaping the bloom response.
func (p *Pipeline) SetIntensityCurve(curve float32) error {
	p.params.IntensityCurve = curve
	return p.writeScalar(p.intensityCurveBuffer, curve)
}

func (p *Pipeline) writeScalar(buf *wgpu.Buffer, value float32) error {
	return p.ctx.WriteBuffer(buf, 0, wgpu.ToBytes([]float32{value}))
}
