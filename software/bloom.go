package software

import (
	"github.com/chewxy/math32"
	"github.com/oliverbestmann/bloom/bloom"
	"github.com/oliverbestmann/bloom/glm"
)

// halfTaps matches the shader constant, 13 taps per blur pass.
const halfTaps = 6

var lumaWeights = glm.Vec3f{0.2126, 0.7152, 0.0722}

func luminance(rgb glm.Vec3f) float32 {
	return rgb.Dot(lumaWeights)
}

// BrightPass extracts the bloom source: pixels fade in over a soft knee
// of 0.5 luminance above the threshold.
func BrightPass(scene *Image, threshold float32) *Image {
	out := NewImage(scene.Width(), scene.Height())

	for y := 0; y < scene.Height(); y++ {
		for x := 0; x < scene.Width(); x++ {
			rgb := scene.At(x, y)
			gain := glm.SmoothStep(threshold, threshold+0.5, luminance(rgb))
			out.Set(x, y, rgb.MulScalar(gain))
		}
	}

	return out
}

// BlurPass runs one adaptive gaussian pass along direction. The radius
// at each pixel grows with the local brightness, clamped to maxRadius.
func BlurPass(input *Image, direction glm.Vec2f, adaptiveScaling, maxRadius float32) *Image {
	out := NewImage(input.Width(), input.Height())

	texel := glm.Vec2f{
		1.0 / float32(input.Width()),
		1.0 / float32(input.Height()),
	}

	for y := 0; y < input.Height(); y++ {
		for x := 0; x < input.Width(); x++ {
			uv := glm.Vec2f{
				(float32(x) + 0.5) * texel[0],
				(float32(y) + 0.5) * texel[1],
			}

			center := input.Sample(uv)

			radius := glm.Clamp(luminance(center)*adaptiveScaling, 0, max(maxRadius, 0))
			stepSize := radius / halfTaps
			sigma := max(radius*0.5, 1e-4)

			var sum glm.Vec3f
			var weightSum float32

			for i := -halfTaps; i <= halfTaps; i++ {
				offset := float32(i) * stepSize
				weight := math32.Exp(-0.5 * offset * offset / (sigma * sigma))

				tapUV := uv.Add(direction.Mul(texel).MulScalar(offset))
				sum = sum.Add(input.Sample(tapUV).MulScalar(weight))
				weightSum += weight
			}

			out.Set(x, y, sum.MulScalar(1/weightSum))
		}
	}

	return out
}

// Composite adds the shaped bloom on top of the scene. The shaping
// exponent suppresses dim bloom and boosts bright bloom.
func Composite(scene, bloomImage *Image, intensity, intensityCurve float32) *Image {
	out := NewImage(scene.Width(), scene.Height())

	for y := 0; y < scene.Height(); y++ {
		for x := 0; x < scene.Width(); x++ {
			base := scene.At(x, y)
			glow := bloomImage.At(x, y)

			var shaped float32
			if luma := luminance(glow); luma > 0 {
				shaped = math32.Pow(luma, intensityCurve)
			}

			out.Set(x, y, base.Add(glow.MulScalar(shaped*intensity)))
		}
	}

	return out
}

// Process runs the full four pass pipeline on the CPU.
func Process(scene *Image, params bloom.Params) *Image {
	bright := BrightPass(scene, params.Threshold)
	blurH := BlurPass(bright, params.BlurHDirection, params.AdaptiveScaling, params.MaxRadius)
	blurV := BlurPass(blurH, params.BlurVDirection, params.AdaptiveScaling, params.MaxRadius)

	return Composite(scene, blurV, params.Intensity, params.IntensityCurve)
}
