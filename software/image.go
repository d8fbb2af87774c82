// Package software is a CPU rendition of the bloom pipeline. It mirrors
// the shader math tap for tap and exists so the pipeline behaviour can
// be verified without a GPU.
package software

import (
	"github.com/chewxy/math32"
	"github.com/oliverbestmann/bloom/glm"
)

// Image is a dense float RGB image. Alpha is implicit, the pipeline
// writes opaque output in every pass.
type Image struct {
	width  int
	height int
	pixels []glm.Vec3f
}

func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		pixels: make([]glm.Vec3f, width*height),
	}
}

func (img *Image) Width() int {
	return img.width
}

func (img *Image) Height() int {
	return img.height
}

// At returns the pixel at x, y with clamp to edge semantics, matching
// the address mode of the pipeline sampler.
func (img *Image) At(x, y int) glm.Vec3f {
	x = glm.Clamp(x, 0, img.width-1)
	y = glm.Clamp(y, 0, img.height-1)

	return img.pixels[y*img.width+x]
}

func (img *Image) Set(x, y int, value glm.Vec3f) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return
	}

	img.pixels[y*img.width+x] = value
}

// Fill sets every pixel to the given value.
func (img *Image) Fill(value glm.Vec3f) {
	for idx := range img.pixels {
		img.pixels[idx] = value
	}
}

// Sample bilinearly interpolates the image at a uv coordinate in
// [0, 1], the way a linear filtering sampler does: texel centers sit at
// (i + 0.5) / size and coordinates outside the image clamp to the edge.
func (img *Image) Sample(uv glm.Vec2f) glm.Vec3f {
	x := uv[0]*float32(img.width) - 0.5
	y := uv[1]*float32(img.height) - 0.5

	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))

	fx := x - float32(x0)
	fy := y - float32(y0)

	top := mix3(img.At(x0, y0), img.At(x0+1, y0), fx)
	bottom := mix3(img.At(x0, y0+1), img.At(x0+1, y0+1), fx)

	return mix3(top, bottom, fy)
}

func mix3(a, b glm.Vec3f, t float32) glm.Vec3f {
	return glm.Vec3f{
		glm.Mix(a[0], b[0], t),
		glm.Mix(a[1], b[1], t),
		glm.Mix(a[2], b[2], t),
	}
}
