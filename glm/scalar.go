package glm

import "golang.org/x/exp/constraints"

type numeric interface {
	constraints.Float | uint32
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Mix linearly interpolates between a and b.
func Mix[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// SmoothStep is the hermite interpolation of GLSL/WGSL smoothstep:
// 0 for v <= edge0, 1 for v >= edge1, smooth in between.
func SmoothStep[T constraints.Float](edge0, edge1, v T) T {
	t := Clamp((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
