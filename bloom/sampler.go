package bloom

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// newSamplerCache creates the per context sampler cache. A sampler is
// only valid on the device that created it, so the cache hangs off the
// Context instead of being shared process wide.
func newSamplerCache() *lru.Cache[wgpu.SamplerDescriptor, *wgpu.Sampler] {
	cache, _ := lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](8, func(key wgpu.SamplerDescriptor, value *wgpu.Sampler) {
		if value != nil {
			value.Release()
		}
	})

	return cache
}

// linearClampSampler returns the linear/clamp-to-edge sampler every
// pass of the pipeline binds. The sampler is owned by the context
// cache, you must not call wgpu.Sampler.Release() on it.
func linearClampSampler(ctx *Context) (*wgpu.Sampler, error) {
	desc := wgpu.SamplerDescriptor{
		Label:         "Bloom.Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	}

	cached, ok := ctx.samplers.Get(desc)
	if ok {
		return cached, nil
	}

	sampler, err := ctx.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	ctx.samplers.Add(desc, sampler)

	return sampler, nil
}
