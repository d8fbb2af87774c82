package bloom

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestSamplerCacheIsPerContext(t *testing.T) {
	a := &Context{samplers: newSamplerCache()}
	b := &Context{samplers: newSamplerCache()}

	desc := wgpu.SamplerDescriptor{Label: "Bloom.Sampler"}
	a.samplers.Add(desc, nil)

	// a sampler is only valid on the device that created it, another
	// context must never see it
	if _, ok := b.samplers.Get(desc); ok {
		t.Error("sampler cached on one context is visible on another")
	}

	if _, ok := a.samplers.Get(desc); !ok {
		t.Error("sampler not found on the context that cached it")
	}
}

func TestContextReleasePurgesSamplerCache(t *testing.T) {
	ctx := &Context{samplers: newSamplerCache()}
	ctx.samplers.Add(wgpu.SamplerDescriptor{Label: "Bloom.Sampler"}, nil)

	ctx.Release()

	if got := ctx.samplers.Len(); got != 0 {
		t.Errorf("cache holds %d samplers after release, want 0", got)
	}
}
