package bloom

import (
	"os"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Queue and active Adapter. Surface is only
// set when the context was created for a window.
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	// samplers created on this context's device
	samplers *lru.Cache[wgpu.SamplerDescriptor, *wgpu.Sampler]
}

// NewContext initializes a webgpu device. Pass a surface descriptor to
// render to a window, or nil for a headless context.
func NewContext(sd *wgpu.SurfaceDescriptor) (ctx *Context, err error) {
	defer func() {
		if err != nil && ctx != nil {
			ctx.Release()
			ctx = nil
		}
	}()

	ctx = &Context{samplers: newSamplerCache()}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	opts := &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	}

	if sd != nil {
		ctx.Surface = instance.CreateSurface(sd)
		opts.CompatibleSurface = ctx.Surface
	}

	ctx.Adapter, err = instance.RequestAdapter(opts)
	if err != nil {
		return
	}

	// get a Device with the default settings
	ctx.Device, err = ctx.Adapter.RequestDevice(nil)
	if err != nil {
		return
	}

	ctx.Queue = ctx.Device.GetQueue()

	return ctx, nil
}

func (d *Context) Release() {
	// cached samplers belong to the device, drop them first
	if d.samplers != nil {
		d.samplers.Purge()
	}

	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
