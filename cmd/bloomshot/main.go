// Command bloomshot renders a synthetic test scene through the bloom
// pipeline on a headless device and writes the tonemapped result as a
// png. It is the quickest way to eyeball a parameter combination.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/bloom/bloom"
)

//go:embed scene.wgsl
var sceneShaderSource string

func main() {
	width := flag.Uint("width", 1024, "output width in pixels")
	height := flag.Uint("height", 576, "output height in pixels")
	samples := flag.Uint("samples", 1, "msaa sample count for the scene pass")

	threshold := flag.Float64("threshold", 0.55, "brightness threshold")
	intensity := flag.Float64("intensity", 3.0, "bloom intensity")
	scaling := flag.Float64("scaling", 5.0, "adaptive blur scaling")
	radius := flag.Float64("radius", 40.0, "maximum blur radius in texels")
	curve := flag.Float64("curve", 5.0, "bloom intensity curve exponent")

	output := flag.String("o", "bloomshot.png", "output file")

	flag.Parse()

	err := run(uint32(*width), uint32(*height), uint32(*samples), bloom.Params{
		Threshold:       float32(*threshold),
		Intensity:       float32(*intensity),
		AdaptiveScaling: float32(*scaling),
		MaxRadius:       float32(*radius),
		IntensityCurve:  float32(*curve),
		BlurHDirection:  bloom.DefaultParams().BlurHDirection,
		BlurVDirection:  bloom.DefaultParams().BlurVDirection,
	}, *output)

	if err != nil {
		slog.Error("Render failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(width, height, samples uint32, params bloom.Params, output string) error {
	ctx, err := bloom.NewContext(nil)
	if err != nil {
		return fmt.Errorf("initialize webgpu: %w", err)
	}

	defer ctx.Release()

	pipeline, err := bloom.New(ctx, width, height, samples)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	defer pipeline.Release()

	if err := applyParams(pipeline, params); err != nil {
		return fmt.Errorf("apply parameters: %w", err)
	}

	outputTexture, err := ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Bloomshot.Output",
		Format:        wgpu.TextureFormatRGBA16Float,
		SampleCount:   1,
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Usage: wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create output texture: %w", err)
	}

	defer outputTexture.Release()

	outputView, err := outputTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create output view: %w", err)
	}

	defer outputView.Release()

	scenePipeline, err := createScenePipeline(ctx, samples)
	if err != nil {
		return err
	}

	defer scenePipeline.Release()

	drawScene := func(encoder *wgpu.CommandEncoder, target *bloom.RenderTarget) error {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "Bloomshot.ScenePass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:          target.View,
					ResolveTarget: target.ResolveTarget,
					LoadOp:        wgpu.LoadOpClear,
					StoreOp:       wgpu.StoreOpStore,
					ClearValue:    wgpu.Color{A: 1},
				},
			},
		})

		defer pass.Release()

		pass.SetPipeline(scenePipeline)
		pass.Draw(3, 1, 0, 0)

		return pass.End()
	}

	if err := pipeline.Process(outputView, drawScene); err != nil {
		return fmt.Errorf("process frame: %w", err)
	}

	img, err := readback(ctx, outputTexture, width, height)
	if err != nil {
		return fmt.Errorf("read back output: %w", err)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	slog.Info("Wrote image", slog.String("file", output))

	return nil
}

func applyParams(pipeline *bloom.Pipeline, params bloom.Params) error {
	if err := pipeline.SetBrightnessThreshold(params.Threshold); err != nil {
		return err
	}

	if err := pipeline.SetBloomIntensity(params.Intensity); err != nil {
		return err
	}

	if err := pipeline.SetAdaptiveBlurScaling(params.AdaptiveScaling); err != nil {
		return err
	}

	if err := pipeline.SetMaxBlurRadius(params.MaxRadius); err != nil {
		return err
	}

	return pipeline.SetIntensityCurve(params.IntensityCurve)
}

func createScenePipeline(ctx *bloom.Context, samples uint32) (*wgpu.RenderPipeline, error) {
	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Bloomshot.SceneShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: sceneShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile scene shader: %w", err)
	}

	defer shader.Release()

	pipeline, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Bloomshot.ScenePipeline",
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
					Blend:     &wgpu.BlendStateReplace,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: max(samples, 1),
			Mask:  0xffffffff,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create scene pipeline: %w", err)
	}

	return pipeline, nil
}

// readback copies the RGBA16F texture into a mappable buffer and
// decodes it into a tonemapped 8 bit image.
func readback(ctx *bloom.Context, texture *wgpu.Texture, width, height uint32) (*image.RGBA, error) {
	const bytesPerPixel = 8

	// buffer copies require rows aligned to 256 bytes
	const rowAlignment = 256
	bytesPerRow := (width*bytesPerPixel + rowAlignment - 1) / rowAlignment * rowAlignment

	size := uint64(bytesPerRow) * uint64(height)

	staging, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Bloomshot.Staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}

	defer staging.Release()

	encoder, err := ctx.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	err = encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture: texture,
			Aspect:  wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("copy texture to buffer: %w", err)
	}

	buf, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish command encoder: %w", err)
	}

	defer buf.Release()

	ctx.Submit(buf)
	ctx.Poll(true, nil)

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("map failed: %v", status)
			return
		}

		done <- nil
	})

	ctx.Poll(true, nil)

	if err := <-done; err != nil {
		return nil, err
	}

	defer staging.Unmap()

	data := staging.GetMappedRange(0, uint(size))

	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))

	for y := uint32(0); y < height; y++ {
		row := data[y*bytesPerRow:]

		for x := uint32(0); x < width; x++ {
			px := row[x*bytesPerPixel:]

			r := halfToFloat(uint16(px[0]) | uint16(px[1])<<8)
			g := halfToFloat(uint16(px[2]) | uint16(px[3])<<8)
			b := halfToFloat(uint16(px[4]) | uint16(px[5])<<8)

			img.SetRGBA(int(x), int(y), color.RGBA{
				R: tonemap(r),
				G: tonemap(g),
				B: tonemap(b),
				A: 0xff,
			})
		}
	}

	return img, nil
}

// tonemap maps an hdr value to 8 bit with reinhard plus gamma, the same
// mapping the interactive demo uses in its blit shader.
func tonemap(v float32) uint8 {
	mapped := math.Pow(float64(v/(v+1)), 1/2.2)
	return uint8(mapped*255 + 0.5)
}

func halfToFloat(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch exp {
	case 0:
		// subnormals flush to zero, the output never gets that small
		return math.Float32frombits(sign)
	case 31:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
	}
}
