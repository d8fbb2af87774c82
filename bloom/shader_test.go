package bloom

import (
	"fmt"
	"strings"
	"testing"
)

// The shaders are embedded at build time, these tests catch a missing
// entry point or a binding index that drifted away from the bind group
// layouts in pipeline.go.
func TestShaderEntryPoints(t *testing.T) {
	shaders := map[string]string{
		"brightness": brightnessShaderCode,
		"blur":       blurShaderCode,
		"composite":  compositeShaderCode,
	}

	for name, code := range shaders {
		t.Run(name, func(t *testing.T) {
			if !strings.Contains(code, "fn vs_main") {
				t.Error("missing vertex entry point vs_main")
			}

			if !strings.Contains(code, "fn fs_main") {
				t.Error("missing fragment entry point fs_main")
			}
		})
	}
}

func TestShaderBindings(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		bindings int
	}{
		{"brightness", brightnessShaderCode, 3},
		{"blur", blurShaderCode, 5},
		{"composite", compositeShaderCode, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for binding := 0; binding < tt.bindings; binding++ {
				decl := fmt.Sprintf("@binding(%d)", binding)
				if !strings.Contains(tt.code, decl) {
					t.Errorf("missing %s", decl)
				}
			}

			next := fmt.Sprintf("@binding(%d)", tt.bindings)
			if strings.Contains(tt.code, next) {
				t.Errorf("unexpected %s", next)
			}
		})
	}
}

func TestBlurShaderUniformControlFlow(t *testing.T) {
	// textureSample requires uniform control flow, which a loop with a
	// data dependent trip count cannot guarantee. The blur shader must
	// sample with an explicit lod instead.
	if strings.Contains(blurShaderCode, "textureSample(") {
		t.Error("blur shader uses textureSample, want textureSampleLevel")
	}

	if !strings.Contains(blurShaderCode, "textureSampleLevel(") {
		t.Error("blur shader does not use textureSampleLevel")
	}
}
