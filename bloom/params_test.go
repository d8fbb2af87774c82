package bloom

import (
	"testing"

	"github.com/oliverbestmann/bloom/glm"
)

func TestDefaultParams(t *testing.T) {
	params := DefaultParams()

	if params.Threshold != 0.55 {
		t.Errorf("Threshold = %v, want 0.55", params.Threshold)
	}

	if params.Intensity != 3.0 {
		t.Errorf("Intensity = %v, want 3.0", params.Intensity)
	}

	if params.AdaptiveScaling != 5.0 {
		t.Errorf("AdaptiveScaling = %v, want 5.0", params.AdaptiveScaling)
	}

	if params.MaxRadius != 40.0 {
		t.Errorf("MaxRadius = %v, want 40.0", params.MaxRadius)
	}

	if params.IntensityCurve != 5.0 {
		t.Errorf("IntensityCurve = %v, want 5.0", params.IntensityCurve)
	}

	if params.BlurHDirection != (glm.Vec2f{1.0, 0.0}) {
		t.Errorf("BlurHDirection = %v, want (1, 0)", params.BlurHDirection)
	}

	// the vertical direction is intentionally not a unit vector
	if params.BlurVDirection != (glm.Vec2f{0.0, 0.7}) {
		t.Errorf("BlurVDirection = %v, want (0, 0.7)", params.BlurVDirection)
	}
}
