package glm

import "testing"

func TestVec2Dot(t *testing.T) {
	a := Vec2f{1, 2}
	b := Vec2f{3, 4}

	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
}

func TestVec2Magnitude(t *testing.T) {
	v := Vec2f{3, 4}

	if got := v.Magnitude(); got != 5 {
		t.Errorf("Magnitude = %v, want 5", got)
	}
}

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2f{1, 2}
	b := Vec2f{3, 5}

	if got := a.Add(b); got != (Vec2f{4, 7}) {
		t.Errorf("Add = %v, want (4, 7)", got)
	}

	if got := b.Sub(a); got != (Vec2f{2, 3}) {
		t.Errorf("Sub = %v, want (2, 3)", got)
	}

	if got := a.Mul(b); got != (Vec2f{3, 10}) {
		t.Errorf("Mul = %v, want (3, 10)", got)
	}

	if got := a.MulScalar(2); got != (Vec2f{2, 4}) {
		t.Errorf("MulScalar = %v, want (2, 4)", got)
	}
}

func TestVec3Dot(t *testing.T) {
	// Rec. 709 luma weights sum to one
	weights := Vec3f{0.2126, 0.7152, 0.0722}
	white := Vec3f{1, 1, 1}

	if got := weights.Dot(white); got != 0.2126+0.7152+0.0722 {
		t.Errorf("Dot = %v, want weights sum", got)
	}
}
