package fraud

import "testing"

func TestPseudoDistance_SameStringIsZero(t *testing.T) {
	if d := PseudoDistance("Mumbai", "Mumbai"); d != 0 {
		t.Errorf("identical strings must yield 0, got %f", d)
	}
	if d := PseudoDistance("  mumbai ", "Mumbai"); d != 0 {
		t.Errorf("case/space variants must yield 0, got %f", d)
	}
}

func TestPseudoDistance_EmptyIsZero(t *testing.T) {
	if d := PseudoDistance("", "Delhi"); d != 0 {
		t.Errorf("empty location must yield 0, got %f", d)
	}
}

func TestPseudoDistance_Deterministic(t *testing.T) {
	first := PseudoDistance("Mumbai", "Delhi")
	for i := 0; i < 10; i++ {
		if got := PseudoDistance("Mumbai", "Delhi"); got != first {
			t.Fatalf("distance not deterministic: %f vs %f", got, first)
		}
	}
}

func TestPseudoDistance_Symmetric(t *testing.T) {
	if PseudoDistance("Mumbai", "Delhi") != PseudoDistance("Delhi", "Mumbai") {
		t.Error("distance must be symmetric")
	}
}

func TestPseudoDistance_Range(t *testing.T) {
	pairs := [][2]string{
		{"Mumbai", "Delhi"},
		{"Chennai", "Kolkata"},
		{"Pune", "Jaipur"},
		{"a", "b"},
	}
	for _, p := range pairs {
		d := PseudoDistance(p[0], p[1])
		if d < 1 || d > maxPseudoDistance {
			t.Errorf("distance for %v out of range: %f", p, d)
		}
	}
}
