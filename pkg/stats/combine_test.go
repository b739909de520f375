package stats

import (
	"math"
	"testing"
)

func TestStouffer(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 float64
		want   float64
		tol    float64
	}{
		{"neutral", 0.5, 0.5, 0.5, 1e-12},
		{"both one", 1, 1, 1, 1e-9},
		{"order symmetric", 0.2, 0.7, Stouffer(0.7, 0.2), 0},
		{"symmetric", 0.05, 0.05, 0.0100, 1e-4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stouffer(tt.p1, tt.p2); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Stouffer(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestCombiners_OneDoesNotDominate(t *testing.T) {
	for _, name := range []string{"stouffer", "fisher", "tippett", "mean"} {
		c, err := CombinerByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := c(1e-5, 1); !(got < 1) {
			t.Errorf("%s(1e-5, 1) = %v, want < 1", name, got)
		}
	}
	// The strong signal must still be visible against a certain null.
	if got, ref := Stouffer(1e-5, 1), Stouffer(1e-5, 0.999999); math.Abs(got-ref) > 0.5 {
		t.Errorf("Stouffer(1e-5, 1) = %v, far from Stouffer(1e-5, 0.999999) = %v", got, ref)
	}
}

func TestFisher_ClosedForm(t *testing.T) {
	p1, p2 := 0.03, 0.4
	pi := p1 * p2
	want := pi * (1 - math.Log(pi))
	if got := Fisher(p1, p2); math.Abs(got-want) > 1e-9 {
		t.Errorf("Fisher() = %v, want %v", got, want)
	}
}

func TestCombiners_Bounds(t *testing.T) {
	inputs := []float64{1e-320, 1e-12, 0.01, 0.5, 0.99, 1}
	for _, name := range CombinerNames() {
		c, err := CombinerByName(name)
		if err != nil {
			t.Fatalf("CombinerByName(%q) error: %v", name, err)
		}
		for _, a := range inputs {
			for _, b := range inputs {
				if got := c(a, b); !(got > 0 && got <= 1) {
					t.Errorf("%s(%v, %v) = %v, want in (0, 1]", name, a, b, got)
				}
			}
		}
	}
}

func TestCombinerByName_Unknown(t *testing.T) {
	if _, err := CombinerByName("nope"); err == nil {
		t.Error("CombinerByName(nope) = nil error, want error")
	}
	if c, err := CombinerByName(""); err != nil || c == nil {
		t.Errorf("CombinerByName(\"\") = %v, %v; want default", c, err)
	}
}
