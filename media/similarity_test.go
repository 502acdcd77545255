package media

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) < 1e-4
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}, 0},
		{"unit apart", []float32{1, 0, 0, 0}, []float32{0, 0, 0, 0}, 1},
		{"pythagorean", []float32{3, 0}, []float32{0, 4}, 5},
		{"nil a", nil, []float32{1, 2}, 0},
		{"nil b", []float32{1, 2}, nil, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceCommutative(t *testing.T) {
	a := []float32{0.5, 0.1, 0.9, 0.3}
	b := []float32{0.2, 0.8, 0.4, 0.6}
	if Distance(a, b) != Distance(b, a) {
		t.Errorf("Distance is not commutative: %v vs %v", Distance(a, b), Distance(b, a))
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		// distance 1 over sqrt(4) gives normalized distance 0.5
		{"half distance", []float32{1, 0, 0, 0}, []float32{0, 0, 0, 0}, 50},
		{"identical", []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}, 100},
		{"nil a", nil, []float32{1, 2}, 0},
		{"nil b", []float32{1, 2}, nil, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		// normalized distance above 1 clamps to zero instead of going negative
		{"far apart clamps", []float32{10, 10}, []float32{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Similarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityCommutative(t *testing.T) {
	a := []float32{0.5, 0.1, 0.9, 0.3}
	b := []float32{0.2, 0.8, 0.4, 0.6}
	if Similarity(a, b) != Similarity(b, a) {
		t.Errorf("Similarity is not commutative: %v vs %v", Similarity(a, b), Similarity(b, a))
	}
}

func TestIsMatch(t *testing.T) {
	base := []float32{0, 0, 0, 0}
	near := []float32{1, 0, 0, 0} // normalized distance 0.5
	far := []float32{2, 2, 0, 0}  // normalized distance sqrt(8)/2 > 1

	tests := []struct {
		name      string
		a         []float32
		b         []float32
		tolerance float32
		want      bool
	}{
		{"within tolerance", base, near, DefaultTolerance, true},
		{"outside tolerance", base, far, DefaultTolerance, false},
		{"boundary is exclusive", base, near, 0.5, false},
		{"nil encoding never matches", nil, near, DefaultTolerance, false},
		{"mismatched lengths never match", []float32{1, 2}, near, DefaultTolerance, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatch(tt.a, tt.b, tt.tolerance); got != tt.want {
				t.Errorf("IsMatch(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tolerance, got, tt.want)
			}
		})
	}
}
