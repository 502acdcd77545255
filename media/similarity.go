package media

import "math"

// DefaultTolerance is the fraction threshold used by IsMatch. It is a
// normalized-distance bound in [0,1], not a percentage; GallerySearcher
// thresholds are percentages and the two must not be mixed.
const DefaultTolerance = 0.6

// Distance returns the Euclidean distance between two encodings. Returns 0
// when either encoding is missing or the lengths differ.
func Distance(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// NormalizedDistance divides the Euclidean distance by sqrt(len(a)), mapping
// it into a scale-free [0,~1] range for the fixed encoding length.
func NormalizedDistance(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	return Distance(a, b) / float32(math.Sqrt(float64(len(a))))
}

// Similarity converts normalized distance to a 0-100 percentage. A nil or
// length-mismatched encoding yields 0.0 rather than an error; callers that
// need to tell "no encoding" from "genuinely dissimilar" must check encoding
// presence upstream.
func Similarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}
	similarity := (1 - NormalizedDistance(a, b)) * 100
	if similarity < 0 {
		return 0.0
	}
	return similarity
}

// IsMatch reports whether two encodings are within tolerance, where tolerance
// is a normalized-distance fraction (see DefaultTolerance).
func IsMatch(a, b []float32, tolerance float32) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	return NormalizedDistance(a, b) < tolerance
}
