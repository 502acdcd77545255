package media

// EncodingLength is the fixed length of every face encoding produced by this
// package: 64 histogram values followed by 64 gradient-descriptor values.
// Encodings of any other length are never comparable.
const EncodingLength = 128

// FaceRegion is a detected face rectangle in image-pixel coordinates,
// expressed as (top, right, bottom, left).
type FaceRegion struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Width returns the horizontal extent of the region in pixels.
func (r FaceRegion) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the region in pixels.
func (r FaceRegion) Height() int {
	return r.Bottom - r.Top
}

// Area returns width*height, used for largest-face selection.
func (r FaceRegion) Area() int {
	return r.Width() * r.Height()
}

// KnownEncoding is one gallery entry: a stored mugshot encoding together with
// the criminal record it belongs to.
type KnownEncoding struct {
	MugshotID    uint      `json:"mugshot_id"`
	CriminalID   uint      `json:"criminal_id"`
	CriminalCode string    `json:"criminal_code"`
	Name         string    `json:"name"`
	Encoding     []float32 `json:"-"`
}

// MatchResult is the outcome of comparing a probe encoding against one
// gallery entry. Similarity is a 0-100 percentage.
type MatchResult struct {
	Matched      bool    `json:"matched"`
	Name         string  `json:"name"`
	Similarity   float32 `json:"similarity"`
	CriminalID   *uint   `json:"criminal_id,omitempty"`
	CriminalCode string  `json:"criminal_code,omitempty"`
	MugshotID    uint    `json:"mugshot_id,omitempty"`
}

// NoMatch is the well-defined "searched and found nothing" result. Callers
// must not conflate it with a failed search.
func NoMatch() MatchResult {
	return MatchResult{Matched: false, Name: "Unknown", Similarity: 0.0}
}
