package media

import (
	"image"
	"log"

	"gocv.io/x/gocv"
)

// CascadeDetector wraps a Haar cascade classifier. Construction loads the
// cascade once; the loaded instance is read-only afterwards and safe to share
// across the interactive and batch paths.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	Enabled    bool

	// detection parameters
	ScaleFactor  float64
	MinNeighbors int
	MinSize      image.Point
}

// NewCascadeDetector loads a Haar cascade from the given XML file. A missing
// or unloadable cascade yields a disabled detector rather than an error, so
// the rest of the system can degrade to "no face detected".
func NewCascadeDetector(cascadePath string) *CascadeDetector {
	if cascadePath == "" {
		log.Println("detection: cascade path is empty, disabling detector")
		return &CascadeDetector{Enabled: false}
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		log.Printf("detection: ERROR loading cascade file: %s", cascadePath)
		classifier.Close()
		return &CascadeDetector{Enabled: false}
	}
	log.Printf("detection: loaded cascade %s", cascadePath)

	return &CascadeDetector{
		classifier:   classifier,
		Enabled:      true,
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		MinSize:      image.Pt(30, 30),
	}
}

func (d *CascadeDetector) Close() {
	if d != nil && d.Enabled {
		d.classifier.Close()
		d.Enabled = false
	}
}

// Detect runs the cascade over a single-channel image and returns the raw
// rectangles. Returns an empty slice, never an error, on faceless images.
func (d *CascadeDetector) Detect(gray gocv.Mat) []image.Rectangle {
	if d == nil || !d.Enabled || gray.Empty() {
		return nil
	}
	return d.classifier.DetectMultiScaleWithParams(
		gray, d.ScaleFactor, d.MinNeighbors, 0, d.MinSize, image.Pt(0, 0),
	)
}

// largestRegion picks the rectangle with the greatest area. The scan uses a
// strict comparison so equal-area rectangles resolve to the earliest one.
func largestRegion(rects []image.Rectangle) image.Rectangle {
	best := rects[0]
	bestArea := best.Dx() * best.Dy()
	for _, r := range rects[1:] {
		if area := r.Dx() * r.Dy(); area > bestArea {
			best = r
			bestArea = area
		}
	}
	return best
}
