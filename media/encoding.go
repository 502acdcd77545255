package media

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrNoFaceDetected is returned when the detector finds zero face regions in
// an otherwise valid image.
var ErrNoFaceDetected = errors.New("no face detected")

// canonicalSize is the side length every face crop is resized to before
// feature computation.
const canonicalSize = 100

// histogramValues and descriptorValues are the truncation lengths of the two
// encoding halves.
const (
	histogramValues  = 64
	descriptorValues = 64
)

// FaceEncoder turns images into fixed-length face encodings. The detectors
// are injected so their construction cost is paid once per process.
type FaceEncoder struct {
	faces *CascadeDetector
	eyes  *CascadeDetector
}

// NewFaceEncoder builds an encoder around a face cascade and an optional eye
// cascade (the eye cascade only affects QualityScore).
func NewFaceEncoder(faces, eyes *CascadeDetector) *FaceEncoder {
	return &FaceEncoder{faces: faces, eyes: eyes}
}

// DetectRegions returns every detected face as (top, right, bottom, left)
// regions in image-pixel coordinates.
func (e *FaceEncoder) DetectRegions(img gocv.Mat) []FaceRegion {
	if img.Empty() {
		return nil
	}
	gray := toGray(img)
	defer gray.Close()

	rects := e.faces.Detect(gray)
	regions := make([]FaceRegion, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, FaceRegion{
			Top:    r.Min.Y,
			Right:  r.Max.X,
			Bottom: r.Max.Y,
			Left:   r.Min.X,
		})
	}
	return regions
}

// EncodeMat extracts an encoding from a decoded image. When several faces are
// present the one with the largest bounding-box area is used; this is policy,
// not an error. Returns ErrNoFaceDetected when the detector finds nothing.
func (e *FaceEncoder) EncodeMat(img gocv.Mat) ([]float32, error) {
	if img.Empty() {
		return nil, fmt.Errorf("encoding: image is empty")
	}

	gray := toGray(img)
	defer gray.Close()

	rects := e.faces.Detect(gray)
	if len(rects) == 0 {
		return nil, ErrNoFaceDetected
	}
	face := largestRegion(rects)

	roi := gray.Region(face)
	defer roi.Close()

	canonical := gocv.NewMat()
	defer canonical.Close()
	gocv.Resize(roi, &canonical, image.Pt(canonicalSize, canonicalSize), 0, 0, gocv.InterpolationLinear)

	encoding := make([]float32, 0, EncodingLength)
	encoding = append(encoding, takeOrPad(intensityHistogram(canonical), histogramValues)...)
	encoding = append(encoding, takeOrPad(gradientDescriptor(canonical), descriptorValues)...)
	return encoding, nil
}

// EncodeFile reads an image from disk and extracts its encoding. A file that
// cannot be decoded is an I/O-level error, distinct from ErrNoFaceDetected.
func (e *FaceEncoder) EncodeFile(path string) ([]float32, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("encoding: failed to read image file: %s", path)
	}
	defer img.Close()

	return e.EncodeMat(img)
}

// intensityHistogram computes the full 256-bin intensity histogram of a
// single-channel image, L2-normalized.
func intensityHistogram(face gocv.Mat) []float32 {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{face}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)
	gocv.Normalize(hist, &hist, 1, 0, gocv.NormL2)

	values := make([]float32, hist.Rows())
	for i := range values {
		values[i] = hist.GetFloatAt(i, 0)
	}
	return values
}

// takeOrPad truncates values to n elements, zero-padding when fewer are
// available, so the encoding length stays constant.
func takeOrPad(values []float32, n int) []float32 {
	out := make([]float32, n)
	copy(out, values)
	return out
}

// toGray returns a new single-channel copy of img. The caller owns the Mat.
func toGray(img gocv.Mat) gocv.Mat {
	if img.Channels() == 1 {
		return img.Clone()
	}
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	return gray
}
