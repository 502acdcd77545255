package media

import (
	"math"

	"gocv.io/x/gocv"
)

// Quality score point breakdown: face size relative to the frame, eye
// sub-detections within the face, and Laplacian-variance sharpness. The score
// is advisory; callers use it to reject poor captures before storage, it
// never gates extraction.
const (
	sizeRatioIdealMin = 0.05
	sizeRatioIdealMax = 0.30
	sizeRatioOkMin    = 0.03
	sizeRatioOkMax    = 0.40

	sharpnessGood = 100.0
	sharpnessFair = 50.0
)

// QualityScore rates a capture 0-100. Zero detectable faces score 0. The
// first detected region is assessed, matching the capture workflow where the
// operator frames a single face.
func (e *FaceEncoder) QualityScore(img gocv.Mat) int {
	if img.Empty() {
		return 0
	}

	gray := toGray(img)
	defer gray.Close()

	rects := e.faces.Detect(gray)
	if len(rects) == 0 {
		return 0
	}
	face := rects[0]

	score := 0

	ratio := float64(face.Dx()*face.Dy()) / float64(img.Cols()*img.Rows())
	if ratio >= sizeRatioIdealMin && ratio <= sizeRatioIdealMax {
		score += 40
	} else if ratio >= sizeRatioOkMin && ratio <= sizeRatioOkMax {
		score += 20
	}

	roi := gray.Region(face)
	defer roi.Close()

	if e.eyes != nil && e.eyes.Enabled {
		eyes := e.eyes.Detect(roi)
		if len(eyes) >= 2 {
			score += 40
		} else if len(eyes) == 1 {
			score += 20
		}
	}

	sharpness := laplacianVariance(roi)
	if sharpness > sharpnessGood {
		score += 20
	} else if sharpness > sharpnessFair {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// QualityScoreFile reads an image from disk and rates it. Unreadable files
// score 0.
func (e *FaceEncoder) QualityScoreFile(path string) int {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return 0
	}
	defer img.Close()
	return e.QualityScore(img)
}

// laplacianVariance measures local gradient variance, the usual cheap
// sharpness proxy.
func laplacianVariance(gray gocv.Mat) float64 {
	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(laplacian, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
