package media

import "gocv.io/x/gocv"

// Gradient-orientation descriptor parameters, expressed in pixels over the
// canonical 100x100 crop: 10x10 cells, 20x20 blocks (2x2 cells) advanced with
// a one-cell stride, 9 unsigned orientation bins.
const (
	cellSize        = 10
	blockCells      = 2
	orientationBins = 9
)

// gradientDescriptor computes a block-normalized gradient-orientation
// descriptor over a single-channel canonical crop and returns it flattened.
// The caller truncates to the encoding's descriptor share.
func gradientDescriptor(face gocv.Mat) []float32 {
	f32 := gocv.NewMat()
	defer f32.Close()
	face.ConvertTo(&f32, gocv.MatTypeCV32F)

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(f32, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(f32, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	angle := gocv.NewMat()
	defer angle.Close()
	gocv.CartToPolar(gx, gy, &magnitude, &angle, true)

	cells := canonicalSize / cellSize
	histograms := make([][orientationBins]float32, cells*cells)

	binWidth := float32(180.0 / orientationBins)
	for y := 0; y < canonicalSize; y++ {
		for x := 0; x < canonicalSize; x++ {
			m := magnitude.GetFloatAt(y, x)
			a := angle.GetFloatAt(y, x)
			// unsigned gradients: fold 0..360 into 0..180
			for a >= 180 {
				a -= 180
			}
			bin := int(a / binWidth)
			if bin >= orientationBins {
				bin = orientationBins - 1
			}
			cell := (y/cellSize)*cells + x/cellSize
			histograms[cell][bin] += m
		}
	}

	descriptor := make([]float32, 0, (cells-1)*(cells-1)*blockCells*blockCells*orientationBins)
	for by := 0; by+blockCells <= cells; by++ {
		for bx := 0; bx+blockCells <= cells; bx++ {
			block := make([]float32, 0, blockCells*blockCells*orientationBins)
			for cy := 0; cy < blockCells; cy++ {
				for cx := 0; cx < blockCells; cx++ {
					cell := histograms[(by+cy)*cells+(bx+cx)]
					block = append(block, cell[:]...)
				}
			}
			descriptor = append(descriptor, normalizeBlock(block)...)
		}
	}
	return descriptor
}

// normalizeBlock applies L2 normalization in place with a small epsilon to
// keep flat blocks finite.
func normalizeBlock(block []float32) []float32 {
	var sum float32
	for _, v := range block {
		sum += v * v
	}
	norm := sqrt32(sum + 1e-6)
	for i := range block {
		block[i] /= norm
	}
	return block
}
