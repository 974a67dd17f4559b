package reportplot

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"
)

// CorrelationHeatmap renders the samples-by-samples Pearson matrix as a
// heatmap raster with rows and columns permuted by the clustering leaf
// order. Cells use a blue-white-red diverging scale over [-1, 1].
func CorrelationHeatmap(corr *mat.SymDense, labels []string, order []int, title string) image.Image {
	n := corr.Symmetric()

	const (
		cell      = 24
		margin    = 140
		titleBand = 30
	)

	wpx := margin + n*cell + 10
	hpx := titleBand + n*cell + margin

	dc := gg.NewContext(wpx, hpx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, float64(wpx)/2, titleBand/2, 0.5, 0.5)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r, g, b := divergingColor(corr.At(order[i], order[j]))
			dc.SetRGB(r, g, b)
			dc.DrawRectangle(float64(margin+j*cell), float64(titleBand+i*cell), cell, cell)
			dc.Fill()
		}
	}

	dc.SetRGB(0, 0, 0)
	for i := 0; i < n; i++ {
		label := labels[order[i]]

		y := float64(titleBand + i*cell + cell/2)
		dc.DrawStringAnchored(label, margin-6, y, 1, 0.4)

		x := float64(margin + i*cell + cell/2)
		bottom := float64(titleBand + n*cell + 6)
		dc.Push()
		dc.RotateAbout(-math.Pi/2, x, bottom)
		dc.DrawStringAnchored(label, x, bottom, 1, 0.4)
		dc.Pop()
	}

	return dc.Image()
}

// divergingColor maps a correlation in [-1, 1] to blue (-1) through white
// (0) to red (+1).
func divergingColor(v float64) (r, g, b float64) {
	if math.IsNaN(v) {
		return 0.8, 0.8, 0.8
	}
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}

	if v < 0 {
		t := v + 1
		return t, t, 1
	}

	t := 1 - v
	return 1, t, t
}
