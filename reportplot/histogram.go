// Package reportplot renders the report's figures: the expression value
// histogram, the clustered correlation heatmaps, the t-SNE scatter pages,
// and the multi-page PDF artifact.
package reportplot

import (
	"fmt"
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
	hist2 "github.com/grd/histogram"
	"github.com/wcharczuk/go-chart/v2"
)

const histogramBins = 30

// Histogram renders a PNG bar chart of the value distribution into w.
// Non-finite values are skipped; everything else is binned as-is.
func Histogram(w io.Writer, vals []float64, title string) error {
	vals = finite(vals)
	if len(vals) == 0 {
		return pfx.Err(fmt.Errorf("histogram %q: no finite values to bin", title))
	}

	min, max := vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		// Degenerate distribution; widen so the bin width is nonzero
		max = min + 1
	}

	width := (max - min) / float64(histogramBins)
	hg, err := hist2.NewHistogram(hist2.Range(min, uint(histogramBins), width))
	if err != nil {
		return pfx.Err(err)
	}
	for _, v := range vals {
		hg.Add(v)
	}

	bars := make([]chart.Value, 0, histogramBins)
	for i := 0; i < histogramBins; i++ {
		label := ""
		if i%5 == 0 {
			label = fmt.Sprintf("%.1f", min+float64(i)*width)
		}
		bars = append(bars, chart.Value{Value: float64(hg.Get(i)), Label: label})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 24,
		Bars:     bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ConsoleHistogram prints a uniplot text histogram of the same value pool
// into the report body.
func ConsoleHistogram(w io.Writer, vals []float64) error {
	vals = finite(vals)
	if len(vals) == 0 {
		return pfx.Err(fmt.Errorf("no finite values to bin"))
	}

	hist := histogram.Hist(15, vals)

	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}

	return out
}
