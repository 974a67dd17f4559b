package reportplot

import (
	"bytes"
	"image"
	"image/png"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
)

// ScatterPoint is one embedded sample within a single facet panel.
type ScatterPoint struct {
	X, Y     float64
	Category string
}

// ScatterPanel renders one facet of a t-SNE page: a square scatter with one
// colored series per category value and a legend.
func ScatterPanel(points []ScatterPoint, title string) (image.Image, error) {
	// Group by category, preserving first-appearance order so colors are
	// stable between the raw and normalized facets.
	var order []string
	groups := make(map[string][]ScatterPoint)
	for _, p := range points {
		if _, exists := groups[p.Category]; !exists {
			order = append(order, p.Category)
		}
		groups[p.Category] = append(groups[p.Category], p)
	}

	series := make([]chart.Series, 0, len(order))
	for i, cat := range order {
		pts := groups[cat]

		xs := make([]float64, 0, len(pts))
		ys := make([]float64, 0, len(pts))
		for _, p := range pts {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}

		series = append(series, chart.ContinuousSeries{
			Name: cat,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    chart.GetDefaultColor(i),
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  700,
		Height: 700,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buf := &bytes.Buffer{}
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, pfx.Err(err)
	}

	img, err := png.Decode(buf)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return img, nil
}
