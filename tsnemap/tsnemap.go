// Package tsnemap runs the report's 2-D t-SNE embeddings and assembles the
// labeled scatter dataset the plots are drawn from.
package tsnemap

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultPerplexity is the target perplexity before sample-count capping.
	DefaultPerplexity = 30

	// Iterations is the fixed gradient-descent iteration count.
	Iterations = 1000

	learningRate = 300
)

// CapPerplexity returns the perplexity to use for a matrix with the given
// number of sample rows: the target, unless (samples-1)/3 is smaller. The
// cap keeps the embedding inside its validity constraint relating perplexity
// to sample count.
func CapPerplexity(target float64, samples int) float64 {
	limit := float64(samples-1) / 3
	if limit < target {
		return limit
	}

	return target
}

// Embed runs an exact (non-approximated) 2-D t-SNE over x, one observation
// row per sample. Duplicate rows pass through unchanged.
func Embed(x *mat.Dense, perplexity float64) (*mat.Dense, error) {
	rows, _ := x.Dims()
	if rows < 2 {
		return nil, pfx.Err(fmt.Errorf("t-SNE needs at least 2 observation rows, got %d", rows))
	}

	t := tsne.NewTSNE(2, perplexity, learningRate, Iterations, false)
	y := t.EmbedData(x, nil)

	return mat.DenseCopyOf(y), nil
}

// Point is one embedded sample, labeled for plotting and for the
// coordinates artifact.
type Point struct {
	Sample     string  `csv:"sample"`
	X          float64 `csv:"tsne_1"`
	Y          float64 `csv:"tsne_2"`
	Type       string  `csv:"type"`
	Tissue     string  `csv:"tissue"`
	Instrument string  `csv:"instrument"`
	Series     string  `csv:"series_id"`
}

// Labels carries the design-table columns joined onto the embedding.
type Labels struct {
	Samples    []string
	Tissue     []string
	Instrument []string
	Series     []string
}

// Combine concatenates the normalized and raw embeddings into one labeled
// dataset. Each embedding's row count must equal the design row count; a
// mismatch is a hard error rather than a silently misaligned join.
func Combine(normalized, raw *mat.Dense, labels Labels) ([]Point, error) {
	out := make([]Point, 0, 2*len(labels.Samples))

	for _, part := range []struct {
		name string
		emb  *mat.Dense
	}{
		{"normalized", normalized},
		{"raw", raw},
	} {
		rows, cols := part.emb.Dims()
		if rows != len(labels.Samples) {
			return nil, pfx.Err(fmt.Errorf("%s embedding has %d rows but the design table has %d samples", part.name, rows, len(labels.Samples)))
		}
		if cols != 2 {
			return nil, pfx.Err(fmt.Errorf("%s embedding has %d coordinate columns, want 2", part.name, cols))
		}

		for i := range labels.Samples {
			out = append(out, Point{
				Sample:     labels.Samples[i],
				X:          part.emb.At(i, 0),
				Y:          part.emb.At(i, 1),
				Type:       part.name,
				Tissue:     labels.Tissue[i],
				Instrument: labels.Instrument[i],
				Series:     labels.Series[i],
			})
		}
	}

	return out, nil
}
