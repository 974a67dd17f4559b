package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/carbocation/expreport/exprtab"
	"github.com/carbocation/expreport/hcluster"
	"github.com/carbocation/expreport/reportplot"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// topVarianceQuantile selects the top 1% most-variable genes.
const topVarianceQuantile = 0.99

// variability selects each matrix's top-variance gene subset, prints the
// value-distribution summary and histogram for the normalized subset, and
// writes the two clustered correlation heatmaps.
func (r *Report) variability() error {
	r.normTop = r.norm.TopVarianceSubset(topVarianceQuantile)
	r.rawTop = r.raw.TopVarianceSubset(topVarianceQuantile)

	fmt.Fprintln(r.cfg.Out, "matrix\ttop_variance_genes\ttotal_genes")
	fmt.Fprintf(r.cfg.Out, "normalized\t%d\t%d\n", len(r.normTop.Genes), len(r.norm.Genes))
	fmt.Fprintf(r.cfg.Out, "raw\t%d\t%d\n", len(r.rawTop.Genes), len(r.raw.Genes))
	fmt.Fprintln(r.cfg.Out)

	if len(r.normTop.Genes) == 0 || len(r.rawTop.Genes) == 0 {
		log.Println("no genes exceed the variance quantile; skipping the histogram and heatmaps")
		return nil
	}

	variances := r.normTop.GeneVariances()
	fmt.Fprintf(r.cfg.Out, "%s\tvariance\n", exprtab.GeneKey)
	for i, gene := range r.normTop.Genes {
		fmt.Fprintf(r.cfg.Out, "%s\t%g\n", gene, variances[i])
	}
	fmt.Fprintln(r.cfg.Out)

	pool := r.normTop.Pool()

	if err := r.printSummary(pool); err != nil {
		return err
	}
	if err := reportplot.ConsoleHistogram(r.cfg.Out, pool); err != nil {
		return err
	}
	fmt.Fprintln(r.cfg.Out)

	if err := writeHistogramPNG(filepath.Join(r.cfg.OutDir, "expression_histogram.png"), pool); err != nil {
		return err
	}

	for _, part := range []struct {
		name string
		m    *exprtab.Matrix
	}{
		{"normalized", r.normTop},
		{"raw", r.rawTop},
	} {
		corr := part.m.SampleCorrelation()
		order := hcluster.Order(hcluster.CorrelationDistance(corr))
		img := reportplot.CorrelationHeatmap(corr, part.m.Samples, order, "Sample correlation ("+part.name+", top-variance genes)")

		outPath := filepath.Join(r.cfg.OutDir, "correlation_"+part.name+".png")
		if err := writePNG(outPath, img); err != nil {
			return err
		}
		log.Println("wrote", outPath)
	}

	return nil
}

// printSummary prints descriptive statistics of the histogram value pool.
func (r *Report) printSummary(pool []float64) error {
	finite := make([]float64, 0, len(pool))
	for _, v := range pool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}

	data := stats.Float64Data(finite)

	min, err := stats.Min(data)
	if err != nil {
		return pfx.Err(err)
	}
	max, err := stats.Max(data)
	if err != nil {
		return pfx.Err(err)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return pfx.Err(err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return pfx.Err(err)
	}
	sd, err := stats.StandardDeviation(data)
	if err != nil {
		return pfx.Err(err)
	}

	fmt.Fprintln(r.cfg.Out, "n\tmin\tmax\tmean\tmedian\tsd")
	fmt.Fprintf(r.cfg.Out, "%d\t%g\t%g\t%g\t%g\t%g\n\n", len(finite), min, max, mean, median, sd)

	return nil
}

func writeHistogramPNG(path string, pool []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := reportplot.Histogram(f, pool, "Normalized expression, top-variance genes"); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	log.Println("wrote", path)

	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}
