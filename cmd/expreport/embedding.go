package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/expreport/reportplot"
	"github.com/carbocation/expreport/tsnemap"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// embedding runs the two t-SNE projections over the full (untrimmed)
// matrices, joins the design labels onto the coordinates, writes the
// coordinates TSV, and renders the three scatter pages into the PDF.
func (r *Report) embedding() error {
	perplexity := tsnemap.CapPerplexity(r.cfg.Perplexity, len(r.norm.Samples))
	log.Printf("embedding %d samples at perplexity %g (target %g)\n", len(r.norm.Samples), perplexity, r.cfg.Perplexity)

	normEmb, err := tsnemap.Embed(r.norm.SamplesDense(), perplexity)
	if err != nil {
		return err
	}

	rawPerplexity := tsnemap.CapPerplexity(r.cfg.Perplexity, len(r.raw.Samples))
	rawEmb, err := tsnemap.Embed(r.raw.SamplesDense(), rawPerplexity)
	if err != nil {
		return err
	}

	labels, err := r.designLabels()
	if err != nil {
		return err
	}

	if r.points, err = tsnemap.Combine(normEmb, rawEmb, labels); err != nil {
		return err
	}

	if err := r.writeCoordinates(); err != nil {
		return err
	}

	pages := make([]reportplot.Page, 0, 3)
	for _, colorBy := range []struct {
		name     string
		category func(p tsnemap.Point) string
	}{
		{"tissue", func(p tsnemap.Point) string { return p.Tissue }},
		{"instrument", func(p tsnemap.Point) string { return p.Instrument }},
		{"series", func(p tsnemap.Point) string { return p.Series }},
	} {
		page, err := r.scatterPage(colorBy.name, colorBy.category)
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}

	if err := reportplot.WritePDF(r.cfg.PDFPath, pages, 15, 10); err != nil {
		return err
	}
	log.Println("wrote", r.cfg.PDFPath)

	return nil
}

func (r *Report) designLabels() (tsnemap.Labels, error) {
	out := tsnemap.Labels{}

	var err error
	if out.Samples, err = r.design.Column(r.cfg.SampleCol); err != nil {
		return out, err
	}
	if out.Tissue, err = r.design.Column(r.cfg.TissueCol); err != nil {
		return out, err
	}
	if out.Instrument, err = r.design.Column(r.cfg.InstrumentCol); err != nil {
		return out, err
	}
	if out.Series, err = r.design.Column(r.cfg.SeriesCol); err != nil {
		return out, err
	}

	return out, nil
}

// scatterPage renders one PDF page: the normalized facet on the left and the
// raw facet on the right, points colored by the given design field.
func (r *Report) scatterPage(name string, category func(p tsnemap.Point) string) (reportplot.Page, error) {
	out := reportplot.Page{}

	normPoints := make([]reportplot.ScatterPoint, 0, len(r.points)/2)
	rawPoints := make([]reportplot.ScatterPoint, 0, len(r.points)/2)
	for _, p := range r.points {
		sp := reportplot.ScatterPoint{X: p.X, Y: p.Y, Category: category(p)}
		if p.Type == "raw" {
			rawPoints = append(rawPoints, sp)
		} else {
			normPoints = append(normPoints, sp)
		}
	}

	var err error
	if out.Left, err = reportplot.ScatterPanel(normPoints, fmt.Sprintf("t-SNE by %s (normalized): %s", name, r.cfg.Keyword)); err != nil {
		return out, err
	}
	if out.Right, err = reportplot.ScatterPanel(rawPoints, fmt.Sprintf("t-SNE by %s (raw): %s", name, r.cfg.Keyword)); err != nil {
		return out, err
	}

	return out, nil
}

// writeCoordinates persists the combined embedding as a tab-delimited table.
func (r *Report) writeCoordinates() error {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})

	path := filepath.Join(r.cfg.OutDir, "tsne_coordinates.tsv")
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := gocsv.Marshal(&r.points, f); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	log.Println("wrote", path)

	return nil
}
