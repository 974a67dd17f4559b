package main

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/carbocation/expreport/compileinfo"
	"github.com/carbocation/expreport/exprtab"
	"github.com/carbocation/expreport/tsnemap"
)

type Config struct {
	ExpressionPath string
	RawPath        string
	DesignPath     string
	Keyword        string
	PDFPath        string
	OutDir         string

	SampleCol     string
	TissueCol     string
	InstrumentCol string
	SeriesCol     string
	DescCol       string

	Perplexity float64

	Out io.Writer
}

// Report carries the working state of one render through the pipeline
// stages. Everything in here is transient: recomputed on every run, nothing
// survives the process except the named output artifacts.
type Report struct {
	cfg Config

	norm   *exprtab.Matrix
	raw    *exprtab.Matrix
	design *exprtab.Design

	normAligned bool
	rawAligned  bool

	normTop *exprtab.Matrix
	rawTop  *exprtab.Matrix

	points []tsnemap.Point
}

func run(cfg Config) error {
	r := &Report{cfg: cfg}

	if err := r.load(); err != nil {
		return err
	}

	r.printTitle()
	r.printAlignment()
	r.printColumnListing()

	if len(r.norm.Genes) < 2 {
		// Deliberate short-circuit, not a failure: an input with fewer than
		// two genes has nothing to analyze, so stop cleanly after the
		// column listing.
		log.Println("fewer than 2 gene rows in the normalized expression matrix; stopping after the column listing")
		return nil
	}

	if err := r.printGroupTables(); err != nil {
		return err
	}

	if err := r.variability(); err != nil {
		return err
	}

	if err := r.embedding(); err != nil {
		return err
	}

	r.printEnvironment()

	return nil
}

func (r *Report) load() error {
	var err error

	if r.norm, err = exprtab.LoadMatrix(r.cfg.ExpressionPath); err != nil {
		return err
	}
	if r.raw, err = exprtab.LoadMatrix(r.cfg.RawPath); err != nil {
		return err
	}
	if r.design, err = exprtab.LoadDesign(r.cfg.DesignPath); err != nil {
		return err
	}

	if err := r.design.CanonicalizeTissue(r.cfg.TissueCol); err != nil {
		return err
	}

	if r.normAligned, err = r.norm.Aligned(r.design, r.cfg.SampleCol); err != nil {
		return err
	}
	if r.rawAligned, err = r.raw.Aligned(r.design, r.cfg.SampleCol); err != nil {
		return err
	}

	return nil
}

func (r *Report) printTitle() {
	fmt.Fprintf(r.cfg.Out, "Exploratory expression report: %s\n\n", r.cfg.Keyword)
	fmt.Fprintln(r.cfg.Out, strings.Join([]string{"matrix", exprtab.GeneKey + "_rows", "sample_columns"}, "\t"))
	fmt.Fprintln(r.cfg.Out, strings.Join([]string{"normalized", strconv.Itoa(len(r.norm.Genes)), strconv.Itoa(len(r.norm.Samples))}, "\t"))
	fmt.Fprintln(r.cfg.Out, strings.Join([]string{"raw", strconv.Itoa(len(r.raw.Genes)), strconv.Itoa(len(r.raw.Samples))}, "\t"))
	fmt.Fprintln(r.cfg.Out)
}

// printAlignment reports whether each matrix's sample columns match the
// design table's sample-id column in order. A mismatch is reported and
// logged, not escalated; the embedding join has its own hard precondition.
func (r *Report) printAlignment() {
	fmt.Fprintln(r.cfg.Out, "matrix\tsamples_match_design")
	fmt.Fprintf(r.cfg.Out, "normalized\t%t\n", r.normAligned)
	fmt.Fprintf(r.cfg.Out, "raw\t%t\n", r.rawAligned)
	fmt.Fprintln(r.cfg.Out)

	if !r.normAligned || !r.rawAligned {
		log.Println("WARNING: expression sample columns do not match the design table's sample order; downstream tables assume alignment")
	}
}

func (r *Report) printColumnListing() {
	fmt.Fprintln(r.cfg.Out, "design_column\tn_distinct\tdistinct_values")
	for _, col := range r.design.Columns {
		// The column came from the table itself, so this cannot miss
		vals, _ := r.design.DistinctValues(col)
		fmt.Fprintf(r.cfg.Out, "%s\t%d\t%s\n", col, len(vals), strings.Join(vals, ", "))
	}
	fmt.Fprintln(r.cfg.Out)
}

// printGroupTables prints a descending frequency table for every design
// column except the named identifier, series, and description columns, then
// relabels the tissue column with its group counts.
func (r *Report) printGroupTables() error {
	skip := map[string]bool{
		r.cfg.SampleCol: true,
		r.cfg.SeriesCol: true,
		r.cfg.DescCol:   true,
	}

	for _, col := range r.design.Columns {
		if skip[col] {
			continue
		}

		counts, err := r.design.GroupCounts(col)
		if err != nil {
			return err
		}

		fmt.Fprintf(r.cfg.Out, "%s\tn\n", col)
		for _, gc := range counts {
			fmt.Fprintf(r.cfg.Out, "%s\t%d\n", gc.Value, gc.N)
		}
		fmt.Fprintln(r.cfg.Out)
	}

	return r.design.RelabelWithCounts(r.cfg.TissueCol)
}

func (r *Report) printEnvironment() {
	fmt.Fprintln(r.cfg.Out)
	fmt.Fprint(r.cfg.Out, compileinfo.GetRuntime())
}
