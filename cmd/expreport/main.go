// expreport renders an exploratory report over precomputed gene-expression
// matrices and their sample-design table: descriptive tables on stdout, a
// value histogram and correlation heatmaps as PNGs, and a multi-page PDF of
// t-SNE projections. It is meant to be invoked as one step of an external
// pipeline that supplies the file paths and parameters.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/carbocation/expreport/compileinfoprint"
	"github.com/carbocation/expreport/tsnemap"
	"github.com/carbocation/pfx"
)

func main() {
	var cfg Config

	flag.StringVar(&cfg.ExpressionPath, "expression", "", "Path to the normalized expression matrix. Tab-delimited; first column is the gene identifier, remaining columns are samples.")
	flag.StringVar(&cfg.RawPath, "raw", "", "Path to the raw expression matrix. Same layout as -expression.")
	flag.StringVar(&cfg.DesignPath, "design", "", "Path to the sample design table. Tab-delimited; one row per sample.")
	flag.StringVar(&cfg.Keyword, "keyword", "", "Free-text keyword used in the report title.")
	flag.StringVar(&cfg.PDFPath, "pdf", "tsne.pdf", "Output path for the t-SNE PDF.")
	flag.StringVar(&cfg.OutDir, "outdir", ".", "Directory that receives the PNG and TSV artifacts.")
	flag.StringVar(&cfg.SampleCol, "sample-col", "sample", "Design column holding the sample identifier.")
	flag.StringVar(&cfg.TissueCol, "tissue-col", "tissue", "Design column holding the free-text tissue label.")
	flag.StringVar(&cfg.InstrumentCol, "instrument-col", "instrument", "Design column holding the instrument model.")
	flag.StringVar(&cfg.SeriesCol, "series-col", "series_id", "Design column holding the series identifier.")
	flag.StringVar(&cfg.DescCol, "desc-col", "description", "Design column holding the free-text description.")
	flag.Float64Var(&cfg.Perplexity, "perplexity", tsnemap.DefaultPerplexity, "Target t-SNE perplexity, capped at (samples-1)/3.")
	flag.Parse()

	fmt.Fprintln(os.Stderr, strings.Join(os.Args, " "))

	if cfg.ExpressionPath == "" || cfg.RawPath == "" || cfg.DesignPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg.Out = os.Stdout

	if err := run(cfg); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}
