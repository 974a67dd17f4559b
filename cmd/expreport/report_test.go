package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestInputs(t *testing.T, designRows string) Config {
	t.Helper()

	dir := t.TempDir()

	expression := "gene\tGSM1\tGSM2\tGSM3\tGSM4\n" +
		"ACTB\t1\t2\t3\t4\n"
	design := "sample\tseries_id\tdescription\ttissue\tinstrument\n" + designRows

	cfg := Config{
		ExpressionPath: filepath.Join(dir, "norm.tsv"),
		RawPath:        filepath.Join(dir, "raw.tsv"),
		DesignPath:     filepath.Join(dir, "design.tsv"),
		Keyword:        "test",
		PDFPath:        filepath.Join(dir, "tsne.pdf"),
		OutDir:         dir,
		SampleCol:      "sample",
		TissueCol:      "tissue",
		InstrumentCol:  "instrument",
		SeriesCol:      "series_id",
		DescCol:        "description",
		Perplexity:     30,
	}

	for _, f := range []struct{ path, body string }{
		{cfg.ExpressionPath, expression},
		{cfg.RawPath, expression},
		{cfg.DesignPath, design},
	} {
		if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return cfg
}

const alignedDesignRows = "GSM1\tGSE1\tfirst\tHomo sapiens Liver\tHiSeq\n" +
	"GSM2\tGSE1\tsecond\thuman liver\tHiSeq\n" +
	"GSM3\tGSE2\tthird\t Liver \tNovaSeq\n" +
	"GSM4\tGSE2\tfourth\tLIVER\tHiSeq\n"

func TestRunEarlyExitOnLowGeneCount(t *testing.T) {
	cfg := writeTestInputs(t, alignedDesignRows)

	var out bytes.Buffer
	cfg.Out = &out

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	report := out.String()
	if !strings.Contains(report, "design_column") {
		t.Errorf("report should include the design column listing:\n%s", report)
	}
	if strings.Contains(report, "top_variance_genes") {
		t.Errorf("a single-gene matrix must stop before the variance stage:\n%s", report)
	}
	if _, err := os.Stat(cfg.PDFPath); !os.IsNotExist(err) {
		t.Error("no PDF should be produced on the early-exit path")
	}
}

func TestRunReportsAlignment(t *testing.T) {
	cfg := writeTestInputs(t, alignedDesignRows)

	var out bytes.Buffer
	cfg.Out = &out

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "normalized\ttrue") {
		t.Errorf("aligned inputs should report true:\n%s", out.String())
	}

	// Swap two design rows so the order no longer matches the matrices
	shuffled := "GSM2\tGSE1\tsecond\thuman liver\tHiSeq\n" +
		"GSM1\tGSE1\tfirst\tHomo sapiens Liver\tHiSeq\n" +
		"GSM3\tGSE2\tthird\t Liver \tNovaSeq\n" +
		"GSM4\tGSE2\tfourth\tLIVER\tHiSeq\n"
	cfg = writeTestInputs(t, shuffled)

	out.Reset()
	cfg.Out = &out

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "normalized\tfalse") {
		t.Errorf("misordered design rows should report false:\n%s", out.String())
	}
}

// TestRunFullPipeline drives every stage: variance subsets, histogram,
// heatmaps, embedding, and the PDF, then checks each artifact landed.
func TestRunFullPipeline(t *testing.T) {
	dir := t.TempDir()

	const nGenes, nSamples = 200, 6

	var expression strings.Builder
	expression.WriteString("gene")
	for j := 1; j <= nSamples; j++ {
		fmt.Fprintf(&expression, "\tGSM%d", j)
	}
	expression.WriteString("\n")
	for i := 0; i < nGenes; i++ {
		fmt.Fprintf(&expression, "G%d", i)
		// Per-gene variance strictly increases with i, so the top-variance
		// subset is nonempty and proper
		for j := 0; j < nSamples; j++ {
			fmt.Fprintf(&expression, "\t%d", (i+1)*j)
		}
		expression.WriteString("\n")
	}

	var design strings.Builder
	design.WriteString("sample\tseries_id\tdescription\ttissue\tinstrument\n")
	tissues := []string{"Homo sapiens Liver", "human liver", " Liver ", "LIVER", "liver", "Liver"}
	for j := 1; j <= nSamples; j++ {
		fmt.Fprintf(&design, "GSM%d\tGSE%d\tsample %d\t%s\tHiSeq\n", j, 1+j%2, j, tissues[j-1])
	}

	cfg := Config{
		ExpressionPath: filepath.Join(dir, "norm.tsv"),
		RawPath:        filepath.Join(dir, "raw.tsv"),
		DesignPath:     filepath.Join(dir, "design.tsv"),
		Keyword:        "full",
		PDFPath:        filepath.Join(dir, "tsne.pdf"),
		OutDir:         dir,
		SampleCol:      "sample",
		TissueCol:      "tissue",
		InstrumentCol:  "instrument",
		SeriesCol:      "series_id",
		DescCol:        "description",
		Perplexity:     30,
	}

	for _, f := range []struct{ path, body string }{
		{cfg.ExpressionPath, expression.String()},
		{cfg.RawPath, expression.String()},
		{cfg.DesignPath, design.String()},
	} {
		if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	cfg.Out = &out

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	report := out.String()
	if !strings.Contains(report, "top_variance_genes") {
		t.Errorf("report should reach the variance stage:\n%s", report)
	}
	if !strings.Contains(report, "liver\t6") {
		t.Errorf("all six tissue spellings should collapse into one group count:\n%s", report)
	}

	for _, artifact := range []string{
		cfg.PDFPath,
		filepath.Join(dir, "expression_histogram.png"),
		filepath.Join(dir, "correlation_normalized.png"),
		filepath.Join(dir, "correlation_raw.png"),
		filepath.Join(dir, "tsne_coordinates.tsv"),
	} {
		info, err := os.Stat(artifact)
		if err != nil {
			t.Errorf("missing artifact %s: %v", artifact, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", artifact)
		}
	}

	coords, err := os.ReadFile(filepath.Join(dir, "tsne_coordinates.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(coords), "liver (6)") {
		t.Errorf("coordinates table should carry the relabeled tissue:\n%s", coords)
	}
	if !strings.Contains(string(coords), "raw") || !strings.Contains(string(coords), "normalized") {
		t.Errorf("coordinates table should contain both embedding types:\n%s", coords)
	}
}
