// Package exprtab loads gene-by-sample expression matrices and the
// sample-design table that describes their columns, and derives the tables
// the exploratory report prints: distinct values, group counts, per-gene
// variances, and top-variance subsets.
package exprtab

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/expreport"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// GeneKey is the canonical name given to the first column of every
// expression matrix, whatever the input file calls it.
const GeneKey = "gene_name"

// Matrix is a genes-by-samples expression table. Values is row-major: one
// row per gene, one column per sample, matching Genes and Samples.
type Matrix struct {
	Genes   []string
	Samples []string
	Values  [][]float64
}

// LoadMatrix reads a delimited expression table whose first column holds the
// gene identifier and whose remaining columns are numeric sample columns.
// Empty and NA cells become NaN; anything else non-numeric is an error.
func LoadMatrix(path string) (*Matrix, error) {
	rc, err := expreport.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := expreport.DetermineDelimiter(bytes.NewReader(raw))

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = delim
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(records) < 1 || len(records[0]) < 2 {
		return nil, pfx.Err(fmt.Errorf("expression matrix %s: need a header with a gene column and at least one sample column", path))
	}

	out := &Matrix{
		Samples: records[0][1:],
	}

	for i, row := range records[1:] {
		out.Genes = append(out.Genes, row[0])

		vals := make([]float64, 0, len(row)-1)
		for j, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" || cell == "NA" {
				vals = append(vals, math.NaN())
				continue
			}

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("expression matrix %s: row %d (%s) column %s: %v", path, i+1, row[0], out.Samples[j], err))
			}
			vals = append(vals, v)
		}
		out.Values = append(out.Values, vals)
	}

	return out, nil
}

// Aligned reports whether the matrix's sample columns, in order, equal the
// design table's sample-id column, in order. The caller decides what to do
// with a mismatch; downstream joins assume alignment.
func (m *Matrix) Aligned(d *Design, sampleCol string) (bool, error) {
	ids, err := d.Column(sampleCol)
	if err != nil {
		return false, err
	}

	if len(ids) != len(m.Samples) {
		return false, nil
	}

	for i := range ids {
		if ids[i] != m.Samples[i] {
			return false, nil
		}
	}

	return true, nil
}

// GeneVariances returns the sample variance of each gene's row across all
// sample columns. Missing values propagate through gonum's variance as NaN;
// there is deliberately no guard here.
func (m *Matrix) GeneVariances() []float64 {
	out := make([]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = stat.Variance(row, nil)
	}

	return out
}

// VarianceQuantile returns the q-quantile (linear interpolation) of the
// per-gene variance distribution.
func (m *Matrix) VarianceQuantile(q float64) float64 {
	variances := m.GeneVariances()
	sort.Float64s(variances)

	return stat.Quantile(q, stat.LinInterp, variances, nil)
}

// TopVarianceSubset returns a new matrix restricted to genes whose variance
// is strictly greater than the q-quantile of the variance distribution.
// When all genes share one variance the subset is empty.
func (m *Matrix) TopVarianceSubset(q float64) *Matrix {
	variances := m.GeneVariances()
	threshold := m.VarianceQuantile(q)

	out := &Matrix{Samples: m.Samples}
	for i, v := range variances {
		if v > threshold {
			out.Genes = append(out.Genes, m.Genes[i])
			out.Values = append(out.Values, m.Values[i])
		}
	}

	return out
}

// GenesDense returns the matrix as a gonum dense matrix with genes as rows.
func (m *Matrix) GenesDense() *mat.Dense {
	out := mat.NewDense(len(m.Genes), len(m.Samples), nil)
	for i, row := range m.Values {
		out.SetRow(i, row)
	}

	return out
}

// SamplesDense returns the transposed matrix with one row per sample, the
// observation layout the embedding expects. Duplicate sample rows are kept
// as-is.
func (m *Matrix) SamplesDense() *mat.Dense {
	out := mat.NewDense(len(m.Samples), len(m.Genes), nil)
	for i, row := range m.Values {
		for j, v := range row {
			out.Set(j, i, v)
		}
	}

	return out
}

// Pool flattens every expression cell into one slice, for the value
// histogram and the summary-statistics table.
func (m *Matrix) Pool() []float64 {
	out := make([]float64, 0, len(m.Genes)*len(m.Samples))
	for _, row := range m.Values {
		out = append(out, row...)
	}

	return out
}

// SampleCorrelation computes the samples-by-samples Pearson correlation
// matrix, treating each sample column as a variable observed once per gene.
func (m *Matrix) SampleCorrelation() *mat.SymDense {
	corr := mat.NewSymDense(len(m.Samples), nil)
	stat.CorrelationMatrix(corr, m.GenesDense(), nil)

	return corr
}
