package tsnemap

import (
	"strconv"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCapPerplexity(t *testing.T) {
	cases := []struct {
		samples int
		want    float64
	}{
		{10, 3},        // (10-1)/3 = 3 < 30
		{31, 10},       // (31-1)/3 = 10
		{90, 89.0 / 3}, // just under the crossover
		{91, 30},       // (91-1)/3 = 30 exactly
		{1000, 30},     // large cohorts keep the default
	}

	for _, c := range cases {
		if got := CapPerplexity(DefaultPerplexity, c.samples); got != c.want {
			t.Errorf("CapPerplexity(30, %d) = %v, want %v", c.samples, got, c.want)
		}
	}
}

func testLabels(n int) Labels {
	l := Labels{}
	for i := 0; i < n; i++ {
		l.Samples = append(l.Samples, "GSM"+strconv.Itoa(i+1))
		l.Tissue = append(l.Tissue, "liver (4)")
		l.Instrument = append(l.Instrument, "HiSeq")
		l.Series = append(l.Series, "GSE1")
	}

	return l
}

func TestCombine(t *testing.T) {
	norm := mat.NewDense(3, 2, []float64{0, 1, 2, 3, 4, 5})
	raw := mat.NewDense(3, 2, []float64{5, 4, 3, 2, 1, 0})

	points, err := Combine(norm, raw, testLabels(3))
	if err != nil {
		t.Fatal(err)
	}

	if len(points) != 6 {
		t.Fatalf("combined dataset has %d points, want 6", len(points))
	}
	if points[0].Type != "normalized" || points[3].Type != "raw" {
		t.Errorf("type labels wrong: %q then %q", points[0].Type, points[3].Type)
	}
	if points[4].X != 3 || points[4].Y != 2 {
		t.Errorf("raw coordinates misjoined: %+v", points[4])
	}
}

func TestCombineRowCountMismatch(t *testing.T) {
	norm := mat.NewDense(3, 2, nil)
	raw := mat.NewDense(2, 2, nil)

	if _, err := Combine(norm, raw, testLabels(3)); err == nil {
		t.Error("raw embedding with wrong row count should be a hard error")
	}

	if _, err := Combine(norm, mat.NewDense(3, 2, nil), testLabels(4)); err == nil {
		t.Error("design row count mismatch should be a hard error")
	}
}

func TestEmbedRejectsTooFewRows(t *testing.T) {
	if _, err := Embed(mat.NewDense(1, 5, nil), 3); err == nil {
		t.Error("a single observation row should be rejected")
	}
}
