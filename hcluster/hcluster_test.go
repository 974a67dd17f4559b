package hcluster

import (
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestOrderIsPermutation(t *testing.T) {
	n := 6
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist.SetSym(i, j, float64((i+1)*(j+1)))
		}
	}

	order := Order(dist)
	if len(order) != n {
		t.Fatalf("order has %d entries, want %d", len(order), n)
	}

	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("order %v is not a permutation of 0..%d", order, n-1)
		}
	}
}

func TestOrderGroupsTightClusters(t *testing.T) {
	// Items 0,1 and 2,3 form two tight pairs far from each other.
	dist := mat.NewSymDense(4, nil)
	dist.SetSym(0, 1, 0.1)
	dist.SetSym(2, 3, 0.1)
	dist.SetSym(0, 2, 10)
	dist.SetSym(0, 3, 10)
	dist.SetSym(1, 2, 10)
	dist.SetSym(1, 3, 10)

	order := Order(dist)

	pos := make(map[int]int)
	for i, v := range order {
		pos[v] = i
	}

	if d := pos[0] - pos[1]; d != 1 && d != -1 {
		t.Errorf("items 0 and 1 should be adjacent in %v", order)
	}
	if d := pos[2] - pos[3]; d != 1 && d != -1 {
		t.Errorf("items 2 and 3 should be adjacent in %v", order)
	}
}

func TestCorrelationDistance(t *testing.T) {
	corr := mat.NewSymDense(2, []float64{1, 0.25, 0.25, 1})

	dist := CorrelationDistance(corr)
	if got := dist.At(0, 1); got != 0.75 {
		t.Errorf("1-r distance = %v, want 0.75", got)
	}
	if got := dist.At(0, 0); got != 0 {
		t.Errorf("self distance = %v, want 0", got)
	}
}

func TestOrderSingle(t *testing.T) {
	if got := Order(mat.NewSymDense(1, nil)); len(got) != 1 || got[0] != 0 {
		t.Errorf("single-item order = %v", got)
	}
}
