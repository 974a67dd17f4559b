// Package hcluster provides the average-linkage agglomerative clustering
// used to order the rows and columns of the report's correlation heatmaps.
package hcluster

import "gonum.org/v1/gonum/mat"

// Order clusters the items described by the symmetric distance matrix with
// average linkage and returns the dendrogram leaf order: a permutation of
// 0..n-1 in which items merged earlier sit next to each other.
func Order(dist *mat.SymDense) []int {
	n := dist.Symmetric()
	if n == 0 {
		return nil
	}

	// Each cluster is its member leaf list, in merge order.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for len(clusters) > 1 {
		bestI, bestJ := 0, 1
		best := avgLinkage(dist, clusters[0], clusters[1])

		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := avgLinkage(dist, clusters[i], clusters[j]); d < best {
					best, bestI, bestJ = d, i, j
				}
			}
		}

		clusters[bestI] = append(clusters[bestI], clusters[bestJ]...)
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	return clusters[0]
}

// avgLinkage is the mean pairwise distance between the two clusters' leaves.
func avgLinkage(dist *mat.SymDense, a, b []int) float64 {
	sum := 0.0
	for _, i := range a {
		for _, j := range b {
			sum += dist.At(i, j)
		}
	}

	return sum / float64(len(a)*len(b))
}

// CorrelationDistance converts a correlation matrix into the 1-r distance
// matrix the clustering consumes.
func CorrelationDistance(corr *mat.SymDense) *mat.SymDense {
	n := corr.Symmetric()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, 1-corr.At(i, j))
		}
	}

	return out
}
