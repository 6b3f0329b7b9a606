package harness

import (
	"math/rand"
)

// stratifiedFolds assigns every sample index to exactly one of k folds
// while preserving class proportions per fold as closely as integer fold
// sizes allow. Each class is shuffled independently and dealt round-robin.
func stratifiedFolds(labels []int, k int, rng *rand.Rand) [][]int {
	byClass := map[int][]int{}
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	folds := make([][]int, k)
	for _, class := range []int{0, 1} {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			f := i % k
			folds[f] = append(folds[f], idx)
		}
	}
	return folds
}

// singleClass reports whether all labels at the given indices agree
func singleClass(labels []int, indices []int) bool {
	if len(indices) == 0 {
		return true
	}
	first := labels[indices[0]]
	for _, idx := range indices[1:] {
		if labels[idx] != first {
			return false
		}
	}
	return true
}
