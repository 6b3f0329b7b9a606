package harness

import (
	"sort"

	"phonolab/domain/verdict"
)

// heldOutMetrics computes confusion counts and the derived performance
// figures from blind predictions against true labels.
func heldOutMetrics(predicted, actual []int) (verdict.HeldOutMetrics, verdict.ConfusionCounts) {
	var c verdict.ConfusionCounts
	for i := range predicted {
		switch {
		case predicted[i] == 1 && actual[i] == 1:
			c.TruePositive++
		case predicted[i] == 0 && actual[i] == 0:
			c.TrueNegative++
		case predicted[i] == 1 && actual[i] == 0:
			c.FalsePositive++
		default:
			c.FalseNegative++
		}
	}

	total := len(predicted)
	m := verdict.HeldOutMetrics{}
	if total > 0 {
		m.Accuracy = float64(c.TruePositive+c.TrueNegative) / float64(total)
	}
	if c.TruePositive+c.FalsePositive > 0 {
		m.Precision = float64(c.TruePositive) / float64(c.TruePositive+c.FalsePositive)
	}
	if c.TruePositive+c.FalseNegative > 0 {
		m.Recall = float64(c.TruePositive) / float64(c.TruePositive+c.FalseNegative)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, c
}

// rankAUC computes AUC-ROC with the rank-sum (Mann-Whitney) formulation.
// Returns ok=false when the labels contain only one class - AUC is then
// reported as unavailable, never fabricated.
func rankAUC(probabilities []float64, actual []int) (float64, bool) {
	positives, negatives := 0, 0
	for _, label := range actual {
		if label == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0, false
	}

	type scored struct {
		p     float64
		label int
	}
	rows := make([]scored, len(actual))
	for i := range actual {
		rows[i] = scored{p: probabilities[i], label: actual[i]}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].p < rows[j].p })

	// Average ranks across ties
	ranks := make([]float64, len(rows))
	i := 0
	for i < len(rows) {
		j := i + 1
		for j < len(rows) && rows[j].p == rows[i].p {
			j++
		}
		avg := float64(i+j+1) / 2.0 // 1-based average rank of the tie group
		for k := i; k < j; k++ {
			ranks[k] = avg
		}
		i = j
	}

	rankSum := 0.0
	for k, row := range rows {
		if row.label == 1 {
			rankSum += ranks[k]
		}
	}

	nPos := float64(positives)
	nNeg := float64(negatives)
	auc := (rankSum - nPos*(nPos+1)/2.0) / (nPos * nNeg)
	return auc, true
}
