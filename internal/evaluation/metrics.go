package evaluation

import (
	"sort"

	"github.com/ternarybob/auspex/internal/models"
)

// SpearmanCorrelation computes the rank correlation of two equally sized
// sequences using average ranks for ties. The second return is false when
// the sequences are mismatched in length or shorter than two elements.
func SpearmanCorrelation(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) < 2 {
		return 0, false
	}

	rankA := averageRanks(a)
	rankB := averageRanks(b)

	n := float64(len(a))
	dSum := 0.0
	for i := range rankA {
		d := rankA[i] - rankB[i]
		dSum += d * d
	}
	return 1 - (6*dSum)/(n*(n*n-1)), true
}

// averageRanks assigns 1-based ranks in ascending value order; tied values
// all receive the mean of the rank positions they span.
func averageRanks(values []float64) []float64 {
	type indexed struct {
		value float64
		index int
	}
	sorted := make([]indexed, len(values))
	for i, v := range values {
		sorted[i] = indexed{v, i}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].value < sorted[j].value })

	ranks := make([]float64, len(values))
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted)-1 && sorted[j].value == sorted[j+1].value {
			j++
		}
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[sorted[k].index] = avg
		}
		i = j + 1
	}
	return ranks
}

// percentile picks the floor(len*q) element of the ascending-sorted input,
// or 0 for an empty slice.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ConfusionMatrix counts expected-versus-predicted category pairs for the
// five categories in fixed order.
type ConfusionMatrix map[models.TargetType]map[models.TargetType]int

func NewConfusionMatrix() ConfusionMatrix {
	m := make(ConfusionMatrix, len(models.TargetTypes))
	for _, expected := range models.TargetTypes {
		row := make(map[models.TargetType]int, len(models.TargetTypes))
		for _, predicted := range models.TargetTypes {
			row[predicted] = 0
		}
		m[expected] = row
	}
	return m
}

func (m ConfusionMatrix) Add(expected, predicted models.TargetType) {
	m[expected][predicted]++
}
