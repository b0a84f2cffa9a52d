package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// Target class labels.
const (
	NonEvent = 0
	Event    = 1
)

// Proportions maps a category to its share of the rows of one target class.
// Categories never observed in that class are absent, not zero.
type Proportions map[string]float64

// Categories returns the keys in ascending order.
func (p Proportions) Categories() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ClassCounts holds the number of usable rows per target class for one feature.
type ClassCounts struct {
	Events    int
	NonEvents int
}

// EstimateProportions computes, for every category of x, the fraction of all
// event rows (y == 1) and of all non-event rows (y == 0) that carry it.
//
// Rows where x is missing are left out of both numerators and denominators,
// so each returned mapping sums to 1. A target without one of the two classes
// yields a DegenerateTargetError.
func EstimateProportions(x *frame.Series, y mat.Vector) (event, nonEvent Proportions, err error) {
	event, nonEvent, _, err = estimateProportions(x, y)
	return event, nonEvent, err
}

func estimateProportions(x *frame.Series, y mat.Vector) (Proportions, Proportions, ClassCounts, error) {
	var counts ClassCounts
	if y == nil {
		return nil, nil, counts, errors.NewValidationError("y", "target is required", nil)
	}
	if y.Len() != x.Len() {
		return nil, nil, counts, errors.NewDimensionError("EstimateProportions("+x.Name()+")", x.Len(), y.Len(), 0)
	}

	eventCounts := make(map[string]int)
	nonEventCounts := make(map[string]int)
	for i := 0; i < x.Len(); i++ {
		label, err := binaryLabel(y.AtVec(i), i)
		if err != nil {
			return nil, nil, counts, err
		}
		category, ok := x.Key(i)
		if !ok {
			continue
		}
		if label == Event {
			eventCounts[category]++
			counts.Events++
		} else {
			nonEventCounts[category]++
			counts.NonEvents++
		}
	}

	samples := counts.Events + counts.NonEvents
	if counts.Events == 0 {
		return nil, nil, counts, errors.NewDegenerateTargetError(x.Name(), Event, samples)
	}
	if counts.NonEvents == 0 {
		return nil, nil, counts, errors.NewDegenerateTargetError(x.Name(), NonEvent, samples)
	}

	return normalize(eventCounts, counts.Events), normalize(nonEventCounts, counts.NonEvents), counts, nil
}

func normalize(counts map[string]int, total int) Proportions {
	p := make(Proportions, len(counts))
	for k, n := range counts {
		p[k] = float64(n) / float64(total)
	}
	return p
}

func binaryLabel(v float64, row int) (int, error) {
	switch v {
	case 0:
		return NonEvent, nil
	case 1:
		return Event, nil
	}
	return 0, errors.NewValidationError("y", "binary target labels must be 0 or 1", map[string]interface{}{"row": row, "label": v})
}
