package preprocessing

import (
	"math"
	"sort"
)

// PredictivePower describes how predictive an information value is.
type PredictivePower string

const (
	NotUseful     PredictivePower = "Not useful for prediction"
	WeakPower     PredictivePower = "Weak predictive power"
	MediumPower   PredictivePower = "Medium predictive power"
	StrongPower   PredictivePower = "Strong predictive power"
	TooGoodToTrue PredictivePower = "Too good to be true!"

	// InvalidValue marks a negative or NaN information value. IV is
	// non-negative by construction, so this only appears with a negative IV fill.
	InvalidValue PredictivePower = "Invalid information value"
)

type powerBand struct {
	lower, upper float64
	power        PredictivePower
}

// half-open [lower, upper), ascending, first match wins
var powerBands = []powerBand{
	{0, 0.02, NotUseful},
	{0.02, 0.1, WeakPower},
	{0.1, 0.3, MediumPower},
	{0.3, 0.5, StrongPower},
	{0.5, math.Inf(1), TooGoodToTrue},
}

// DescribeInformationValue classifies an information value into a predictive power band.
func DescribeInformationValue(iv float64) PredictivePower {
	for _, b := range powerBands {
		if b.lower <= iv && iv < b.upper {
			return b.power
		}
	}
	if math.IsInf(iv, 1) {
		return TooGoodToTrue
	}
	return InvalidValue
}

// Importance is one row of an ImportanceReport.
type Importance struct {
	Feature                string          `json:"feature" yaml:"feature"`
	InformationValue       float64         `json:"information_value" yaml:"information_value"`
	Description            PredictivePower `json:"predictive_power_description,omitempty" yaml:"predictive_power_description,omitempty"`
	UndefinedContributions int             `json:"undefined_contributions,omitempty" yaml:"undefined_contributions,omitempty"`
}

// ImportanceReport is the information value table, one row per feature.
type ImportanceReport struct {
	Rows []Importance `json:"features" yaml:"features"`
}

// Report builds the information value table for features, in the given
// order, from already aggregated information values. Descriptions are
// filled in when describe is true.
func Report(features []string, ivByFeature map[string]float64, describe bool) *ImportanceReport {
	r := &ImportanceReport{Rows: make([]Importance, 0, len(features))}
	for _, f := range features {
		iv, ok := ivByFeature[f]
		if !ok {
			iv = math.NaN()
		}
		row := Importance{Feature: f, InformationValue: iv}
		if describe {
			row.Description = DescribeInformationValue(iv)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// Lookup returns the row of a feature.
func (r *ImportanceReport) Lookup(feature string) (Importance, bool) {
	for _, row := range r.Rows {
		if row.Feature == feature {
			return row, true
		}
	}
	return Importance{}, false
}

// Sorted returns the rows ordered by descending information value, ties by name.
func (r *ImportanceReport) Sorted() []Importance {
	rows := append([]Importance(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].InformationValue != rows[j].InformationValue {
			return rows[i].InformationValue > rows[j].InformationValue
		}
		return rows[i].Feature < rows[j].Feature
	})
	return rows
}

// Described reports whether the rows carry descriptions.
func (r *ImportanceReport) Described() bool {
	for _, row := range r.Rows {
		if row.Description != "" {
			return true
		}
	}
	return false
}
