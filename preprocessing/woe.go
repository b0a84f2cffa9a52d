package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// IVFill is the value substituted for undefined IV contributions.
// The zero value is NoIVFill.
type IVFill struct {
	value float64
	set   bool
}

// NoIVFill leaves undefined contributions undefined. They are excluded from
// the feature's information value and reported as a count.
var NoIVFill = IVFill{}

// FillIV substitutes v for undefined contributions.
func FillIV(v float64) IVFill {
	return IVFill{value: v, set: true}
}

// Value returns the fill value and whether one is configured.
func (f IVFill) Value() (float64, bool) {
	return f.value, f.set
}

// FeatureModel is the fitted weight of evidence and information value tables
// of one feature. It is immutable; accessors return copies.
type FeatureModel struct {
	feature    string
	categories []string
	woe        map[string]float64
	iv         map[string]float64
	undefined  []string
	total      float64
	counts     ClassCounts
}

// FitFeature builds the WoE and IV tables of a feature from its class proportions.
//
// For every category in either mapping, woe = ln(p_non_event / p_event). An
// undefined ratio (category missing from one mapping, x/0, 0/0, non-finite
// log) is stored as 0. The contribution (p_non_event - p_event) * woe is
// undefined when the category is missing from one mapping; it then takes
// ivFill, or stays NaN and is left out of the total when no fill is set.
// A non-finite ivFill counts as no fill; NewWoEEncoder rejects one.
func FitFeature(feature string, event, nonEvent Proportions, ivFill IVFill) *FeatureModel {
	categorySet := make(map[string]struct{}, len(event)+len(nonEvent))
	for k := range event {
		categorySet[k] = struct{}{}
	}
	for k := range nonEvent {
		categorySet[k] = struct{}{}
	}
	categories := make([]string, 0, len(categorySet))
	for k := range categorySet {
		categories = append(categories, k)
	}
	sort.Strings(categories)

	m := &FeatureModel{
		feature:    feature,
		categories: categories,
		woe:        make(map[string]float64, len(categories)),
		iv:         make(map[string]float64, len(categories)),
	}

	defined := make([]float64, 0, len(categories))
	for _, c := range categories {
		pe, inEvent := event[c]
		pne, inNonEvent := nonEvent[c]

		w := 0.0
		if inEvent && inNonEvent {
			if v, ok := errors.SafeLogRatio(pne, pe); ok {
				w = v
			}
		}
		m.woe[c] = w

		contribution := math.NaN()
		if inEvent && inNonEvent {
			contribution = (pne - pe) * w
		}
		if !errors.IsFinite(contribution) {
			if fill, ok := ivFill.Value(); ok {
				contribution = fill
			}
		}
		m.iv[c] = contribution

		if errors.IsFinite(contribution) {
			defined = append(defined, contribution)
		} else {
			m.undefined = append(m.undefined, c)
		}
	}
	m.total = floats.Sum(defined)
	return m
}

// Feature returns the feature name.
func (m *FeatureModel) Feature() string { return m.feature }

// Categories returns the fitted categories in ascending order.
func (m *FeatureModel) Categories() []string {
	return append([]string(nil), m.categories...)
}

// WoE returns the weight of evidence of a category and whether it was seen during Fit.
func (m *FeatureModel) WoE(category string) (float64, bool) {
	v, ok := m.woe[category]
	return v, ok
}

// Contribution returns the IV contribution of a category. The value is NaN
// when it was undefined and no fill was configured.
func (m *FeatureModel) Contribution(category string) (float64, bool) {
	v, ok := m.iv[category]
	return v, ok
}

// WoETable returns a copy of the category → WoE mapping.
func (m *FeatureModel) WoETable() map[string]float64 {
	return copyTable(m.woe)
}

// IVTable returns a copy of the category → IV contribution mapping.
func (m *FeatureModel) IVTable() map[string]float64 {
	return copyTable(m.iv)
}

// InformationValue is the sum of the defined contributions.
func (m *FeatureModel) InformationValue() float64 { return m.total }

// UndefinedContributions lists the categories whose contribution was left
// undefined and therefore excluded from InformationValue.
func (m *FeatureModel) UndefinedContributions() []string {
	return append([]string(nil), m.undefined...)
}

// ClassCounts returns the usable event and non-event rows seen during Fit.
// It is zero for models built directly with FitFeature.
func (m *FeatureModel) ClassCounts() ClassCounts { return m.counts }

func copyTable(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
