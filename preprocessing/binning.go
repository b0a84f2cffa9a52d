package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

// BinStrategy chooses how KBinsDiscretizer places bin edges.
type BinStrategy string

const (
	// UniformBins splits [min, max] into bins of equal width.
	UniformBins BinStrategy = "uniform"
	// QuantileBins puts roughly the same number of rows in each bin.
	QuantileBins BinStrategy = "quantile"
)

// DefaultBins is the default number of bins per column.
const DefaultBins = 5

// KBinsDiscretizer replaces continuous columns with ordinal bin indices
// 0..k-1, typically ahead of a WoEEncoder. Missing values stay missing.
type KBinsDiscretizer struct {
	state *model.StateManager

	columns      []string
	nBins        int
	strategy     BinStrategy
	suffix       string
	dropOriginal bool
	logger       log.Logger

	edges map[string][]float64
}

// BinsOption configures a KBinsDiscretizer.
type BinsOption func(*KBinsDiscretizer)

// WithBins sets the number of bins (default 5, at least 2).
func WithBins(n int) BinsOption {
	return func(d *KBinsDiscretizer) {
		d.nBins = n
	}
}

// WithBinStrategy sets the edge placement strategy (default quantile).
func WithBinStrategy(s BinStrategy) BinsOption {
	return func(d *KBinsDiscretizer) {
		d.strategy = s
	}
}

// WithBinSuffix writes bins to "<column>_<suffix>" instead of replacing the column.
func WithBinSuffix(suffix string) BinsOption {
	return func(d *KBinsDiscretizer) {
		d.suffix = suffix
	}
}

// WithBinDropOriginal removes the source column. Requires a suffix.
func WithBinDropOriginal(drop bool) BinsOption {
	return func(d *KBinsDiscretizer) {
		d.dropOriginal = drop
	}
}

// WithBinLogger sets the logger.
func WithBinLogger(l log.Logger) BinsOption {
	return func(d *KBinsDiscretizer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewKBinsDiscretizer creates a discretizer for columns.
func NewKBinsDiscretizer(columns []string, opts ...BinsOption) (*KBinsDiscretizer, error) {
	d := &KBinsDiscretizer{
		state:    model.NewStateManager(),
		columns:  append([]string(nil), columns...),
		nBins:    DefaultBins,
		strategy: QuantileBins,
		logger:   log.GetLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := validateFeatureList(columns); err != nil {
		return nil, err
	}
	if d.nBins < 2 {
		return nil, errors.NewValidationError("n_bins", "must be >= 2", d.nBins)
	}
	if d.strategy != UniformBins && d.strategy != QuantileBins {
		return nil, errors.NewValidationError("strategy", "must be 'uniform' or 'quantile'", string(d.strategy))
	}
	if d.dropOriginal && d.suffix == "" {
		return nil, errors.NewInvalidDropConfigurationError("", d.suffix)
	}
	d.logger = d.logger.With(log.ModelNameKey, "KBinsDiscretizer", log.ComponentKey, "preprocessing")
	return d, nil
}

// Fit computes the bin edges of every column. y is ignored.
func (d *KBinsDiscretizer) Fit(X *frame.Frame, _ mat.Vector) error {
	if X == nil || X.Len() == 0 {
		return errors.NewModelError("KBinsDiscretizer.Fit", "empty data", errors.ErrEmptyData)
	}
	edges := make(map[string][]float64, len(d.columns))
	for _, c := range d.columns {
		values, err := observedFloats(X, c)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return errors.NewValidationError(c, "column has no non-missing values", nil)
		}
		edges[c] = d.binEdges(values)
	}
	d.edges = edges
	d.state.SetFitted(len(d.columns), X.Len())

	d.logger.Debug("KBinsDiscretizer fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(d.columns),
	)
	return nil
}

// binEdges returns ascending, strictly increasing edges; len-1 is the bin count.
func (d *KBinsDiscretizer) binEdges(values []float64) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return []float64{lo, hi}
	}

	raw := make([]float64, d.nBins+1)
	switch d.strategy {
	case UniformBins:
		floats.Span(raw, lo, hi)
	default:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		for i := range raw {
			p := float64(i) / float64(d.nBins)
			raw[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
		}
	}

	// quantiles of repeated values collapse; keep one edge per distinct cut
	edges := []float64{raw[0]}
	for _, e := range raw[1:] {
		if e-edges[len(edges)-1] > 1e-8 {
			edges = append(edges, e)
		}
	}
	if len(edges) == 1 {
		edges = append(edges, hi)
	}
	return edges
}

// Transform replaces (or adds) each column with its bin index.
// Values outside the fitted range fall in the first or last bin.
func (d *KBinsDiscretizer) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := d.state.RequireFitted("KBinsDiscretizer", "Transform"); err != nil {
		return nil, err
	}
	out := X
	for _, c := range d.columns {
		s, err := X.Column(c)
		if err != nil {
			return nil, err
		}
		edges := d.edges[c]
		inner := edges[1 : len(edges)-1]
		last := float64(len(edges) - 2)

		bins := make([]float64, s.Len())
		valid := make([]bool, s.Len())
		for i := range bins {
			v, ok := s.Float(i)
			if !ok {
				continue
			}
			k := sort.Search(len(inner), func(j int) bool { return inner[j] > v })
			bins[i] = math.Min(float64(k), last)
			valid[i] = true
		}

		name := c
		if d.suffix != "" {
			name = c + "_" + d.suffix
		}
		binned, err := frame.NewNumericWithMissing(name, bins, valid)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(binned); err != nil {
			return nil, err
		}
		if d.dropOriginal {
			if out, err = out.Drop(c); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// FitTransform fits on X, then transforms it.
func (d *KBinsDiscretizer) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(d, X, y)
}

// BinEdges returns the fitted edges of column.
func (d *KBinsDiscretizer) BinEdges(column string) ([]float64, error) {
	if err := d.state.RequireFitted("KBinsDiscretizer", "BinEdges"); err != nil {
		return nil, err
	}
	e, ok := d.edges[column]
	if !ok {
		return nil, errors.NewColumnNotFoundError("KBinsDiscretizer.BinEdges", column)
	}
	return append([]float64(nil), e...), nil
}

// GetParams returns the construction parameters.
func (d *KBinsDiscretizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"columns":       append([]string(nil), d.columns...),
		"n_bins":        d.nBins,
		"strategy":      string(d.strategy),
		"suffix":        d.suffix,
		"drop_original": d.dropOriginal,
	}
}

// observedFloats returns the non-missing values of a column, parsing
// categorical columns.
func observedFloats(X *frame.Frame, column string) ([]float64, error) {
	s, err := X.Column(column)
	if err != nil {
		return nil, err
	}
	if s, err = s.AsNumeric(); err != nil {
		return nil, err
	}
	out := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Float(i); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
