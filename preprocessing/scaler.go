package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// StandardScaler standardizes numeric columns in place to zero mean and
// unit variance. Columns must not contain missing values.
type StandardScaler struct {
	state   *model.StateManager
	columns []string

	// WithMean subtracts the mean (default true).
	WithMean bool
	// WithStd divides by the population standard deviation (default true).
	WithStd bool

	mean  []float64
	scale []float64
}

// NewStandardScaler creates a StandardScaler for columns.
//
// Example:
//
//	scaler, err := preprocessing.NewStandardScaler([]string{"woe_city"}, true, true)
//	scaled, err := scaler.FitTransform(X, nil)
func NewStandardScaler(columns []string, withMean, withStd bool) (*StandardScaler, error) {
	if err := validateFeatureList(columns); err != nil {
		return nil, err
	}
	return &StandardScaler{
		state:    model.NewStateManager(),
		columns:  append([]string(nil), columns...),
		WithMean: withMean,
		WithStd:  withStd,
	}, nil
}

// Fit computes the mean and standard deviation of every column. y is ignored.
func (s *StandardScaler) Fit(X *frame.Frame, _ mat.Vector) error {
	if X == nil {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	m, err := X.Dense(s.columns...)
	if err != nil {
		return err
	}
	r, c := m.Dims()
	s.mean = make([]float64, c)
	s.scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mean, std := stat.PopMeanStdDev(col, nil)
		if !s.WithMean {
			mean = 0
		}
		// constant columns are left unscaled
		if !s.WithStd || math.Abs(std) < 1e-8 {
			std = 1
		}
		s.mean[j], s.scale[j] = mean, std
	}
	s.state.SetFitted(c, r)
	return nil
}

// Transform returns X with every column standardized.
func (s *StandardScaler) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	return applyColumns(X, s.columns, func(j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	})
}

// FitTransform fits on X, then transforms it.
func (s *StandardScaler) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(s, X, y)
}

// InverseTransform maps standardized columns back to the original scale.
func (s *StandardScaler) InverseTransform(X *frame.Frame) (*frame.Frame, error) {
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	return applyColumns(X, s.columns, func(j int, v float64) float64 {
		return v*s.scale[j] + s.mean[j]
	})
}

// GetParams returns the construction parameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"columns":   append([]string(nil), s.columns...),
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(columns=%v, with_mean=%t, with_std=%t)", s.columns, s.WithMean, s.WithStd)
}

// MinMaxScaler rescales numeric columns in place to FeatureRange
// (default [0, 1]). Columns must not contain missing values.
type MinMaxScaler struct {
	state   *model.StateManager
	columns []string

	// FeatureRange is the target [min, max].
	FeatureRange [2]float64

	dataMin []float64
	scale   []float64
}

// NewMinMaxScaler creates a MinMaxScaler for columns.
func NewMinMaxScaler(columns []string, featureRange [2]float64) (*MinMaxScaler, error) {
	if err := validateFeatureList(columns); err != nil {
		return nil, err
	}
	if featureRange[0] >= featureRange[1] {
		return nil, errors.NewValidationError("feature_range", "minimum must be smaller than maximum", featureRange)
	}
	return &MinMaxScaler{
		state:        model.NewStateManager(),
		columns:      append([]string(nil), columns...),
		FeatureRange: featureRange,
	}, nil
}

// NewMinMaxScalerDefault creates a MinMaxScaler onto [0, 1].
func NewMinMaxScalerDefault(columns []string) (*MinMaxScaler, error) {
	return NewMinMaxScaler(columns, [2]float64{0, 1})
}

// Fit records the minimum and range of every column. y is ignored.
func (m *MinMaxScaler) Fit(X *frame.Frame, _ mat.Vector) error {
	if X == nil {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	d, err := X.Dense(m.columns...)
	if err != nil {
		return err
	}
	r, c := d.Dims()
	m.dataMin = make([]float64, c)
	m.scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, d)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		if math.Abs(span) < 1e-8 {
			span = 1
		}
		m.dataMin[j], m.scale[j] = lo, span
	}
	m.state.SetFitted(c, r)
	return nil
}

// Transform returns X with every column rescaled.
func (m *MinMaxScaler) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "Transform"); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return applyColumns(X, m.columns, func(j int, v float64) float64 {
		return (v-m.dataMin[j])/m.scale[j]*width + m.FeatureRange[0]
	})
}

// FitTransform fits on X, then transforms it.
func (m *MinMaxScaler) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(m, X, y)
}

// InverseTransform maps rescaled columns back to the original range.
func (m *MinMaxScaler) InverseTransform(X *frame.Frame) (*frame.Frame, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return applyColumns(X, m.columns, func(j int, v float64) float64 {
		return (v-m.FeatureRange[0])/width*m.scale[j] + m.dataMin[j]
	})
}

// GetParams returns the construction parameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"columns":       append([]string(nil), m.columns...),
		"feature_range": m.FeatureRange,
	}
}

func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(columns=%v, feature_range=[%g, %g])", m.columns, m.FeatureRange[0], m.FeatureRange[1])
}

// applyColumns rewrites columns of X element-wise; fn receives the column index.
func applyColumns(X *frame.Frame, columns []string, fn func(j int, v float64) float64) (*frame.Frame, error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "frame is required", nil)
	}
	d, err := X.Dense(columns...)
	if err != nil {
		return nil, err
	}
	d.Apply(func(_, j int, v float64) float64 { return fn(j, v) }, d)
	return X.WithDense(d, columns...)
}
