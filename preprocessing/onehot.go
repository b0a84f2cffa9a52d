package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

// OneHotEncoder expands categorical columns into 0/1 indicator columns
// named "<column>_<category>". Unseen categories encode as all zeros and
// missing values as missing in every indicator.
type OneHotEncoder struct {
	state        *model.StateManager
	columns      []string
	dropOriginal bool
	categories   map[string][]string
	logger       log.Logger
}

// OneHotOption configures a OneHotEncoder.
type OneHotOption func(*OneHotEncoder)

// WithOneHotDropOriginal removes the source column after expansion.
func WithOneHotDropOriginal(drop bool) OneHotOption {
	return func(o *OneHotEncoder) {
		o.dropOriginal = drop
	}
}

// WithOneHotLogger sets the logger.
func WithOneHotLogger(l log.Logger) OneHotOption {
	return func(o *OneHotEncoder) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewOneHotEncoder creates a OneHotEncoder for columns.
func NewOneHotEncoder(columns []string, opts ...OneHotOption) (*OneHotEncoder, error) {
	if err := validateFeatureList(columns); err != nil {
		return nil, err
	}
	o := &OneHotEncoder{
		state:   model.NewStateManager(),
		columns: append([]string(nil), columns...),
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(log.ModelNameKey, "OneHotEncoder", log.ComponentKey, "preprocessing")
	return o, nil
}

// Fit records the sorted categories of each column. y is ignored.
func (o *OneHotEncoder) Fit(X *frame.Frame, _ mat.Vector) error {
	if X == nil || X.Len() == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	categories := make(map[string][]string, len(o.columns))
	indicators := 0
	for _, c := range o.columns {
		s, err := X.Column(c)
		if err != nil {
			return err
		}
		categories[c] = s.Categories()
		indicators += len(categories[c])
	}
	o.categories = categories
	o.state.SetFitted(len(o.columns), X.Len())

	o.logger.Debug("OneHotEncoder fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(o.columns),
		log.CategoriesKey, indicators,
	)
	return nil
}

// Transform appends one indicator column per fitted category.
func (o *OneHotEncoder) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := o.state.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	out := X
	for _, c := range o.columns {
		s, err := X.Column(c)
		if err != nil {
			return nil, err
		}
		valid := make([]bool, s.Len())
		for i := range valid {
			valid[i] = !s.IsMissing(i)
		}
		for _, cat := range o.categories[c] {
			values := make([]float64, s.Len())
			for i := range values {
				if k, ok := s.Key(i); ok && k == cat {
					values[i] = 1
				}
			}
			indicator, err := frame.NewNumericWithMissing(c+"_"+cat, values, valid)
			if err != nil {
				return nil, err
			}
			if out, err = out.With(indicator); err != nil {
				return nil, err
			}
		}
		if o.dropOriginal {
			if out, err = out.Drop(c); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// FitTransform fits on X, then transforms it.
func (o *OneHotEncoder) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(o, X, y)
}

// Categories returns the fitted categories of column.
func (o *OneHotEncoder) Categories(column string) ([]string, error) {
	if err := o.state.RequireFitted("OneHotEncoder", "Categories"); err != nil {
		return nil, err
	}
	c, ok := o.categories[column]
	if !ok {
		return nil, errors.NewColumnNotFoundError("OneHotEncoder.Categories", column)
	}
	return append([]string(nil), c...), nil
}
