package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

// UnknownLabel is the code given to categories not seen during Fit.
const UnknownLabel = -1

// LabelEncoder replaces categorical columns in place with integer codes
// assigned in order of first appearance.
type LabelEncoder struct {
	state   *model.StateManager
	columns []string
	classes map[string][]string
	codes   map[string]map[string]int
	logger  log.Logger
}

// LabelOption configures a LabelEncoder.
type LabelOption func(*LabelEncoder)

// WithLabelLogger sets the logger.
func WithLabelLogger(logger log.Logger) LabelOption {
	return func(l *LabelEncoder) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLabelEncoder creates a LabelEncoder for columns.
func NewLabelEncoder(columns []string, opts ...LabelOption) (*LabelEncoder, error) {
	if err := validateFeatureList(columns); err != nil {
		return nil, err
	}
	l := &LabelEncoder{
		state:   model.NewStateManager(),
		columns: append([]string(nil), columns...),
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(log.ModelNameKey, "LabelEncoder", log.ComponentKey, "preprocessing")
	return l, nil
}

// Fit records the categories of each column. y is ignored.
func (l *LabelEncoder) Fit(X *frame.Frame, _ mat.Vector) error {
	if X == nil || X.Len() == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	classes := make(map[string][]string, len(l.columns))
	codes := make(map[string]map[string]int, len(l.columns))
	total := 0
	for _, c := range l.columns {
		s, err := X.Column(c)
		if err != nil {
			return err
		}
		m := make(map[string]int)
		var order []string
		for i := 0; i < s.Len(); i++ {
			k, ok := s.Key(i)
			if !ok {
				continue
			}
			if _, seen := m[k]; !seen {
				m[k] = len(order)
				order = append(order, k)
			}
		}
		classes[c], codes[c] = order, m
		total += len(order)
	}
	l.classes, l.codes = classes, codes
	l.state.SetFitted(len(l.columns), X.Len())

	l.logger.Debug("LabelEncoder fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(l.columns),
		log.CategoriesKey, total,
	)
	return nil
}

// Transform replaces each column with its codes. Unseen categories become -1.
func (l *LabelEncoder) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := l.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}
	out := X
	for _, c := range l.columns {
		s, err := X.Column(c)
		if err != nil {
			return nil, err
		}
		values := make([]float64, s.Len())
		valid := make([]bool, s.Len())
		for i := range values {
			k, ok := s.Key(i)
			if !ok {
				continue
			}
			code, seen := l.codes[c][k]
			if !seen {
				code = UnknownLabel
			}
			values[i], valid[i] = float64(code), true
		}
		encoded, err := frame.NewNumericWithMissing(c, values, valid)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(encoded); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FitTransform fits on X, then transforms it.
func (l *LabelEncoder) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(l, X, y)
}

// Classes returns the categories of column indexed by their code.
func (l *LabelEncoder) Classes(column string) ([]string, error) {
	if err := l.state.RequireFitted("LabelEncoder", "Classes"); err != nil {
		return nil, err
	}
	c, ok := l.classes[column]
	if !ok {
		return nil, errors.NewColumnNotFoundError("LabelEncoder.Classes", column)
	}
	return append([]string(nil), c...), nil
}
