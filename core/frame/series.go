// Package frame provides a minimal column-oriented table with named, typed
// columns and an explicit missing-value mask.
//
// Frames and Series are immutable: every operation that changes shape
// returns a new value and shares the untouched column data.
package frame

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// Kind is the storage type of a Series.
type Kind int

const (
	// Categorical columns hold string values.
	Categorical Kind = iota
	// Numeric columns hold float64 values.
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Series is a named column. A row is missing when its valid flag is false.
type Series struct {
	name  string
	kind  Kind
	cats  []string
	nums  []float64
	valid []bool
}

// NewCategorical builds a categorical Series. Empty strings are treated as missing.
func NewCategorical(name string, values []string) *Series {
	valid := make([]bool, len(values))
	for i, v := range values {
		valid[i] = v != ""
	}
	return &Series{name: name, kind: Categorical, cats: append([]string(nil), values...), valid: valid}
}

// NewCategoricalWithMissing builds a categorical Series with an explicit validity mask.
func NewCategoricalWithMissing(name string, values []string, valid []bool) (*Series, error) {
	if len(values) != len(valid) {
		return nil, errors.NewDimensionError("frame.NewCategoricalWithMissing", len(values), len(valid), 0)
	}
	return &Series{
		name:  name,
		kind:  Categorical,
		cats:  append([]string(nil), values...),
		valid: append([]bool(nil), valid...),
	}, nil
}

// NewNumeric builds a numeric Series. NaN values are treated as missing.
func NewNumeric(name string, values []float64) *Series {
	valid := make([]bool, len(values))
	for i, v := range values {
		valid[i] = !math.IsNaN(v)
	}
	return &Series{name: name, kind: Numeric, nums: append([]float64(nil), values...), valid: valid}
}

// NewNumericWithMissing builds a numeric Series with an explicit validity mask.
func NewNumericWithMissing(name string, values []float64, valid []bool) (*Series, error) {
	if len(values) != len(valid) {
		return nil, errors.NewDimensionError("frame.NewNumericWithMissing", len(values), len(valid), 0)
	}
	return &Series{
		name:  name,
		kind:  Numeric,
		nums:  append([]float64(nil), values...),
		valid: append([]bool(nil), valid...),
	}, nil
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Kind returns the storage type.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.valid) }

// IsMissing reports whether row i has no value.
func (s *Series) IsMissing(i int) bool { return !s.valid[i] }

// MissingCount returns the number of missing rows.
func (s *Series) MissingCount() int {
	n := 0
	for _, ok := range s.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Rename returns the same data under a new name.
func (s *Series) Rename(name string) *Series {
	c := *s
	c.name = name
	return &c
}

// Key returns the category key of row i: the string value for categorical
// columns, the shortest round-trip formatting for numeric columns.
func (s *Series) Key(i int) (string, bool) {
	if !s.valid[i] {
		return "", false
	}
	if s.kind == Numeric {
		return strconv.FormatFloat(s.nums[i], 'g', -1, 64), true
	}
	return s.cats[i], true
}

// Float returns row i as a float64. Categorical values are parsed.
func (s *Series) Float(i int) (float64, bool) {
	if !s.valid[i] {
		return math.NaN(), false
	}
	if s.kind == Numeric {
		return s.nums[i], true
	}
	v, err := strconv.ParseFloat(s.cats[i], 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// Strings returns the row keys with "" for missing rows.
func (s *Series) Strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i], _ = s.Key(i)
	}
	return out
}

// Floats returns a copy of a numeric column with NaN for missing rows.
func (s *Series) Floats() ([]float64, error) {
	if s.kind != Numeric {
		return nil, errors.NewValidationError(s.name, "numeric column required", s.kind.String())
	}
	out := make([]float64, len(s.nums))
	for i, v := range s.nums {
		if !s.valid[i] {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// Categories returns the distinct non-missing keys in ascending order.
func (s *Series) Categories() []string {
	seen := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		if k, ok := s.Key(i); ok {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Vector converts a numeric column without missing values to a gonum vector.
func (s *Series) Vector() (*mat.VecDense, error) {
	vals, err := s.Floats()
	if err != nil {
		return nil, err
	}
	if n := s.MissingCount(); n > 0 {
		return nil, errors.NewValidationError(s.name, "column has missing values", n)
	}
	if len(vals) == 0 {
		return nil, errors.NewModelError("Series.Vector", "empty column", errors.ErrEmptyData)
	}
	return mat.NewVecDense(len(vals), vals), nil
}

// AsNumeric parses a categorical column into a numeric one.
// Unparseable non-missing values are an error.
func (s *Series) AsNumeric() (*Series, error) {
	if s.kind == Numeric {
		return s, nil
	}
	vals := make([]float64, s.Len())
	valid := make([]bool, s.Len())
	for i := range vals {
		if !s.valid[i] {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s.cats[i], 64)
		if err != nil {
			return nil, errors.NewValidationError(s.name, "value is not numeric", s.cats[i])
		}
		vals[i], valid[i] = v, true
	}
	return &Series{name: s.name, kind: Numeric, nums: vals, valid: valid}, nil
}
