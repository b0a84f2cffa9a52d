package frame

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// Frame is an ordered set of equally long, uniquely named columns.
type Frame struct {
	names []string
	cols  map[string]*Series
	nrows int
}

// New builds a Frame. All columns must have the same length and distinct names.
func New(columns ...*Series) (*Frame, error) {
	f := &Frame{cols: make(map[string]*Series, len(columns))}
	for i, s := range columns {
		if s == nil {
			return nil, errors.NewValidationError("columns", "nil column", i)
		}
		if _, dup := f.cols[s.Name()]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", s.Name())
		}
		if i == 0 {
			f.nrows = s.Len()
		} else if s.Len() != f.nrows {
			return nil, errors.NewDimensionError("frame.New("+s.Name()+")", f.nrows, s.Len(), 0)
		}
		f.names = append(f.names, s.Name())
		f.cols[s.Name()] = s
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.nrows }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.names) }

// Names returns the column names in order.
func (f *Frame) Names() []string { return append([]string(nil), f.names...) }

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Series, error) {
	s, ok := f.cols[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Frame.Column", name)
	}
	return s, nil
}

// With returns a Frame with s added at the end, or replacing the column of
// the same name in place.
func (f *Frame) With(s *Series) (*Frame, error) {
	if len(f.names) > 0 && s.Len() != f.nrows {
		return nil, errors.NewDimensionError("Frame.With("+s.Name()+")", f.nrows, s.Len(), 0)
	}
	out := f.clone()
	if len(out.names) == 0 {
		out.nrows = s.Len()
	}
	if _, exists := out.cols[s.Name()]; !exists {
		out.names = append(out.names, s.Name())
	}
	out.cols[s.Name()] = s
	return out, nil
}

// Drop returns a Frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !f.Has(n) {
			return nil, errors.NewColumnNotFoundError("Frame.Drop", n)
		}
		drop[n] = struct{}{}
	}
	out := &Frame{cols: make(map[string]*Series, len(f.names)), nrows: f.nrows}
	for _, n := range f.names {
		if _, ok := drop[n]; ok {
			continue
		}
		out.names = append(out.names, n)
		out.cols[n] = f.cols[n]
	}
	return out, nil
}

// Select returns a Frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Series, 0, len(names))
	for _, n := range names {
		s, err := f.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	return New(cols...)
}

// Dense copies numeric columns into a rows × len(names) matrix.
// Categorical or missing values are an error.
func (f *Frame) Dense(names ...string) (*mat.Dense, error) {
	if f.nrows == 0 || len(names) == 0 {
		return nil, errors.NewModelError("Frame.Dense", "empty data", errors.ErrEmptyData)
	}
	m := mat.NewDense(f.nrows, len(names), nil)
	for j, n := range names {
		s, err := f.Column(n)
		if err != nil {
			return nil, err
		}
		vals, err := s.Floats()
		if err != nil {
			return nil, err
		}
		if miss := s.MissingCount(); miss > 0 {
			return nil, errors.NewValidationError(n, "column has missing values", miss)
		}
		m.SetCol(j, vals)
	}
	return m, nil
}

// WithDense writes the columns of m back under names, replacing or adding them.
func (f *Frame) WithDense(m mat.Matrix, names ...string) (*Frame, error) {
	r, c := m.Dims()
	if c != len(names) {
		return nil, errors.NewDimensionError("Frame.WithDense", len(names), c, 1)
	}
	out := f
	for j, n := range names {
		col := make([]float64, r)
		mat.Col(col, j, m)
		var err error
		if out, err = out.With(NewNumeric(n, col)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (f *Frame) clone() *Frame {
	out := &Frame{
		names: append([]string(nil), f.names...),
		cols:  make(map[string]*Series, len(f.cols)+1),
		nrows: f.nrows,
	}
	for k, v := range f.cols {
		out.cols[k] = v
	}
	return out
}
