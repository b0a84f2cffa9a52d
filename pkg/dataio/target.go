package dataio

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
)

// SplitTarget removes the label column from f and returns it as a vector.
// The label must be numeric (or parse as numbers) with no missing values.
func SplitTarget(f *frame.Frame, target string) (*frame.Frame, *mat.VecDense, error) {
	s, err := f.Column(target)
	if err != nil {
		return nil, nil, err
	}
	if s, err = s.AsNumeric(); err != nil {
		return nil, nil, err
	}
	y, err := s.Vector()
	if err != nil {
		return nil, nil, err
	}
	X, err := f.Drop(target)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}
