package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
)

// Transformer is a fit/transform stage over frames. Supervised stages read
// y; unsupervised stages ignore it and accept nil.
type Transformer interface {
	// Fit learns the stage's parameters from X (and y).
	Fit(X *frame.Frame, y mat.Vector) error

	// Transform applies the learned parameters and returns a new frame.
	Transform(X *frame.Frame) (*frame.Frame, error)
}

// FitTransformer can fit and transform in one call.
type FitTransformer interface {
	Transformer
	FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error)
}

// ParamsGetter exposes an estimator's construction parameters.
type ParamsGetter interface {
	GetParams() map[string]interface{}
}

// FitTransform fits t on X and y, then transforms X.
func FitTransform(t Transformer, X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	if err := t.Fit(X, y); err != nil {
		return nil, err
	}
	return t.Transform(X)
}
