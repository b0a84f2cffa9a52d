// Package pipeline chains fit/transform stages over frames.
package pipeline

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

// Step is a named stage.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline fits its steps in order, each on the output of the previous one.
type Pipeline struct {
	steps  []Step
	index  map[string]int
	state  *model.StateManager
	logger log.Logger
}

// New builds a pipeline. Step names must be unique and non-empty.
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.NewValidationError("steps", "at least one step is required", nil)
	}
	p := &Pipeline{
		index:  make(map[string]int, len(steps)),
		state:  model.NewStateManager(),
		logger: log.GetLogger().With(log.ModelNameKey, "Pipeline", log.ComponentKey, "pipeline"),
	}
	for _, s := range steps {
		if err := p.add(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pipeline) add(s Step) error {
	if s.Name == "" {
		return errors.NewValidationError("step.name", "must not be empty", nil)
	}
	if s.Transformer == nil {
		return errors.NewValidationError("step.transformer", "must not be nil", s.Name)
	}
	if _, dup := p.index[s.Name]; dup {
		return errors.NewValidationError("step.name", "duplicate step", s.Name)
	}
	p.index[s.Name] = len(p.steps)
	p.steps = append(p.steps, s)
	return nil
}

// WithLogger replaces the pipeline's logger and returns p.
func (p *Pipeline) WithLogger(l log.Logger) *Pipeline {
	if l != nil {
		p.logger = l
	}
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Step returns the stage registered under name.
func (p *Pipeline) Step(name string) (model.Transformer, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.steps[i].Transformer, true
}

// Fit fits every step. A panicking step is reported as a PanicError.
func (p *Pipeline) Fit(X *frame.Frame, y mat.Vector) error {
	_, err := p.run(X, y, true, false)
	return err
}

// Transform runs X through every fitted step.
func (p *Pipeline) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := p.state.RequireFitted("Pipeline", "Transform"); err != nil {
		return nil, err
	}
	return p.run(X, nil, false, true)
}

// FitTransform fits every step and returns the transformed frame.
func (p *Pipeline) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return p.run(X, y, true, true)
}

// run pushes X through the steps. The last step is only transformed when
// the caller needs the output.
func (p *Pipeline) run(X *frame.Frame, y mat.Vector, fit, transformLast bool) (*frame.Frame, error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "frame is required", nil)
	}
	op := log.OperationTransform
	if fit {
		op = log.OperationFit
	}

	current := X
	for i, s := range p.steps {
		start := time.Now()
		last := i == len(p.steps)-1
		step := s
		err := errors.SafeExecute("Pipeline."+s.Name, func() error {
			if fit {
				if err := step.Transformer.Fit(current, y); err != nil {
					return err
				}
			}
			if !last || transformLast {
				out, err := step.Transformer.Transform(current)
				if err != nil {
					return err
				}
				current = out
			}
			return nil
		})
		if err != nil {
			p.logger.Error("pipeline step failed", err, log.StepKey, s.Name, log.OperationKey, op)
			return nil, errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		p.logger.Debug("pipeline step done",
			log.StepKey, s.Name,
			log.OperationKey, op,
			log.FeaturesKey, current.Width(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	if fit {
		p.state.SetFitted(X.Width(), X.Len())
	}
	return current, nil
}
