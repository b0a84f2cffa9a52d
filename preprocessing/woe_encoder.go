package preprocessing

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/core/parallel"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

const (
	// DefaultPrefix is prepended to the name of encoded columns.
	DefaultPrefix = "woe_"
	// DefaultSuffix is appended to the name of encoded columns.
	DefaultSuffix = ""
)

type unseenKind int

const (
	unseenError unseenKind = iota
	unseenMissing
	unseenValue
)

// UnseenPolicy decides what Transform does with a category that was not
// observed during Fit. The zero value is UnseenError.
type UnseenPolicy struct {
	kind  unseenKind
	value float64
}

// UnseenError fails the transform with an UnseenCategoryError.
func UnseenError() UnseenPolicy { return UnseenPolicy{kind: unseenError} }

// UnseenMissing marks the encoded value as missing.
func UnseenMissing() UnseenPolicy { return UnseenPolicy{kind: unseenMissing} }

// UnseenValue substitutes v.
func UnseenValue(v float64) UnseenPolicy { return UnseenPolicy{kind: unseenValue, value: v} }

func (p UnseenPolicy) String() string {
	switch p.kind {
	case unseenMissing:
		return "missing"
	case unseenValue:
		return fmt.Sprintf("value(%g)", p.value)
	}
	return "error"
}

// WoEEncoder replaces categorical features with their weight of evidence
// against a binary target and reports each feature's information value.
//
// Fit is exclusive; Transform and the report accessors may run concurrently
// with each other and observe either the previous or the new fit, never a mix.
type WoEEncoder struct {
	state *model.StateManager
	id    string

	features     []string
	dropOriginal bool
	ivFill       IVFill
	prefix       string
	suffix       string
	unseen       UnseenPolicy
	workers      int
	logger       log.Logger

	mu     sync.RWMutex
	models map[string]*FeatureModel
}

// WoEOption configures a WoEEncoder.
type WoEOption func(*WoEEncoder)

// WithDropOriginal removes the source column after encoding.
func WithDropOriginal(drop bool) WoEOption {
	return func(e *WoEEncoder) {
		e.dropOriginal = drop
	}
}

// WithIVFill sets the value used for undefined IV contributions.
func WithIVFill(fill IVFill) WoEOption {
	return func(e *WoEEncoder) {
		e.ivFill = fill
	}
}

// WithPrefix sets the encoded column prefix (default "woe_").
func WithPrefix(prefix string) WoEOption {
	return func(e *WoEEncoder) {
		e.prefix = prefix
	}
}

// WithSuffix sets the encoded column suffix (default "").
func WithSuffix(suffix string) WoEOption {
	return func(e *WoEEncoder) {
		e.suffix = suffix
	}
}

// WithUnseen sets the policy for categories not seen during Fit.
func WithUnseen(policy UnseenPolicy) WoEOption {
	return func(e *WoEEncoder) {
		e.unseen = policy
	}
}

// WithWorkers bounds the number of features fitted concurrently.
// 0 uses runtime.NumCPU().
func WithWorkers(n int) WoEOption {
	return func(e *WoEEncoder) {
		e.workers = n
	}
}

// WithLogger sets the logger. nil keeps the package default.
func WithLogger(l log.Logger) WoEOption {
	return func(e *WoEEncoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewWoEEncoder creates an encoder for the given features.
//
// Example:
//
//	enc, err := preprocessing.NewWoEEncoder([]string{"city"},
//	    preprocessing.WithIVFill(preprocessing.FillIV(0)))
//	if err != nil { ... }
//	encoded, err := enc.FitTransform(X, y)
func NewWoEEncoder(features []string, opts ...WoEOption) (*WoEEncoder, error) {
	e := &WoEEncoder{
		state:    model.NewStateManager(),
		id:       uuid.NewString(),
		features: append([]string(nil), features...),
		prefix:   DefaultPrefix,
		suffix:   DefaultSuffix,
		unseen:   UnseenError(),
		logger:   log.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := validateFeatureList(features); err != nil {
		return nil, err
	}
	if e.workers < 0 {
		return nil, errors.NewValidationError("workers", "must be >= 0", e.workers)
	}
	if e.dropOriginal && e.prefix+e.suffix == "" {
		return nil, errors.NewInvalidDropConfigurationError(e.prefix, e.suffix)
	}
	if v, ok := e.ivFill.Value(); ok {
		if err := errors.CheckScalar("iv_fill", v); err != nil {
			return nil, err
		}
	}
	if e.unseen.kind == unseenValue {
		if err := errors.CheckScalar("unseen_value", e.unseen.value); err != nil {
			return nil, err
		}
	}

	e.logger = e.logger.With(
		log.ModelNameKey, "WoEEncoder",
		log.EstimatorIDKey, e.id,
		log.ComponentKey, "preprocessing",
	)
	return e, nil
}

func validateFeatureList(features []string) error {
	if len(features) == 0 {
		return errors.NewValidationError("features", "at least one feature is required", nil)
	}
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == "" {
			return errors.NewValidationError("features", "feature names must not be empty", features)
		}
		if _, dup := seen[f]; dup {
			return errors.NewValidationError("features", "duplicate feature", f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// ID returns the instance identifier attached to log records.
func (e *WoEEncoder) ID() string { return e.id }

// Features returns the configured features in order.
func (e *WoEEncoder) Features() []string { return append([]string(nil), e.features...) }

// IsFitted reports whether Fit has succeeded.
func (e *WoEEncoder) IsFitted() bool { return e.state.IsFitted() }

// OutputName returns the name of the encoded column of feature.
func (e *WoEEncoder) OutputName(feature string) string {
	return e.prefix + feature + e.suffix
}

// Fit learns the WoE and IV tables of every configured feature. On failure
// the previous fit, if any, is kept.
func (e *WoEEncoder) Fit(X *frame.Frame, y mat.Vector) error {
	start := time.Now()
	if X == nil || X.Len() == 0 {
		return errors.NewModelError("WoEEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	if y == nil {
		return errors.NewValidationError("y", "target is required", nil)
	}
	if y.Len() != X.Len() {
		return errors.NewDimensionError("WoEEncoder.Fit", X.Len(), y.Len(), 0)
	}

	columns := make([]*frame.Series, len(e.features))
	for i, f := range e.features {
		s, err := X.Column(f)
		if err != nil {
			return err
		}
		columns[i] = s
	}

	workers := parallel.Workers(e.workers, len(e.features))
	fitted := make([]*FeatureModel, len(e.features))
	err := parallel.ForEach(len(e.features), workers, func(i int) error {
		event, nonEvent, counts, err := estimateProportions(columns[i], y)
		if err != nil {
			return err
		}
		m := FitFeature(e.features[i], event, nonEvent, e.ivFill)
		m.counts = counts
		fitted[i] = m
		return nil
	})
	if err != nil {
		e.logger.Error("WoEEncoder fit failed", err,
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, errorCode(err),
		)
		return err
	}

	models := make(map[string]*FeatureModel, len(fitted))
	for _, m := range fitted {
		models[m.Feature()] = m
	}
	e.mu.Lock()
	e.models = models
	e.mu.Unlock()
	e.state.SetFitted(len(e.features), X.Len())

	undefined := 0
	for _, m := range fitted {
		if cats := m.UndefinedContributions(); len(cats) > 0 {
			undefined += len(cats)
			errors.Warn(errors.NewUndefinedContributionWarning(m.Feature(), cats))
		}
		e.logger.Debug("feature fitted",
			log.FeatureKey, m.Feature(),
			log.CategoriesKey, len(m.categories),
			log.EventsKey, m.counts.Events,
			log.NonEventsKey, m.counts.NonEvents,
			log.InformationValueKey, m.InformationValue(),
		)
	}

	e.logger.Info("WoEEncoder fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(e.features),
		log.WorkersKey, workers,
		log.UndefinedContributionsKey, undefined,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Transform encodes every configured feature of X. X is not modified.
func (e *WoEEncoder) Transform(X *frame.Frame) (*frame.Frame, error) {
	if err := e.state.RequireFitted("WoEEncoder", "Transform"); err != nil {
		e.logger.Error("WoEEncoder transform on unfitted encoder", err,
			log.OperationKey, log.OperationTransform,
			log.ErrorCodeKey, log.ErrorNotFitted,
		)
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValidationError("X", "frame is required", nil)
	}
	for _, f := range e.features {
		if name := e.OutputName(f); name != f && X.Has(name) {
			return nil, errors.NewValidationError("X", "encoded column "+name+" of feature "+f+" already exists", name)
		}
	}
	models := e.snapshot()

	out := X
	for _, f := range e.features {
		src, err := X.Column(f)
		if err != nil {
			return nil, err
		}
		encoded, err := e.encode(models[f], src)
		if err != nil {
			e.logger.Error("WoEEncoder transform failed", err,
				log.OperationKey, log.OperationTransform,
				log.FeatureKey, f,
				log.ErrorCodeKey, errorCode(err),
			)
			return nil, err
		}
		if out, err = out.With(encoded); err != nil {
			return nil, err
		}
		if e.dropOriginal {
			if out, err = out.Drop(f); err != nil {
				return nil, err
			}
		}
	}

	e.logger.Debug("WoEEncoder transformed",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(e.features),
	)
	return out, nil
}

func (e *WoEEncoder) encode(m *FeatureModel, src *frame.Series) (*frame.Series, error) {
	n := src.Len()
	values := make([]float64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		category, ok := src.Key(i)
		if !ok {
			continue
		}
		w, seen := m.WoE(category)
		if !seen {
			switch e.unseen.kind {
			case unseenMissing:
				continue
			case unseenValue:
				w = e.unseen.value
			default:
				return nil, errors.NewUnseenCategoryError(m.Feature(), category, i)
			}
		}
		values[i] = w
		valid[i] = true
	}
	return frame.NewNumericWithMissing(e.OutputName(m.Feature()), values, valid)
}

// FitTransform fits on X and y, then encodes X.
func (e *WoEEncoder) FitTransform(X *frame.Frame, y mat.Vector) (*frame.Frame, error) {
	return model.FitTransform(e, X, y)
}

// InformationValues returns the information value of every configured
// feature, in configured order, with predictive power descriptions when
// describe is true.
func (e *WoEEncoder) InformationValues(describe bool) (*ImportanceReport, error) {
	if err := e.state.RequireFitted("WoEEncoder", "InformationValues"); err != nil {
		return nil, err
	}
	models := e.snapshot()

	ivs := make(map[string]float64, len(models))
	for f, m := range models {
		ivs[f] = m.InformationValue()
	}
	report := Report(e.features, ivs, describe)
	for i := range report.Rows {
		report.Rows[i].UndefinedContributions = len(models[report.Rows[i].Feature].undefined)
	}

	e.logger.Debug("information values reported",
		log.OperationKey, log.OperationReport,
		log.FeaturesKey, len(report.Rows),
	)
	return report, nil
}

// FeatureModel returns the fitted tables of one feature.
func (e *WoEEncoder) FeatureModel(feature string) (*FeatureModel, error) {
	if err := e.state.RequireFitted("WoEEncoder", "FeatureModel"); err != nil {
		return nil, err
	}
	m, ok := e.snapshot()[feature]
	if !ok {
		return nil, errors.NewValidationError("feature", "not configured on this encoder", feature)
	}
	return m, nil
}

// GetParams returns the construction parameters.
func (e *WoEEncoder) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"features":      e.Features(),
		"drop_original": e.dropOriginal,
		"prefix":        e.prefix,
		"suffix":        e.suffix,
		"unseen":        e.unseen.String(),
		"workers":       e.workers,
	}
	if v, ok := e.ivFill.Value(); ok {
		params["iv_fill"] = v
	} else {
		params["iv_fill"] = nil
	}
	return params
}

func (e *WoEEncoder) snapshot() map[string]*FeatureModel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.models
}

func errorCode(err error) string {
	var (
		notFitted  *errors.NotFittedError
		degenerate *errors.DegenerateTargetError
		unseen     *errors.UnseenCategoryError
		dim        *errors.DimensionError
	)
	switch {
	case errors.As(err, &notFitted):
		return log.ErrorNotFitted
	case errors.As(err, &degenerate):
		return log.ErrorDegenerateTarget
	case errors.As(err, &unseen):
		return log.ErrorUnseenCategory
	case errors.As(err, &dim):
		return log.ErrorDimensionMismatch
	}
	return "UNKNOWN"
}
