// Package errors provides the error and warning types used across woekit.
// Errors are structured values wrapped with cockroachdb/errors stack traces so
// callers can match them with As and log them with full context.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("woekit-Warning: %v\n", w)
	}
	// set by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs the zerolog-backed warning sink.
// Passing nil restores the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. The zerolog sink wins over the plain handler when set.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// UndefinedContributionWarning is raised when a feature has IV contributions
// that could not be computed and no IV fill value was configured. Those
// contributions are left out of the feature's information value.
type UndefinedContributionWarning struct {
	Feature    string
	Categories []string
}

func (w *UndefinedContributionWarning) Error() string {
	return fmt.Sprintf("information value of '%s' excludes %d undefined contribution(s) %v; configure an IV fill value to include them",
		w.Feature, len(w.Categories), w.Categories)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndefinedContributionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("feature", w.Feature).
		Strs("categories", w.Categories).
		Int("count", len(w.Categories)).
		Str("type", "UndefinedContributionWarning")
}

// NewUndefinedContributionWarning creates a new UndefinedContributionWarning.
func NewUndefinedContributionWarning(feature string, categories []string) *UndefinedContributionWarning {
	return &UndefinedContributionWarning{Feature: feature, Categories: categories}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// NotFittedError is returned when Transform or a report is requested before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("woekit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a length or width mismatch between inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("woekit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError reports a parameter or input that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("woekit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is inappropriate for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("woekit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general estimator failure wrapping an underlying cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("woekit: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("woekit: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ColumnNotFoundError is returned when a frame has no column with the requested name.
type ColumnNotFoundError struct {
	Op     string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("woekit: %s: column '%s' not found", e.Op, e.Column)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError creates a ColumnNotFoundError with a stack trace.
func NewColumnNotFoundError(op, column string) error {
	return errors.WithStack(&ColumnNotFoundError{Op: op, Column: column})
}

// ===========================================================================
//
//	Weight of evidence errors
//
// ===========================================================================

// DegenerateTargetError is returned by Fit when the target lacks one of the
// two classes for a feature, which makes the class proportions undefined.
type DegenerateTargetError struct {
	Feature      string
	MissingClass int // 0 (non-event) or 1 (event)
	Samples      int
}

func (e *DegenerateTargetError) Error() string {
	className := "non-event (0)"
	if e.MissingClass == 1 {
		className = "event (1)"
	}
	return fmt.Sprintf("woekit: feature '%s': target has no %s rows among %d usable samples; both classes are required",
		e.Feature, className, e.Samples)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DegenerateTargetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Int("missing_class", e.MissingClass).
		Int("samples", e.Samples).
		Str("type", "DegenerateTargetError")
}

// NewDegenerateTargetError creates a DegenerateTargetError with a stack trace.
func NewDegenerateTargetError(feature string, missingClass, samples int) error {
	return errors.WithStack(&DegenerateTargetError{Feature: feature, MissingClass: missingClass, Samples: samples})
}

// InvalidDropConfigurationError is returned when dropping the original column
// is requested but the encoded column would carry the same name.
type InvalidDropConfigurationError struct {
	Prefix string
	Suffix string
}

func (e *InvalidDropConfigurationError) Error() string {
	return fmt.Sprintf("woekit: drop_original requires a non-empty prefix or suffix (prefix=%q, suffix=%q); the encoded column would overwrite the only copy of the data",
		e.Prefix, e.Suffix)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InvalidDropConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("prefix", e.Prefix).
		Str("suffix", e.Suffix).
		Str("type", "InvalidDropConfigurationError")
}

// NewInvalidDropConfigurationError creates an InvalidDropConfigurationError with a stack trace.
func NewInvalidDropConfigurationError(prefix, suffix string) error {
	return errors.WithStack(&InvalidDropConfigurationError{Prefix: prefix, Suffix: suffix})
}

// UnseenCategoryError is returned by Transform when a value was not observed
// during Fit and the unseen policy is to fail.
type UnseenCategoryError struct {
	Feature  string
	Category string
	Row      int
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("woekit: feature '%s': category %q at row %d was not seen during Fit", e.Feature, e.Category, e.Row)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *UnseenCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Str("category", e.Category).
		Int("row", e.Row).
		Str("type", "UnseenCategoryError")
}

// NewUnseenCategoryError creates an UnseenCategoryError with a stack trace.
func NewUnseenCategoryError(feature, category string, row int) error {
	return errors.WithStack(&UnseenCategoryError{Feature: feature, Category: category, Row: row})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")
)
