package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/core/model"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

var (
	_ model.FitTransformer = (*WoEEncoder)(nil)
	_ model.FitTransformer = (*KBinsDiscretizer)(nil)
	_ model.FitTransformer = (*LabelEncoder)(nil)
	_ model.FitTransformer = (*OneHotEncoder)(nil)
	_ model.FitTransformer = (*StandardScaler)(nil)
	_ model.FitTransformer = (*MinMaxScaler)(nil)
	_ model.ParamsGetter   = (*WoEEncoder)(nil)
)

func floatsOf(t *testing.T, f *frame.Frame, name string) []float64 {
	t.Helper()
	s, err := f.Column(name)
	require.NoError(t, err)
	v, err := s.Floats()
	require.NoError(t, err)
	return v
}

func TestKBinsDiscretizerUniform(t *testing.T) {
	X, err := frame.New(frame.NewNumeric("age", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}))
	require.NoError(t, err)

	d, err := NewKBinsDiscretizer([]string{"age"}, WithBins(5), WithBinStrategy(UniformBins))
	require.NoError(t, err)
	out, err := d.FitTransform(X, nil)
	require.NoError(t, err)

	edges, err := d.BinEdges("age")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8, 10}, edges, 1e-12)
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, floatsOf(t, out, "age"))
	assert.Equal(t, []string{"age"}, out.Names(), "replaced in place")
}

func TestKBinsDiscretizerQuantile(t *testing.T) {
	X, err := frame.New(frame.NewNumeric("income", []float64{1, 2, 3, 4, 100, 200, 300, 400}))
	require.NoError(t, err)

	d, err := NewKBinsDiscretizer([]string{"income"}, WithBins(2), WithBinSuffix("bin"))
	require.NoError(t, err)
	out, err := d.FitTransform(X, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"income", "income_bin"}, out.Names())
	bins := floatsOf(t, out, "income_bin")
	assert.Equal(t, []float64{0, 0, 0}, bins[:3])
	assert.Equal(t, []float64{1, 1, 1, 1}, bins[4:])
}

func TestKBinsDiscretizerEdgeCases(t *testing.T) {
	t.Run("constant column", func(t *testing.T) {
		X, err := frame.New(frame.NewNumeric("c", []float64{3, 3, 3}))
		require.NoError(t, err)
		d, err := NewKBinsDiscretizer([]string{"c"})
		require.NoError(t, err)
		out, err := d.FitTransform(X, nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0}, floatsOf(t, out, "c"))
	})

	t.Run("missing and out of range", func(t *testing.T) {
		train, err := frame.New(frame.NewNumeric("x", []float64{0, 5, 10, math.NaN()}))
		require.NoError(t, err)
		d, err := NewKBinsDiscretizer([]string{"x"}, WithBins(2), WithBinStrategy(UniformBins), WithBinSuffix("b"), WithBinDropOriginal(true))
		require.NoError(t, err)
		require.NoError(t, d.Fit(train, nil))

		test, err := frame.New(frame.NewNumeric("x", []float64{-50, 50, math.NaN()}))
		require.NoError(t, err)
		out, err := d.Transform(test)
		require.NoError(t, err)
		assert.Equal(t, []string{"x_b"}, out.Names())
		col, _ := out.Column("x_b")
		v0, _ := col.Float(0)
		v1, _ := col.Float(1)
		assert.Equal(t, 0.0, v0)
		assert.Equal(t, 1.0, v1)
		assert.True(t, col.IsMissing(2))
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := NewKBinsDiscretizer([]string{"x"}, WithBins(1))
		assert.Error(t, err)
		_, err = NewKBinsDiscretizer([]string{"x"}, WithBinStrategy("kmeans"))
		assert.Error(t, err)
		_, err = NewKBinsDiscretizer([]string{"x"}, WithBinDropOriginal(true))
		var de *errors.InvalidDropConfigurationError
		assert.True(t, errors.As(err, &de))
	})
}

func TestBinsFeedWoEEncoder(t *testing.T) {
	X, err := frame.New(frame.NewNumeric("age", []float64{18, 22, 25, 31, 45, 52, 60, 70}))
	require.NoError(t, err)
	y := labels(1, 1, 1, 0, 1, 0, 0, 0)

	d, err := NewKBinsDiscretizer([]string{"age"}, WithBins(2), WithBinStrategy(UniformBins))
	require.NoError(t, err)
	binned, err := d.FitTransform(X, nil)
	require.NoError(t, err)

	enc, err := NewWoEEncoder([]string{"age"}, WithIVFill(FillIV(0)))
	require.NoError(t, err)
	require.NoError(t, enc.Fit(binned, y))

	m, err := enc.FeatureModel("age")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, m.Categories())
	assert.Greater(t, m.InformationValue(), 0.0)
}

func TestLabelEncoder(t *testing.T) {
	X, err := frame.New(frame.NewCategorical("color", []string{"red", "blue", "", "red", "green"}))
	require.NoError(t, err)

	l, err := NewLabelEncoder([]string{"color"})
	require.NoError(t, err)
	out, err := l.FitTransform(X, nil)
	require.NoError(t, err)

	classes, err := l.Classes("color")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue", "green"}, classes)

	col, _ := out.Column("color")
	assert.True(t, col.IsMissing(2))
	v, _ := col.Float(4)
	assert.Equal(t, 2.0, v)

	unseen, err := frame.New(frame.NewCategorical("color", []string{"purple"}))
	require.NoError(t, err)
	out, err = l.Transform(unseen)
	require.NoError(t, err)
	assert.Equal(t, []float64{UnknownLabel}, floatsOf(t, out, "color"))
}

func TestCategoricalEncodersLogFit(t *testing.T) {
	X, err := frame.New(frame.NewCategorical("size", []string{"m", "s", "l", "", "s"}))
	require.NoError(t, err)

	logger, _ := log.NewTestLogger(log.LevelDebug)
	l, err := NewLabelEncoder([]string{"size"}, WithLabelLogger(logger))
	require.NoError(t, err)
	require.NoError(t, l.Fit(X, nil))

	o, err := NewOneHotEncoder([]string{"size"}, WithOneHotLogger(logger))
	require.NoError(t, err)
	require.NoError(t, o.Fit(X, nil))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for i, name := range []string{"LabelEncoder", "OneHotEncoder"} {
		assert.Equal(t, name+" fitted", entries[i]["message"])
		assert.Equal(t, name, entries[i][log.ModelNameKey])
		assert.Equal(t, log.OperationFit, entries[i][log.OperationKey])
		assert.Equal(t, float64(5), entries[i][log.SamplesKey])
		assert.Equal(t, float64(3), entries[i][log.CategoriesKey])
	}
}

func TestOneHotEncoder(t *testing.T) {
	X, err := frame.New(frame.NewCategorical("size", []string{"m", "s", "l", "", "s"}))
	require.NoError(t, err)

	o, err := NewOneHotEncoder([]string{"size"}, WithOneHotDropOriginal(true))
	require.NoError(t, err)
	out, err := o.FitTransform(X, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"size_l", "size_m", "size_s"}, out.Names())
	s, _ := out.Column("size_s")
	for i, want := range []float64{0, 1, 0, -1, 1} {
		if want < 0 {
			assert.True(t, s.IsMissing(i))
			continue
		}
		got, _ := s.Float(i)
		assert.Equal(t, want, got, "row %d", i)
	}

	unseen, err := frame.New(frame.NewCategorical("size", []string{"xl"}))
	require.NoError(t, err)
	out, err = o.Transform(unseen)
	require.NoError(t, err)
	for _, name := range out.Names() {
		assert.Equal(t, []float64{0}, floatsOf(t, out, name))
	}
}

func TestStandardScaler(t *testing.T) {
	X, err := frame.New(
		frame.NewNumeric("a", []float64{1, 2, 3, 4}),
		frame.NewNumeric("b", []float64{5, 5, 5, 5}),
		frame.NewCategorical("id", []string{"w", "x", "y", "z"}),
	)
	require.NoError(t, err)

	s, err := NewStandardScaler([]string{"a", "b"}, true, true)
	require.NoError(t, err)
	out, err := s.FitTransform(X, nil)
	require.NoError(t, err)

	std := math.Sqrt(1.25)
	assert.InDeltaSlice(t, []float64{-1.5 / std, -0.5 / std, 0.5 / std, 1.5 / std}, floatsOf(t, out, "a"), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, floatsOf(t, out, "b"))
	assert.Equal(t, X.Names(), out.Names())

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4}, floatsOf(t, back, "a"), 1e-12)

	_, err = s.Transform(nil)
	assert.Error(t, err)
}

func TestMinMaxScaler(t *testing.T) {
	X, err := frame.New(frame.NewNumeric("a", []float64{2, 4, 6}))
	require.NoError(t, err)

	m, err := NewMinMaxScaler([]string{"a"}, [2]float64{-1, 1})
	require.NoError(t, err)
	out, err := m.FitTransform(X, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, floatsOf(t, out, "a"), 1e-12)

	back, err := m.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4, 6}, floatsOf(t, back, "a"), 1e-12)

	_, err = NewMinMaxScaler([]string{"a"}, [2]float64{1, 1})
	assert.Error(t, err)
}

func TestStagesRequireFit(t *testing.T) {
	X, err := frame.New(frame.NewNumeric("a", []float64{1, 2}))
	require.NoError(t, err)

	d, _ := NewKBinsDiscretizer([]string{"a"})
	l, _ := NewLabelEncoder([]string{"a"})
	o, _ := NewOneHotEncoder([]string{"a"})
	s, _ := NewStandardScaler([]string{"a"}, true, true)
	m, _ := NewMinMaxScalerDefault([]string{"a"})

	for _, stage := range []model.Transformer{d, l, o, s, m} {
		_, err := stage.Transform(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf), "%T", stage)
	}
}
