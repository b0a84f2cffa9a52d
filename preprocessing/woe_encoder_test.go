package preprocessing

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
)

func cityFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.NewCategorical("city", []string{"A", "A", "A", "B", "B"}),
		frame.NewNumeric("income", []float64{10, 20, 30, 40, 50}),
	)
	require.NoError(t, err)
	return f
}

func TestWoEEncoderCityExample(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city"}, WithIVFill(FillIV(0)))
	require.NoError(t, err)

	out, err := enc.FitTransform(cityFrame(t), labels(1, 1, 0, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "income", "woe_city"}, out.Names())
	encoded, err := out.Column("woe_city")
	require.NoError(t, err)
	vals, err := encoded.Floats()
	require.NoError(t, err)
	lnThird := math.Log(1.0 / 3)
	assert.InDeltaSlice(t, []float64{lnThird, lnThird, lnThird, 0, 0}, vals, 1e-12)

	report, err := enc.InformationValues(true)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "city", report.Rows[0].Feature)
	assert.InDelta(t, 0.7324, report.Rows[0].InformationValue, 1e-4)
	assert.Equal(t, TooGoodToTrue, report.Rows[0].Description)
	assert.Zero(t, report.Rows[0].UndefinedContributions)

	m, err := enc.FeatureModel("city")
	require.NoError(t, err)
	assert.Equal(t, ClassCounts{Events: 2, NonEvents: 3}, m.ClassCounts())
}

func TestWoEEncoderUnsetFillReportsUndefined(t *testing.T) {
	prev := log.GetLogger()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	log.SetLogger(logger)
	defer log.SetLogger(prev)

	enc, err := NewWoEEncoder([]string{"city"})
	require.NoError(t, err)
	require.NoError(t, enc.Fit(cityFrame(t), labels(1, 1, 0, 0, 0)))

	report, err := enc.InformationValues(false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows[0].UndefinedContributions)
	assert.InDelta(t, 0.7324, report.Rows[0].InformationValue, 1e-4)
	assert.Empty(t, report.Rows[0].Description)

	assert.True(t, logger.ContainsMessage("woekit warning"))
	assert.True(t, logger.ContainsMessage("undefined contribution"))
	assert.True(t, logger.ContainsField(log.UndefinedContributionsKey, float64(1)))
}

func TestWoEEncoderUnfittedGuard(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city"})
	require.NoError(t, err)

	_, err = enc.Transform(cityFrame(t))
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Transform", nf.Method)

	_, err = enc.InformationValues(true)
	assert.True(t, errors.As(err, &nf))

	_, err = enc.FeatureModel("city")
	assert.True(t, errors.As(err, &nf))
}

func TestNewWoEEncoderValidation(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		opts     []WoEOption
		check    func(t *testing.T, err error)
	}{
		{
			name:     "no features",
			features: nil,
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name:     "duplicate feature",
			features: []string{"city", "city"},
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name:     "drop original without naming delta",
			features: []string{"city"},
			opts:     []WoEOption{WithDropOriginal(true), WithPrefix(""), WithSuffix("")},
			check: func(t *testing.T, err error) {
				var de *errors.InvalidDropConfigurationError
				assert.True(t, errors.As(err, &de))
			},
		},
		{
			name:     "non-finite iv fill",
			features: []string{"city"},
			opts:     []WoEOption{WithIVFill(FillIV(math.Inf(1)))},
			check: func(t *testing.T, err error) {
				var ve *errors.ValueError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "iv_fill", ve.Op)
			},
		},
		{
			name:     "NaN unseen value",
			features: []string{"city"},
			opts:     []WoEOption{WithUnseen(UnseenValue(math.NaN()))},
			check: func(t *testing.T, err error) {
				var ve *errors.ValueError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "unseen_value", ve.Op)
			},
		},
		{
			name:     "negative workers",
			features: []string{"city"},
			opts:     []WoEOption{WithWorkers(-1)},
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewWoEEncoder(tt.features, tt.opts...)
			assert.Nil(t, enc)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestWoEEncoderNaming(t *testing.T) {
	y := labels(1, 1, 0, 0, 0)

	t.Run("drop original", func(t *testing.T) {
		enc, err := NewWoEEncoder([]string{"city"}, WithDropOriginal(true), WithPrefix(""), WithSuffix("_woe"))
		require.NoError(t, err)
		out, err := enc.FitTransform(cityFrame(t), y)
		require.NoError(t, err)
		assert.Equal(t, []string{"income", "city_woe"}, out.Names())
	})

	t.Run("in place", func(t *testing.T) {
		enc, err := NewWoEEncoder([]string{"city"}, WithPrefix(""))
		require.NoError(t, err)
		out, err := enc.FitTransform(cityFrame(t), y)
		require.NoError(t, err)
		assert.Equal(t, []string{"city", "income"}, out.Names())
		col, err := out.Column("city")
		require.NoError(t, err)
		assert.Equal(t, frame.Numeric, col.Kind())
	})

	t.Run("existing output column is not overwritten", func(t *testing.T) {
		src := cityFrame(t)
		taken, err := src.With(frame.NewCategorical("woe_city", []string{"p", "q", "p", "q", "p"}))
		require.NoError(t, err)

		enc, err := NewWoEEncoder([]string{"city"})
		require.NoError(t, err)
		require.NoError(t, enc.Fit(src, y))

		out, err := enc.Transform(taken)
		assert.Nil(t, out)
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "woe_city", ve.Value)

		col, err := taken.Column("woe_city")
		require.NoError(t, err)
		assert.Equal(t, []string{"p", "q", "p", "q", "p"}, col.Strings())
	})

	t.Run("input frame untouched", func(t *testing.T) {
		in := cityFrame(t)
		enc, err := NewWoEEncoder([]string{"city"}, WithDropOriginal(true))
		require.NoError(t, err)
		_, err = enc.FitTransform(in, y)
		require.NoError(t, err)
		assert.Equal(t, []string{"city", "income"}, in.Names())
	})
}

func TestWoEEncoderUnseenPolicies(t *testing.T) {
	train := cityFrame(t)
	test, err := frame.New(frame.NewCategorical("city", []string{"A", "C", ""}))
	require.NoError(t, err)
	y := labels(1, 1, 0, 0, 0)

	t.Run("error by default", func(t *testing.T) {
		enc, err := NewWoEEncoder([]string{"city"})
		require.NoError(t, err)
		require.NoError(t, enc.Fit(train, y))

		_, err = enc.Transform(test)
		var ue *errors.UnseenCategoryError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "C", ue.Category)
		assert.Equal(t, 1, ue.Row)
	})

	t.Run("missing", func(t *testing.T) {
		enc, err := NewWoEEncoder([]string{"city"}, WithUnseen(UnseenMissing()))
		require.NoError(t, err)
		require.NoError(t, enc.Fit(train, y))

		out, err := enc.Transform(test)
		require.NoError(t, err)
		col, _ := out.Column("woe_city")
		assert.False(t, col.IsMissing(0))
		assert.True(t, col.IsMissing(1))
		assert.True(t, col.IsMissing(2), "missing input stays missing")
	})

	t.Run("value", func(t *testing.T) {
		enc, err := NewWoEEncoder([]string{"city"}, WithUnseen(UnseenValue(-9)))
		require.NoError(t, err)
		require.NoError(t, enc.Fit(train, y))

		out, err := enc.Transform(test)
		require.NoError(t, err)
		col, _ := out.Column("woe_city")
		v, ok := col.Float(1)
		require.True(t, ok)
		assert.Equal(t, -9.0, v)
		assert.True(t, col.IsMissing(2))
	})
}

func TestWoEEncoderFitErrors(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city", "zip"})
	require.NoError(t, err)

	err = enc.Fit(cityFrame(t), labels(1, 1, 0, 0, 0))
	var cnf *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, "zip", cnf.Column)
	assert.False(t, enc.IsFitted())

	enc, err = NewWoEEncoder([]string{"city"})
	require.NoError(t, err)
	err = enc.Fit(cityFrame(t), labels(0, 0, 0, 0, 0))
	var de *errors.DegenerateTargetError
	assert.True(t, errors.As(err, &de))

	err = enc.Fit(cityFrame(t), labels(1, 0))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestWoEEncoderFailedRefitKeepsPreviousModel(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city"}, WithIVFill(FillIV(0)))
	require.NoError(t, err)
	require.NoError(t, enc.Fit(cityFrame(t), labels(1, 1, 0, 0, 0)))

	require.Error(t, enc.Fit(cityFrame(t), labels(1, 1, 1, 1, 1)))

	report, err := enc.InformationValues(false)
	require.NoError(t, err)
	assert.InDelta(t, 0.7324, report.Rows[0].InformationValue, 1e-4)
}

func TestWoEEncoderDeterminism(t *testing.T) {
	X, err := frame.New(
		frame.NewCategorical("a", []string{"x", "y", "z", "x", "y", "z", "x", "x"}),
		frame.NewCategorical("b", []string{"p", "p", "q", "q", "r", "r", "p", "q"}),
		frame.NewNumeric("c", []float64{1, 2, 1, 2, 1, 2, 1, 2}),
	)
	require.NoError(t, err)
	y := labels(1, 0, 1, 0, 0, 1, 1, 0)

	var reports []*ImportanceReport
	for _, workers := range []int{1, 2, 0} {
		enc, err := NewWoEEncoder([]string{"a", "b", "c"}, WithWorkers(workers), WithIVFill(FillIV(0)))
		require.NoError(t, err)
		require.NoError(t, enc.Fit(X, y))
		r, err := enc.InformationValues(true)
		require.NoError(t, err)
		reports = append(reports, r)
	}
	for _, r := range reports[1:] {
		assert.Equal(t, reports[0], r)
	}
	assert.Equal(t, []string{"a", "b", "c"}, []string{reports[0].Rows[0].Feature, reports[0].Rows[1].Feature, reports[0].Rows[2].Feature})
}

func TestWoEEncoderConcurrentTransform(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city"}, WithIVFill(FillIV(0)))
	require.NoError(t, err)
	X := cityFrame(t)
	y := labels(1, 1, 0, 0, 0)
	require.NoError(t, enc.Fit(X, y))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(refit bool) {
			defer wg.Done()
			if refit {
				assert.NoError(t, enc.Fit(X, y))
				return
			}
			out, err := enc.Transform(X)
			assert.NoError(t, err)
			assert.True(t, out.Has("woe_city"))
		}(i%4 == 0)
	}
	wg.Wait()
}

func TestWoEEncoderLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	enc, err := NewWoEEncoder([]string{"city"}, WithLogger(logger), WithIVFill(FillIV(0)))
	require.NoError(t, err)

	require.NoError(t, enc.Fit(cityFrame(t), labels(1, 1, 0, 0, 0)))
	assert.True(t, logger.ContainsMessage("WoEEncoder fitted"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationFit))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(5)))
	assert.True(t, logger.ContainsField(log.EstimatorIDKey, enc.ID()))
	assert.True(t, logger.ContainsField(log.FeatureKey, "city"))

	logger.Clear()
	unseen, err := frame.New(frame.NewCategorical("city", []string{"Z"}))
	require.NoError(t, err)
	_, err = enc.Transform(unseen)
	require.Error(t, err)
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorUnseenCategory))
}

func TestWoEEncoderGetParams(t *testing.T) {
	enc, err := NewWoEEncoder([]string{"city"}, WithSuffix("_x"), WithUnseen(UnseenValue(0.5)))
	require.NoError(t, err)

	params := enc.GetParams()
	assert.Equal(t, []string{"city"}, params["features"])
	assert.Equal(t, "woe_", params["prefix"])
	assert.Equal(t, "_x", params["suffix"])
	assert.Equal(t, "value(0.5)", params["unseen"])
	assert.Nil(t, params["iv_fill"])
	assert.Equal(t, "woe_city_x", enc.OutputName("city"))
}

func TestImportanceReportPlot(t *testing.T) {
	r := Report([]string{"city", "age", "zip"}, map[string]float64{"city": 0.73, "age": 0.12, "zip": 0.01}, true)

	path := filepath.Join(t.TempDir(), "iv.png")
	require.NoError(t, r.Plot(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	empty := &ImportanceReport{}
	assert.Error(t, empty.Plot(filepath.Join(t.TempDir(), "empty.png")))
}
