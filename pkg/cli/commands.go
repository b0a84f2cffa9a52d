package cli

import (
	"context"

	urfave "github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/pipeline"
	"github.com/YuminosukeSato/woekit/pkg/config"
	"github.com/YuminosukeSato/woekit/pkg/dataio"
	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
	"github.com/YuminosukeSato/woekit/preprocessing"
)

func newFitCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "fit",
		Usage: "Fit the encoder and print the information value report",
		Flags: append(sourceFlags(),
			newFormatFlag(),
			&urfave.StringFlag{
				Name:  plotFlag,
				Usage: "Write an information value bar chart to this path (.png, .svg, .pdf)",
			},
		),
		Action: cmdFit,
	}
}

func newTransformCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "transform",
		Usage: "Fit the encoder and write the encoded rows as CSV",
		Flags: append(sourceFlags(),
			&urfave.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "Path of the encoded CSV (optional, default: stdout)",
			},
		),
		Action: cmdTransform,
	}
}

func newDescribeCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "describe",
		Usage: "List the predictive power bands or classify one information value",
		Flags: []urfave.Flag{
			newFormatFlag(),
			&urfave.FloatFlag{
				Name:  ivFlag,
				Usage: "Classify a single information value instead of listing the bands",
			},
		},
		Action: cmdDescribe,
	}
}

// job is a configured encoder fitted on the loaded data.
type job struct {
	X       *frame.Frame
	target  *frame.Series
	encoder *preprocessing.WoEEncoder
	steps   *pipeline.Pipeline
}

func cmdFit(ctx context.Context, cmd *urfave.Command) error {
	j, err := fitJob(ctx, cmd)
	if err != nil {
		return err
	}
	report, err := j.encoder.InformationValues(true)
	if err != nil {
		return err
	}
	if p := cmd.String(plotFlag); p != "" {
		if err := report.Plot(p); err != nil {
			return err
		}
	}
	return renderReport(cmd.Root().Writer, cmd.String(formatFlag), report)
}

func cmdTransform(ctx context.Context, cmd *urfave.Command) error {
	j, err := fitJob(ctx, cmd)
	if err != nil {
		return err
	}
	out, err := j.steps.Transform(j.X)
	if err != nil {
		return err
	}
	if out, err = out.With(j.target); err != nil {
		return err
	}
	if path := cmd.String(outputFlag); path != "" {
		return dataio.WriteCSVFile(path, out)
	}
	return dataio.WriteCSV(cmd.Root().Writer, out)
}

func cmdDescribe(_ context.Context, cmd *urfave.Command) error {
	w := cmd.Root().Writer
	format := cmd.String(formatFlag)
	if cmd.IsSet(ivFlag) {
		iv := cmd.Float(ivFlag)
		if !errors.IsFinite(iv) {
			return errors.NewValidationError(ivFlag, "information value must be finite", iv)
		}
		r := preprocessing.Report([]string{"value"}, map[string]float64{"value": iv}, true)
		return renderReport(w, format, r)
	}
	return renderBands(w, format)
}

func fitJob(ctx context.Context, cmd *urfave.Command) (*job, error) {
	cfg, err := config.Load(cmd.String(configFlag))
	if err != nil {
		return nil, err
	}
	if !cmd.Root().IsSet(logLevelFlag) {
		if err := log.SetupLogger(cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	data, err := loadFrame(ctx, cmd, numericColumns(cfg))
	if err != nil {
		return nil, err
	}
	target, err := data.Column(cfg.Target)
	if err != nil {
		return nil, err
	}
	X, y, err := dataio.SplitTarget(data, cfg.Target)
	if err != nil {
		return nil, err
	}

	enc, err := cfg.NewEncoder()
	if err != nil {
		return nil, err
	}
	var steps []pipeline.Step
	bins, err := cfg.NewDiscretizer()
	if err != nil {
		return nil, err
	}
	if bins != nil {
		steps = append(steps, pipeline.Step{Name: "bins", Transformer: bins})
	}
	steps = append(steps, pipeline.Step{Name: "woe", Transformer: enc})

	p, err := pipeline.New(steps...)
	if err != nil {
		return nil, err
	}
	if err := p.Fit(X, y); err != nil {
		return nil, err
	}
	return &job{X: X, target: target, encoder: enc, steps: p}, nil
}

func loadFrame(ctx context.Context, cmd *urfave.Command, numeric []string) (*frame.Frame, error) {
	path := cmd.String(dataFlag)
	ds := cmd.String(datasourceFlag)
	switch {
	case path != "" && ds != "":
		return nil, errors.NewValidationError("data", "use either --data or --datasource, not both", nil)
	case path != "":
		return dataio.ReadCSVFile(path, numeric)
	case ds != "":
		query := cmd.String(queryFlag)
		if query == "" {
			return nil, errors.NewValidationError("query", "--datasource requires --query", nil)
		}
		db, err := dataio.OpenDatasource(ctx, ds)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return dataio.ReadSQL(ctx, db, query, numeric)
	}
	return nil, errors.NewValidationError("data", "one of --data or --datasource is required", nil)
}

// numericColumns are the configured numeric columns plus the binned ones.
func numericColumns(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(cols ...string) {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	add(cfg.Numeric...)
	if cfg.Binning != nil {
		add(cfg.Binning.Columns...)
	}
	return out
}
