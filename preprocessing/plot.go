package preprocessing

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// Plot renders the report as a bar chart of information values, highest
// first, with dashed lines at the band thresholds. The image format follows
// the file extension (.png, .svg, .pdf, ...).
func (r *ImportanceReport) Plot(path string) error {
	if len(r.Rows) == 0 {
		return errors.NewModelError("ImportanceReport.Plot", "empty report", errors.ErrEmptyData)
	}

	rows := r.Sorted()
	values := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	maxIV := 0.0
	for i, row := range rows {
		v := row.InformationValue
		if !errors.IsFinite(v) || v < 0 {
			v = 0
		}
		values[i] = v
		names[i] = row.Feature
		if v > maxIV {
			maxIV = v
		}
	}

	p := plot.New()
	p.Title.Text = "Information value by feature"
	p.Y.Label.Text = "Information value"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "building bar chart")
	}
	bars.Color = color.RGBA{R: 66, G: 133, B: 244, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	for _, b := range powerBands[1:] {
		if b.lower > maxIV*1.2 {
			break
		}
		line, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: b.lower}, {X: float64(len(rows)) - 0.5, Y: b.lower}})
		if err != nil {
			return errors.Wrap(err, "building threshold line")
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		line.LineStyle.Color = color.Gray{Y: 128}
		p.Add(line)
	}

	width := vg.Length(len(rows))*vg.Centimeter*1.5 + 4*vg.Centimeter
	if err := p.Save(width, 10*vg.Centimeter, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
