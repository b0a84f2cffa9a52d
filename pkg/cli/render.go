package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/preprocessing"
)

// band is one row of the describe listing.
type band struct {
	Lower       float64                       `json:"lower" yaml:"lower"`
	Upper       string                        `json:"upper" yaml:"upper"`
	Description preprocessing.PredictivePower `json:"description" yaml:"description"`
}

var bandListing = []band{
	{0, "0.02", preprocessing.NotUseful},
	{0.02, "0.1", preprocessing.WeakPower},
	{0.1, "0.3", preprocessing.MediumPower},
	{0.3, "0.5", preprocessing.StrongPower},
	{0.5, "+Inf", preprocessing.TooGoodToTrue},
}

func renderReport(w io.Writer, format string, r *preprocessing.ImportanceReport) error {
	switch format {
	case formatTable:
		header := []string{"Feature", "Information Value"}
		if r.Described() {
			header = append(header, "Predictive Power Description")
		}
		header = append(header, "Undefined")

		table := tablewriter.NewWriter(w)
		table.SetHeader(header)
		for _, row := range r.Rows {
			line := []string{row.Feature, formatIV(row.InformationValue)}
			if r.Described() {
				line = append(line, string(row.Description))
			}
			line = append(line, strconv.Itoa(row.UndefinedContributions))
			table.Append(line)
		}
		table.Render()
		return nil
	default:
		return encode(w, format, r)
	}
}

func renderBands(w io.Writer, format string) error {
	if format != formatTable {
		return encode(w, format, bandListing)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Information Value", "Predictive Power Description"})
	for _, b := range bandListing {
		table.Append([]string{fmt.Sprintf("[%g, %s)", b.Lower, b.Upper), string(b.Description)})
	}
	table.Render()
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return errors.WithStack(enc.Encode(v))
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return errors.WithStack(e.Encode(v))
	}
	return errors.NewValidationError("format", "must be one of json, yaml, table", format)
}

func formatIV(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
