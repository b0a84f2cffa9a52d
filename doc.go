// Package woekit encodes categorical features with weight of evidence and
// reports their information value against a binary target.
//
// The encoder follows the fit/transform shape used by the preprocessing
// stages: fit learns a per-category weight table from labelled rows,
// transform maps each category to its weight in a new column.
//
// # Quick Start
//
//	city := frame.NewCategorical("city", []string{"A", "A", "A", "B", "B"})
//	X, err := frame.New(city)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := mat.NewVecDense(5, []float64{1, 1, 0, 0, 0})
//
//	enc, err := preprocessing.NewWoEEncoder([]string{"city"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	encoded, err := enc.FitTransform(X, y)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(encoded.Names()) // [city woe_city]
//
//	report, err := enc.InformationValues(true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range report.Sorted() {
//	    fmt.Printf("%s %.4f %s\n", row.Feature, row.InformationValue, row.Description)
//	}
//
// # Packages
//
//   - preprocessing: weight of evidence encoder, information value report,
//     discretizer, label and one-hot encoders, scalers
//   - pipeline: named fit/transform steps run in order
//   - core/frame: column-oriented frame with missing value masks
//   - core/model: fitted state and stage interfaces
//   - core/parallel: bounded per-feature fan-out
//   - pkg/config: YAML encoder configuration
//   - pkg/dataio: CSV and SQL loaders
//   - pkg/cli: the woe command
//   - pkg/errors, pkg/log: typed errors and structured logging
package woekit
