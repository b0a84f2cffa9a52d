// Package dataio loads frames from CSV files and SQL databases and writes
// encoded frames back out.
package dataio

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/woekit/core/frame"
	"github.com/YuminosukeSato/woekit/pkg/errors"
)

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string, numeric []string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()
	return ReadCSV(bufio.NewReader(file), numeric)
}

// ReadCSV reads a CSV with a header row. Empty cells are missing values.
// Columns listed in numeric are parsed as float64; the rest stay categorical.
func ReadCSV(r io.Reader, numeric []string) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataio.ReadCSV", "empty input", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}
	header = append([]string(nil), header...)

	columns := make([][]string, len(header))
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading CSV line %d", line)
		}
		for j, v := range rec {
			columns[j] = append(columns[j], v)
		}
	}
	return buildFrame(header, columns, nil, numeric)
}

// buildFrame assembles string columns into a frame. A nil valid mask means
// empty strings are missing.
func buildFrame(names []string, columns [][]string, valid [][]bool, numeric []string) (*frame.Frame, error) {
	isNumeric := make(map[string]bool, len(numeric))
	for _, n := range numeric {
		isNumeric[n] = true
	}
	for _, n := range numeric {
		if !contains(names, n) {
			return nil, errors.NewColumnNotFoundError("dataio.numeric", n)
		}
	}

	series := make([]*frame.Series, len(names))
	for j, name := range names {
		var (
			s   *frame.Series
			err error
		)
		if valid == nil {
			s = frame.NewCategorical(name, columns[j])
		} else if s, err = frame.NewCategoricalWithMissing(name, columns[j], valid[j]); err != nil {
			return nil, err
		}
		if isNumeric[name] {
			if s, err = s.AsNumeric(); err != nil {
				return nil, err
			}
		}
		series[j] = s
	}
	return frame.New(series...)
}

// WriteCSV writes f with a header row. Missing values are written as empty
// cells and numbers in their shortest round-trip form.
func WriteCSV(w io.Writer, f *frame.Frame) error {
	writer := csv.NewWriter(w)
	names := f.Names()
	if err := writer.Write(names); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	cols := make([]*frame.Series, len(names))
	for j, n := range names {
		s, err := f.Column(n)
		if err != nil {
			return err
		}
		cols[j] = s
	}

	rec := make([]string, len(names))
	for i := 0; i < f.Len(); i++ {
		for j, s := range cols {
			rec[j] = cell(s, i)
		}
		if err := writer.Write(rec); err != nil {
			return errors.Wrapf(err, "writing CSV row %d", i)
		}
	}
	writer.Flush()
	return errors.WithStack(writer.Error())
}

// WriteCSVFile creates path and writes f to it.
func WriteCSVFile(path string, f *frame.Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	return WriteCSV(file, f)
}

func cell(s *frame.Series, i int) string {
	if s.Kind() == frame.Numeric {
		v, ok := s.Float(i)
		if !ok {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	k, _ := s.Key(i)
	return k
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
