package importer

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"Firebox/internal/calc/batch"
	"Firebox/internal/calc/heater"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"
)

var ErrFormat = merry.New("invalid workbook").WithHTTPCode(http.StatusBadRequest)

const (
	ResultsSheet = "Results"
	InputsSheet  = "Inputs"
)

// nameHeaders label the optional scenario name column.
var nameHeaders = map[string]bool{"name": true, "scenario": true}

// ReadScenarios reads the first sheet of a workbook. The header row holds
// field keys or descriptions, every following row is one scenario. Empty
// cells keep the default value and blank rows are skipped.
func ReadScenarios(r io.Reader) ([]heater.Scenario, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, merry.Append(ErrFormat, "cannot open").WithCause(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, merry.Append(ErrFormat, "cannot read sheet").WithCause(err)
	}
	if len(rows) < 2 {
		return nil, merry.Append(ErrFormat, "empty sheet")
	}

	nameCol := -1
	keys := make([]string, len(rows[0]))
	var errs *multierror.Error
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		switch {
		case h == "":
		case nameHeaders[strings.ToLower(h)]:
			nameCol = i
		default:
			fld, ok := heater.LookupField(h)
			if !ok {
				errs = multierror.Append(errs, merry.Errorf("%s: unknown column %q", cell(i, 0), h))
				continue
			}
			keys[i] = fld.Key
		}
	}

	var out []heater.Scenario
	for ri := 1; ri < len(rows); ri++ {
		s := heater.Scenario{Values: map[string]float64{}}
		blank := true
		for c, v := range rows[ri] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			blank = false
			if c == nameCol {
				s.Name = v
				continue
			}
			if c >= len(keys) || keys[c] == "" {
				continue
			}
			x, err := toFloat(v)
			if err != nil {
				errs = multierror.Append(errs, merry.Errorf("%s: %q is not a number", cell(c, ri), v))
				continue
			}
			s.Values[keys[c]] = x
		}
		if blank {
			continue
		}
		if s.Name == "" {
			s.Name = "row " + strconv.Itoa(ri+1)
		}
		out = append(out, s)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, merry.Append(ErrFormat, "bad cells").WithCause(err)
	}
	if len(out) == 0 {
		return nil, merry.Append(ErrFormat, "no scenarios")
	}
	return out, nil
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "?"
	}
	return name
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// WriteResults writes a workbook with the result rows of every item and the
// parameters each successful item was evaluated with.
func WriteResults(w io.Writer, items []batch.Item) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(InputsSheet); err != nil {
		return err
	}

	header := []interface{}{"Scenario"}
	for _, row := range (heater.Result{}).Rows() {
		header = append(header, row.Description+" ("+row.Unit+")")
	}
	header = append(header, "Warnings", "Error")
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return err
	}

	fields := heater.Fields()
	inHeader := []interface{}{"Scenario"}
	for _, fld := range fields {
		inHeader = append(inHeader, fld.Key)
	}
	if err := f.SetSheetRow(InputsSheet, "A1", &inHeader); err != nil {
		return err
	}

	for i, it := range items {
		line := []interface{}{it.Name}
		if it.Result != nil {
			for _, row := range it.Result.Rows() {
				line = append(line, row.Value)
			}
			line = append(line, strings.Join(it.Result.Warnings, "; "), "")

			in := []interface{}{it.Name}
			for _, fld := range fields {
				in = append(in, fld.Value(it.Result.Parameters))
			}
			if err := f.SetSheetRow(InputsSheet, cell(0, i+1), &in); err != nil {
				return err
			}
		} else {
			for range header[1 : len(header)-2] {
				line = append(line, nil)
			}
			line = append(line, "", it.Error)
		}
		if err := f.SetSheetRow(ResultsSheet, cell(0, i+1), &line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(ResultsSheet, "A", "A", 24); err != nil {
		return err
	}
	return f.Write(w)
}
