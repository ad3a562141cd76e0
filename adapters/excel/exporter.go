// Package excel writes synthesized series to spreadsheets and reads them back.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"waterglobe/domain/water"
	"waterglobe/internal/analysis"
)

// Sheet names used by the exporter.
const (
	SeriesSheet  = "Series"
	SummarySheet = "Summary"
)

// Header is the column layout of the series sheet and the CSV export.
var Header = []string{"Year", "Reserve (km3)", "Agriculture %", "Domestic %", "Industry %"}

// Exporter writes series workbooks
type Exporter struct{}

// NewExporter creates a spreadsheet exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// WriteXLSX writes a workbook with a Series sheet and a Summary sheet.
func (e *Exporter) WriteXLSX(w io.Writer, name string, s water.Series) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SeriesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRow(f, SeriesSheet, 1, toRow(Header)); err != nil {
		return err
	}
	for i := range s.Years {
		row := []interface{}{s.Years[i], s.Reserve[i], s.Usage.Agri[i], s.Usage.Dom[i], s.Usage.Ind[i]}
		if err := writeRow(f, SeriesSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	sum := analysis.Summarize(s)
	rows := [][]interface{}{
		{"Country", name},
		{"First year", sum.Years[0]},
		{"Last year", sum.Years[1]},
		{"Reserve mean (km3)", sum.Reserve.Mean},
		{"Reserve std dev", sum.Reserve.StdDev},
		{"Reserve min", sum.Reserve.Min},
		{"Reserve max", sum.Reserve.Max},
		{"Reserve median", sum.Reserve.Median},
		{"Reserve trend (km3/year)", sum.Reserve.Slope},
		{"Reserve change", sum.Reserve.Change},
		{"Agriculture mean %", sum.Usage.AgriMean},
		{"Domestic mean %", sum.Usage.DomMean},
		{"Industry mean %", sum.Usage.IndMean},
		{"Max deviation from 100%", sum.Usage.MaxAbsDeviation},
	}
	for i, row := range rows {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the series sheet as CSV.
func (e *Exporter) WriteCSV(w io.Writer, s water.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range s.Years {
		record := []string{
			strconv.Itoa(s.Years[i]),
			strconv.Itoa(s.Reserve[i]),
			strconv.Itoa(s.Usage.Agri[i]),
			strconv.Itoa(s.Usage.Dom[i]),
			strconv.Itoa(s.Usage.Ind[i]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
