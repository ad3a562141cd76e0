package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"waterglobe/domain/water"
)

// ReadSeries reads the Series sheet of a workbook written by WriteXLSX.
func ReadSeries(r io.Reader) (water.Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return water.Series{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SeriesSheet)
	if err != nil {
		return water.Series{}, fmt.Errorf("failed to read %s: %w", SeriesSheet, err)
	}
	if len(rows) == 0 || strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		return water.Series{}, fmt.Errorf("%s sheet has an unexpected header", SeriesSheet)
	}

	var s water.Series
	for i, row := range rows[1:] {
		if len(row) < len(Header) {
			return water.Series{}, fmt.Errorf("row %d has %d cells, want %d", i+2, len(row), len(Header))
		}
		values := make([]int, len(Header))
		for j := range Header {
			v, err := strconv.Atoi(strings.TrimSpace(row[j]))
			if err != nil {
				return water.Series{}, fmt.Errorf("row %d column %q: %w", i+2, Header[j], err)
			}
			values[j] = v
		}
		s.Years = append(s.Years, values[0])
		s.Reserve = append(s.Reserve, values[1])
		s.Usage.Agri = append(s.Usage.Agri, values[2])
		s.Usage.Dom = append(s.Usage.Dom, values[3])
		s.Usage.Ind = append(s.Usage.Ind, values[4])
	}
	return s, nil
}
