package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// ReadXLSX parses a recruitment export workbook. sheetName selects a sheet by
// name; empty means the first sheet. The first row must be the header.
func ReadXLSX(path, sheetName string) ([]model.Application, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("xlsx: empty sheet")
	}

	idx := indexColumns(rowToStrings(sheet.Rows[0]))

	var apps []model.Application
	for _, row := range sheet.Rows[1:] {
		apps = append(apps, rowToApplication(idx, rowToStrings(row)))
	}
	return apps, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
