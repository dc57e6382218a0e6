package render

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Rapport"

func Excel(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "A2", "Généré le "+FormatDate(t.GeneratedAt)); err != nil {
		return err
	}

	const headerRow = 4

	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Header
	}
	if err := writeRow(f, headerRow, header); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		if err := styleRow(f, headerRow, len(t.Columns), headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		if err := writeRow(f, headerRow+1+r, typedCells(t.Columns, row)); err != nil {
			return err
		}
	}

	if totals := t.Totals(); totals != nil {
		totalRow := headerRow + 1 + len(t.Rows)
		if err := writeRow(f, totalRow, typedCells(t.Columns, totals)); err != nil {
			return err
		}
		if err := styleRow(f, totalRow, len(t.Columns), totalStyle); err != nil {
			return err
		}
	}

	for i := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, 20); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// typedCells turns numeric column values into float64 so spreadsheets can
// compute on them.
func typedCells(columns []Column, row []string) []any {
	cells := make([]any, len(row))
	for i, value := range row {
		cells[i] = value
		if i < len(columns) && columns[i].Numeric {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cells[i] = v
			}
		}
	}
	return cells
}

func writeRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}

func styleRow(f *excelize.File, row, width, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, first, last, style)
}
