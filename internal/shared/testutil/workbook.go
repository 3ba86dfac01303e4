package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a grid of cell values; Sheet[0] is usually the header row.
// A nil cell leaves the cell blank.
type Sheet [][]any

// StandardHeaders are the column titles of the canonical workbook.
var StandardHeaders = []any{"Year", "Number of Funds", "Total Amount", "Average Fund Size"}

// StandardSheet returns a canonical workbook layout with a currency symbol
// column in front of each money column and one fully blank column, the way
// the source spreadsheet is laid out.
func StandardSheet() Sheet {
	return Sheet{
		{"Year", "Number of Funds", nil, "Total Amount", nil, "Average Fund Size", "Notes"},
		{2008, 12, "$", 1500, "$", 125, nil},
		{2006, 10, "$", "1,234", "$", 123.4, nil},
		{2007, 15, "$", "$2,000", "$", "133.3", nil},
	}
}

// WriteWorkbook saves sheet as the only sheet of a new workbook in a temp
// directory and returns its path.
func WriteWorkbook(t *testing.T, sheet Sheet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Fundraising Data.xlsx")
	WriteWorkbookAt(t, path, "Sheet1", sheet)
	return path
}

// WriteWorkbookAt saves sheet under sheetName at path, replacing any file.
func WriteWorkbookAt(t *testing.T, path, sheetName string, sheet Sheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	for r, row := range sheet {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}
