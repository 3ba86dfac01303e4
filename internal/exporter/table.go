package exporter

import (
	"io"
	"strconv"

	"fundview/pkg/contracts/domain"
)

// TableHeaders returns the CSV header row for a fundraising table.
func TableHeaders() []string {
	headers := make([]string, len(domain.Columns))
	copy(headers, domain.Columns)
	return headers
}

// TableRecords formats every row of table in column order. Missing values
// are written as empty fields.
func TableRecords(table *domain.FundraisingTable) [][]string {
	if table == nil {
		return nil
	}
	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, []string{
			strconv.Itoa(row.Year),
			formatValue(row.NumberOfFunds),
			formatValue(row.AmountClosed),
			formatValue(row.AverageFundSize),
		})
	}
	return records
}

// WriteTable writes table as CSV to out.
func (w *CSVWriter) WriteTable(out io.Writer, table *domain.FundraisingTable, bom bool) error {
	return w.Write(out, WriteOptions{
		Headers:   TableHeaders(),
		Records:   TableRecords(table),
		BOMPrefix: bom,
	})
}

// WriteTableFile writes table as CSV to filePath, replacing any file.
func (w *CSVWriter) WriteTableFile(filePath string, table *domain.FundraisingTable, bom bool) error {
	return w.WriteFile(filePath, WriteOptions{
		Headers:   TableHeaders(),
		Records:   TableRecords(table),
		BOMPrefix: bom,
	})
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
