// Package exporter writes the normalized fundraising table as CSV.
//
// CSVWriter handles the mechanics: header row, optional UTF-8 BOM for
// Excel, appending, and parent directory creation for files. WriteTable and
// WriteTableFile format a *domain.FundraisingTable in the canonical column
// order, leaving missing measures empty.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	if err := w.WriteTable(os.Stdout, table, false); err != nil {
//		return err
//	}
package exporter
