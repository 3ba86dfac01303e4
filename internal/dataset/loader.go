package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "fundview/internal/errors"
	"fundview/internal/infrastructure"
	"fundview/pkg/contracts/domain"
)

var tracer = otel.Tracer("fundview/dataset")

// Loader reads fundraising workbooks.
type Loader struct {
	logger *slog.Logger
	sheet  string
	now    func() time.Time
}

// NewLoader creates a loader. An empty sheet name selects the first sheet.
func NewLoader(logger *slog.Logger, sheet string) *Loader {
	return &Loader{
		logger: infrastructure.WithComponent(logger, "dataset_loader"),
		sheet:  sheet,
		now:    time.Now,
	}
}

// Load reads the workbook at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.FundraisingTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apierrors.NewNotFoundError(
				fmt.Sprintf("Data file not found: %s", path),
				fmt.Errorf("%w: %v", ErrDataFileNotFound, err),
			).WithContext("path", path)
		}
		return nil, apierrors.NewParsingError(
			fmt.Sprintf("Could not read the data file %s as an Excel workbook.", path),
			fmt.Errorf("%w: %v", ErrUnparseableSheet, err),
		).WithContext("path", path)
	}
	defer f.Close()

	return l.read(ctx, f, path)
}

// LoadReader reads a workbook from r. Source is recorded as the table's path.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, source string) (*domain.FundraisingTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierrors.NewParsingError(
			"Could not read the data as an Excel workbook.",
			fmt.Errorf("%w: %v", ErrUnparseableSheet, err),
		)
	}
	defer f.Close()

	return l.read(ctx, f, source)
}

func (l *Loader) read(ctx context.Context, f *excelize.File, source string) (*domain.FundraisingTable, error) {
	ctx, span := tracer.Start(ctx, "dataset.load", trace.WithAttributes(attribute.String("dataset.source", source)))
	defer span.End()

	sheet, err := l.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apierrors.NewParsingError(
			fmt.Sprintf("Could not read sheet %q.", sheet),
			fmt.Errorf("%w: %v", ErrUnparseableSheet, err),
		)
	}

	table, err := l.normalize(ctx, rows)
	if err != nil {
		return nil, err
	}

	table.SourcePath = source
	table.SheetName = sheet
	table.LoadedAt = l.now()

	span.SetAttributes(
		attribute.Int("dataset.rows", len(table.Rows)),
		attribute.String("dataset.strategy", string(table.Strategy)),
	)
	return table, nil
}

func (l *Loader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if l.sheet != "" {
		for _, s := range sheets {
			if s == l.sheet {
				return s, nil
			}
		}
		return "", apierrors.NewNotFoundError(
			fmt.Sprintf("Sheet %q not found in the data file.", l.sheet),
			ErrSheetNotFound,
		).WithContext("sheets", sheets)
	}
	if len(sheets) == 0 {
		return "", apierrors.NewParsingError("The data file has no sheets.", ErrUnparseableSheet)
	}
	return sheets[0], nil
}

// normalize applies column pruning, mapping and coercion to raw sheet rows.
func (l *Loader) normalize(ctx context.Context, rows [][]string) (*domain.FundraisingTable, error) {
	headerIdx := -1
	for i, r := range rows {
		if !blankRow(r) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, apierrors.NewParsingError("The data file has no header row.", ErrUnparseableSheet)
	}

	header := rows[headerIdx]
	headed := !looksLikeData(header)

	var cols []column
	if headed {
		cols = buildColumns(header, rows[headerIdx+1:])
	} else {
		cols = buildColumns(nil, rows[headerIdx:])
	}

	cols, dropped := pruneColumns(cols)
	if len(dropped) > 0 {
		l.logger.DebugContext(ctx, "dropped columns", slog.Any("columns", dropped))
	}

	m, err := mapColumns(cols, headed)
	if err != nil {
		return nil, apierrors.NewParsingError(TooFewColumnsMessage, err).WithContext("columns", len(cols))
	}

	table := &domain.FundraisingTable{
		Strategy:      m.strategy,
		SourceColumns: m.sourceColumns(),
	}

	yearCol := m.columns[domain.ColumnYear]
	seen := make(map[int]bool)
	var duplicates []int

	for i := range yearCol.cells {
		if blankCells(m, i) {
			continue
		}
		year, ok := ToYear(yearCol.cells[i])
		if !ok {
			table.DroppedRows++
			continue
		}
		if seen[year] {
			duplicates = append(duplicates, year)
			table.DroppedRows++
			continue
		}
		seen[year] = true

		table.Rows = append(table.Rows, domain.FundraisingRow{
			Year:            year,
			NumberOfFunds:   ToNumber(m.columns[domain.ColumnNumberOfFunds].cells[i]),
			AmountClosed:    ToNumber(m.columns[domain.ColumnAmountClosed].cells[i]),
			AverageFundSize: ToNumber(m.columns[domain.ColumnAverageFundSize].cells[i]),
		})
	}

	sort.SliceStable(table.Rows, func(i, j int) bool { return table.Rows[i].Year < table.Rows[j].Year })

	if len(duplicates) > 0 {
		l.logger.WarnContext(ctx, "duplicate years dropped, first occurrence kept", slog.Any("years", duplicates))
	}

	l.logger.InfoContext(ctx, "fundraising table loaded",
		slog.Int("rows", len(table.Rows)),
		slog.Int("dropped_rows", table.DroppedRows),
		slog.String("strategy", string(table.Strategy)),
	)

	return table, nil
}

// looksLikeData reports whether a header row is really the first data row,
// which is the case when its first non-blank cell is a number.
func looksLikeData(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		return ToNumber(cell) != nil
	}
	return false
}

func blankRow(r []string) bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// blankCells reports whether row i is empty in every mapped column.
func blankCells(m mapping, i int) bool {
	for _, c := range m.columns {
		if strings.TrimSpace(c.cells[i]) != "" {
			return false
		}
	}
	return true
}

