// Command fundcsv loads a fundraising workbook with the dashboard's loader and
// writes the normalized table as CSV.
//
//	fundcsv -file "Fundraising Data.xlsx" -out fundraising.csv -bom
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"fundview/internal/config"
	"fundview/internal/dataset"
	apierrors "fundview/internal/errors"
	"fundview/internal/exporter"
	"fundview/internal/infrastructure"
	"fundview/internal/validation"
	"fundview/pkg/contracts"
	"fundview/pkg/contracts/domain"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "fundcsv: ignoring configuration: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("fundcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", cfg.DataFilePath(), "workbook to read")
	sheet := fs.String("sheet", cfg.Data.Sheet, "sheet name (defaults to the first sheet)")
	out := fs.String("out", "", "output csv file (defaults to stdout)")
	bom := fs.Bool("bom", false, "prefix the output with a UTF-8 byte order mark")
	verbose := fs.Bool("v", false, "log loader decisions to stderr")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetVersionInfo())
		return 0
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.NewJSONLogger(stderr, &slog.HandlerOptions{Level: level})

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(*file); err != nil {
		fmt.Fprintf(stderr, "fundcsv: %s\n", apierrors.UserMessage(err))
		return 1
	}
	if *out != "" {
		if err := validator.ValidateOutputFile(*out, ".csv"); err != nil {
			fmt.Fprintf(stderr, "fundcsv: %s\n", apierrors.UserMessage(err))
			return 1
		}
	}

	table, err := dataset.NewLoader(logger, *sheet).Load(ctx, *file)
	if err != nil {
		fmt.Fprintf(stderr, "fundcsv: %s\n", apierrors.UserMessage(err))
		return 1
	}

	fmt.Fprintf(stderr, "sheet %q: %d rows, %s mapping (%s)",
		table.SheetName, len(table.Rows), table.Strategy, describeMapping(table.SourceColumns))
	if table.DroppedRows > 0 {
		fmt.Fprintf(stderr, ", %d rows dropped", table.DroppedRows)
	}
	fmt.Fprintln(stderr)

	csvWriter := exporter.NewCSVWriter(logger)
	if *out == "" {
		err = csvWriter.WriteTable(stdout, table, *bom)
	} else {
		err = csvWriter.WriteTableFile(*out, table, *bom)
	}
	if err != nil {
		fmt.Fprintf(stderr, "fundcsv: %v\n", err)
		return 1
	}

	if *out != "" {
		fmt.Fprintf(stderr, "wrote %s\n", *out)
	}
	return 0
}

// describeMapping renders "Year<-Fiscal Year, ..." in table column order
func describeMapping(sources map[string]string) string {
	order := make(map[string]int, len(domain.Columns))
	for i, c := range domain.Columns {
		order[c] = i
	}

	cols := make([]string, 0, len(sources))
	for c := range sources {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return order[cols[i]] < order[cols[j]] })

	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + "<-" + sources[c]
	}
	return strings.Join(parts, ", ")
}
