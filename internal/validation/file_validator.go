// Package validation checks the files the command-line tools read and write
// before any work starts, so a typo in a path fails fast with a clear message.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "fundview/internal/errors"
)

// Sentinel errors
var (
	ErrNotAFile       = errors.New("path is a directory")
	ErrNotAWorkbook   = errors.New("not an Excel workbook")
	ErrExcelLockFile  = errors.New("excel lock file")
	ErrNotWritable    = errors.New("output directory not writable")
	ErrWrongExtension = errors.New("unexpected file extension")
)

var workbookExtensions = map[string]bool{".xlsx": true, ".xlsm": true}

// FileValidator validates input and output paths
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateWorkbook checks that path names an existing, readable workbook
// that is not the lock file Excel keeps next to an open workbook. Content
// is left to the loader.
func (v *FileValidator) ValidateWorkbook(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return apierrors.NewNotFoundError(fmt.Sprintf("Data file not found: %s", path), err).
			WithContext("path", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return apierrors.NewValidationAppError(fmt.Sprintf("%s is a directory, not a workbook.", path), ErrNotAFile)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Excel lock file passed as input", slog.String("file", path))
		return apierrors.NewValidationAppError(
			fmt.Sprintf("%s is an Excel lock file; pass the workbook itself.", base), ErrExcelLockFile)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !workbookExtensions[ext] {
		return apierrors.NewValidationAppError(
			fmt.Sprintf("%s is not an Excel workbook (extension %q).", base, ext), ErrNotAWorkbook)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("Workbook validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputFile makes sure the directory for path exists and accepts
// new files, and that path carries the wanted extension when one is given.
func (v *FileValidator) ValidateOutputFile(path, ext string) error {
	if ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		return apierrors.NewValidationAppError(
			fmt.Sprintf("Output file %s should end in %s.", path, ext), ErrWrongExtension)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apierrors.NewValidationAppError(fmt.Sprintf("%s is a directory.", path), ErrNotAFile)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return nil
}
