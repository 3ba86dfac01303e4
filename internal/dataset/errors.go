package dataset

import "errors"

// Sentinel errors. Load wraps them in *errors.AppError values whose
// messages are suitable for showing to the user.
var (
	ErrDataFileNotFound = errors.New("data file not found")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrUnparseableSheet = errors.New("unparseable sheet")
	ErrTooFewColumns    = errors.New("expected at least 4 columns in the data file")
)

// TooFewColumnsMessage is the user-facing text for ErrTooFewColumns.
const TooFewColumnsMessage = "Expected at least 4 columns in the data file."
