package services

import "errors"

// Fundraising service errors
var (
	ErrInvalidMetric = errors.New("invalid metric")
	ErrNoPlotData    = errors.New("no plottable rows")
)
