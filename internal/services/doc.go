// Package services implements the business logic between the HTTP handlers
// and the dataset store.
//
// FundraisingService resolves metrics and turns the current
// *domain.FundraisingTable into the dashboard outputs: the Plotly figure,
// a PNG rendering and a CSV export. HealthService backs the health,
// readiness, liveness and version endpoints.
//
// # Error Handling
//
// Services return *errors.AppError values that the HTTP error handler maps
// to problem responses:
//
//	- UNAVAILABLE when no table can be served (503)
//	- VALIDATION for unknown metrics (400)
//
// The innermost AppError message is what the dashboard shows in place of
// the chart, e.g. "Data file not found: Fundraising Data.xlsx".
//
// # Testing
//
// Services are tested against a mocked TableSource:
//
//	source := new(MockTableSource)
//	source.On("Table", mock.Anything).Return(table, nil)
//	svc := NewFundraisingService(source, nil, logger)
package services
