// Package http implements the dashboard's HTTP handlers. Handlers stay thin:
// they parse and validate the request, call a service and render the result
// or hand the error to the shared RFC 7807 error handler.
//
// # Endpoints
//
//	GET  /                  dashboard page (DashboardHandler)
//	GET  /api/figure        Plotly figure JSON for ?metric=
//	GET  /api/data          normalized table with mapping metadata
//	GET  /api/data.csv      table as CSV, ?bom=true for spreadsheet programs
//	GET  /api/chart.png     static chart, ?metric=&width=&height=
//	GET  /api/metrics       selectable metrics
//	POST /api/client-log    problems reported by the page
//	GET  /api/health[/ready|/live], /api/version
//	GET  /metrics           Prometheus scrape endpoint (MetricsHandler)
//
// # Errors
//
// A workbook that is missing or cannot be mapped yields 503 with type
// /errors/data/unavailable. The problem's detail is the message the page
// shows in place of the chart.
package http
