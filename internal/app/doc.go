// Package app wires the dashboard together and owns its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (NewApplication) or take it from the caller (New)
//	2. Initialize OpenTelemetry and the business metrics
//	3. Create the workbook loader and the dataset store
//	4. Create the WebSocket hub and subscribe it to dataset events
//	5. Create the services and HTTP handlers, then the router and server
//
// Start loads the workbook, starts the hub and the file watcher and begins
// serving. A workbook that is missing or unreadable is logged and reported
// by the API; it never keeps the server from starting.
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
