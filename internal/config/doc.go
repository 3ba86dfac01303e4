// Package config provides centralized configuration management for the dashboard.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. YAML file (fundview.yaml, configs/fundview.yaml, or FUNDVIEW_CONFIG)
//  3. A .env file in the working directory
//  4. FUNDVIEW_* environment variables
//  5. PORT, for hosting platforms that inject it
//
// # Environment Variables
//
//	FUNDVIEW_SERVER_PORT=8050
//	FUNDVIEW_DATA_FILE="Fundraising Data.xlsx"
//	FUNDVIEW_DATA_SHEET=Sheet1
//	FUNDVIEW_DATA_RELOAD_ON_CHANGE=true
//	FUNDVIEW_DATA_POLL_INTERVAL=5s
//	FUNDVIEW_LOGGING_LEVEL=debug
//	FUNDVIEW_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
