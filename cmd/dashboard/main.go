// Command dashboard serves the high-yield fundraising dashboard.
//
// Configuration comes from FUNDVIEW_* environment variables, an optional
// fundview.yaml and a .env file; PORT overrides the listen port.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fundview/internal/app"
	"fundview/internal/infrastructure"
	"fundview/pkg/contracts"
)

func main() {
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(contracts.GetVersionInfo())
		return
	}

	os.Exit(run())
}

func run() int {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	if err := application.Run(); err != nil {
		application.Logger.Error("Application stopped with error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
