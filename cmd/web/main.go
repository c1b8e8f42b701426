package main

import (
	"log/slog"
	"os"

	"ghotracker/internal/app"
	"ghotracker/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = application.Run()
	_ = infrastructure.CloseLogFile()
	if err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
