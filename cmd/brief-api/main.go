package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

func main() {
	app := mustBootstrapBriefAPI()
	defer app.Close()

	if err := app.Run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("brief-api stopped", "error", err)
		app.Close()
		os.Exit(1)
	}
}
