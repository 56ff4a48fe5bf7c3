package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/riya9927/balkanid-capstone/internal/buildinfo"
	"github.com/riya9927/balkanid-capstone/internal/client/cli"
	"github.com/riya9927/balkanid-capstone/internal/client/config"
	"github.com/riya9927/balkanid-capstone/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
