package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/geojournal/internal/buildinfo"
	"github.com/dmitrijs2005/geojournal/internal/client/cli"
	"github.com/dmitrijs2005/geojournal/internal/client/config"
	"github.com/dmitrijs2005/geojournal/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.Level())

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
