package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/geojournal/internal/buildinfo"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/server"
	"github.com/dmitrijs2005/geojournal/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	logger := logging.NewJSONLogger(cfg.Level())

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
