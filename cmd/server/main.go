package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/jobassistant/internal/buildinfo"
	"github.com/dmitrijs2005/jobassistant/internal/server"
	"github.com/dmitrijs2005/jobassistant/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
