package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/jobassistant/internal/buildinfo"
	"github.com/dmitrijs2005/jobassistant/internal/client/cli"
	"github.com/dmitrijs2005/jobassistant/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
