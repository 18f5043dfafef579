package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nzbmule/nzbmule/internal/app"
	"github.com/nzbmule/nzbmule/internal/buildinfo"
	"github.com/nzbmule/nzbmule/internal/config"
)

func main() {
	cfg, opts, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(app.ExitConfig)
	}

	if opts.Version {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}

	os.Exit(app.New(cfg, opts).Run(context.Background()))
}
