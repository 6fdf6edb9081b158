package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/corneanet/notification-relayer/pkg/app"
	"github.com/corneanet/notification-relayer/pkg/app/relayer"
	"github.com/corneanet/notification-relayer/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = relayer.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Relayer exited with error: %v\n", err)
		os.Exit(1)
	}
}
