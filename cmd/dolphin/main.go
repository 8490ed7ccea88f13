// Dolphin Core is the supervisory ingester for traffic-signal controller
// and display-device telemetry. It holds one MQTT connection, classifies
// inbound controller/display status reports, maintains a liveness sweep,
// and raises SMS alerts on fault transitions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
	"github.com/wacker23/dolphin-core/internal/infrastructure/logging"
	"github.com/wacker23/dolphin-core/internal/supervisor"
	_ "github.com/wacker23/dolphin-core/migrations"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

const name = "dolphin"

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("%s version: %s/%s (%s)\n", name, name, version, runtime.GOOS)
			os.Exit(0)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

// run loads configuration, wires the supervisor, and blocks until ctx is
// cancelled. Separated from main for testability and consistent exit-code
// handling.
func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("DOLPHIN_CONFIG"))
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting dolphin core", "version", version)

	sup := supervisor.New(cfg, logger, version)
	return sup.Run(ctx)
}
