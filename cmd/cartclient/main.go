// Command cartclient keeps a durable anonymous cart on disk and reconciles
// it with the storefront server on login.
package main

import (
	"context"
	"os"

	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
	"github.com/dwikikusuma/storefront-ops/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service: "cartclient",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Output:  os.Stderr,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := newRootCmd(cfg, log).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
