package gateway

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
)

// Run parses args, loads configuration and serves until SIGINT or SIGTERM.
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, err := LoadConfig(ctx, options.ConfigURL)
	if err != nil {
		return err
	}
	config.Apply(options)
	service, err := New(ctx, config)
	if err != nil {
		return err
	}
	defer service.Close()
	return service.Run(ctx, os.Stdin)
}
