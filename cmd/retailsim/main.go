package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andresuchdata/retailsim/internal/config"
	"github.com/andresuchdata/retailsim/pkg/logger"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func loadConfig(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	logger.SetLevel(level)

	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:     "retailsim",
		Usage:    "Generate seeded wholesale allocation and markdown datasets",
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			generateCommand(),
			publishCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		logger.Log.Fatal().Stack().Err(err).Msg("retailsim failed")
	}
}
