package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/llxisdsh/metered/internal/harness"
	"github.com/llxisdsh/metered/internal/logging"
)

var logger *logrus.Logger

var app = &cli.App{
	Name:        "metered",
	Usage:       "Run workers contending for a bounded pool of permits.",
	Description: "Starts a number of workers sharing one spin-wait counting semaphore and logs the permit count as each of them acquires and releases.",
	Before: func(ctx *cli.Context) error {
		var err error
		logger, err = logging.New(os.Stderr, ctx.String("log-level"), ctx.Bool("json"))
		return err
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := config(ctx)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"permits": cfg.Permits,
			"workers": cfg.Workers,
			"backoff": cfg.Backoff,
			"hold":    cfg.Hold,
		}).Info("starting")

		runCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, err = harness.Run(runCtx, cfg, logger)
		return err
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "JSON file with permits, workers, backoff, max_backoff and hold; flags override it",
			EnvVars: []string{"METERED_CONFIG"},
		},
		&cli.Int64Flag{
			Name:    "permits",
			Aliases: []string{"p"},
			Usage:   "number of permits in the pool",
			Value:   harness.DefaultConfig().Permits,
			EnvVars: []string{"METERED_PERMITS"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "number of workers contending for the permits",
			Value:   harness.DefaultConfig().Workers,
			EnvVars: []string{"METERED_WORKERS"},
		},
		&cli.DurationFlag{
			Name:    "backoff",
			Usage:   "linear backoff unit between acquisition attempts",
			Value:   harness.DefaultConfig().Backoff,
			EnvVars: []string{"METERED_BACKOFF"},
		},
		&cli.DurationFlag{
			Name:    "max-backoff",
			Usage:   "cap on a single backoff interval, 0 for none",
			EnvVars: []string{"METERED_MAX_BACKOFF"},
		},
		&cli.DurationFlag{
			Name:    "hold",
			Usage:   "how long each worker holds its permit",
			Value:   harness.DefaultConfig().Hold,
			EnvVars: []string{"METERED_HOLD"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "one of trace, debug, info, warn, error",
			Value:   "info",
			EnvVars: []string{"METERED_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    "json",
			Usage:   "log entries as JSON objects",
			EnvVars: []string{"METERED_JSON"},
		},
	},
}

// config starts from the defaults, overlays the config file if any, then
// the flags that were set explicitly.
func config(ctx *cli.Context) (harness.Config, error) {
	cfg := harness.DefaultConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = harness.LoadFile(path, cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet("permits") {
		cfg.Permits = ctx.Int64("permits")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("backoff") {
		cfg.Backoff = ctx.Duration("backoff")
	}
	if ctx.IsSet("max-backoff") {
		cfg.MaxBackoff = ctx.Duration("max-backoff")
	}
	if ctx.IsSet("hold") {
		cfg.Hold = ctx.Duration("hold")
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		if logger != nil {
			logger.Fatal(err)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
