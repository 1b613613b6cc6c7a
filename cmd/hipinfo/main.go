package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/gohip/hip"
	"github.com/fxnlabs/gohip/hipblas"
	"github.com/fxnlabs/gohip/internal/config"
	"github.com/fxnlabs/gohip/internal/logger"
)

// Shared by the subcommands; populated by the app's Before hook.
var (
	cfg        *config.Config
	rootLogger *zap.Logger
)

func main() {
	var configPath string

	app := &cli.App{
		Name:  "hipinfo",
		Usage: "Inspect HIP devices and drive hipBLAS workloads",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to the hipinfo config file",
				EnvVars:     []string{"HIPINFO_CONFIG"},
				Destination: &configPath,
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity)
			if err != nil {
				return err
			}
			rootLogger = zapLogger.Named("hipinfo")
			hip.SetLogger(rootLogger)
			hipblas.SetLogger(rootLogger)

			if err := hip.Init(); err != nil {
				return err
			}
			return hip.SetDevice(hip.NewDevice(cfg.Device.Ordinal))
		},
		Commands: []*cli.Command{
			devicesCommand(),
			gemmCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if rootLogger != nil {
			rootLogger.Fatal("failed to run app", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
