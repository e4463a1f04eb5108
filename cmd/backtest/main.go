package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/eod-backtest/internal/backtest"
	"github.com/rxtech-lab/eod-backtest/internal/config"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// resultsDirEnv overrides the results folder of the config.
const resultsDirEnv = "EOD_RESULTS_DIR"

func loadConfig(path string) (*config.BacktestConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if dir := os.Getenv(resultsDirEnv); dir != "" {
		cfg.ResultsFolder = dir
	}

	return cfg, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}

	l, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	runner, err := backtest.NewRunner(cfg, l)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onRunStart := backtest.OnRunStartCallback(func(runID, symbol, strategyName string, totalSteps int) error {
		l.Info("Run started", zap.String("run_id", runID), zap.String("symbol", symbol), zap.String("strategy", strategyName))

		if !cmd.Bool("quiet") {
			bar = progressbar.Default(int64(totalSteps), fmt.Sprintf("%s %s", symbol, strategyName))
		}

		return nil
	})
	onProcessData := backtest.OnProcessDataCallback(func(_ int, _ int) error {
		if bar == nil {
			return nil
		}

		return bar.Add(1)
	})
	onRunEnd := backtest.OnRunEndCallback(func(result backtest.Result) {
		if bar != nil {
			_ = bar.Finish()
		}

		fmt.Printf("\nstatistics: %s\nexecutions: %s\n", result.StatisticsPath, result.ExecutionsPath)
	})

	_, err = runner.Run(ctx, backtest.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnProcessData: &onProcessData,
		OnRunEnd:      &onRunEnd,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := (&config.BacktestConfig{}).GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on actual environment variables")
	}

	cmd := &cli.Command{
		Name:    "eod-backtest",
		Usage:   "Backtest end-of-day trading strategies",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest described by a YAML config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest config `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error), overrides the config",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide the progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest config",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
