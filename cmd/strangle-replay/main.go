package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/contactkeval/strangle-replay/internal/api"
	"github.com/contactkeval/strangle-replay/internal/backtest/engine"
	"github.com/contactkeval/strangle-replay/internal/config"
	"github.com/contactkeval/strangle-replay/internal/data"
	"github.com/contactkeval/strangle-replay/internal/logger"
	"github.com/contactkeval/strangle-replay/internal/report"
)

func main() {
	root := &cli.Command{
		Name:  "strangle-replay",
		Usage: "Backtest a recurring short strangle over daily price history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML service config (optional)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "error, info, debug or trace",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger.SetLevelName(cfg.LogLevel)
	return cfg, nil
}

func buildProvider(cfg *config.Config) (data.Provider, error) {
	switch cfg.Data.Provider {
	case "yahoo":
		return data.NewYahooDataProvider(), nil
	case "csv":
		return data.NewLocalCSVDataProvider(cfg.Data.CSVDir), nil
	case "synthetic":
		return data.NewSyntheticProvider(time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.Data.Provider)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run one backtest and print the report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ticker", Aliases: []string{"t"}, Usage: "ticker symbol", Required: true},
			&cli.IntFlag{Name: "years", Value: 10, Usage: "years of history"},
			&cli.IntFlag{Name: "days-before", Value: 5, Usage: "sessions before expiration to open"},
			&cli.FloatFlag{Name: "distance", Value: 5, Usage: "strike distance, percent of spot"},
			&cli.FloatFlag{Name: "premium", Value: 0.65, Usage: "target premium, percent of spot"},
			&cli.IntFlag{Name: "contracts", Value: 200, Usage: "contracts per leg"},
			&cli.FloatFlag{Name: "early-profit", Value: 60, Usage: "early-exit capture, percent of premium"},
			&cli.IntFlag{Name: "friday", Value: 3, Usage: "expiration Friday ordinal (1 or 3)"},
			&cli.StringFlag{Name: "out", Usage: "directory for trades.json / trades.csv (optional)"},
			&cli.BoolFlag{Name: "trades", Usage: "print the per-trade table too"},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	prov, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{
		Ticker:         cmd.String("ticker"),
		DaysBefore:     int(cmd.Int("days-before")),
		DistancePct:    cmd.Float("distance"),
		PremiumPct:     cmd.Float("premium"),
		Contracts:      int(cmd.Int("contracts")),
		EarlyProfitPct: cmd.Float("early-profit"),
		FridayOrdinal:  int(cmd.Int("friday")),
		RiskFreeRate:   cfg.Backtest.RiskFreeRate,
		HoldingDays:    engine.HoldingDayMode(cfg.Backtest.HoldingDays),
		VolWindow:      cfg.Backtest.VolWindow,
	}, prov)

	start := time.Now()
	rep, err := eng.Run(ctx, int(cmd.Int("years")))
	if err != nil {
		return err
	}

	if cmd.Bool("trades") {
		report.RenderTrades(os.Stdout, rep.Trades)
		fmt.Fprintln(os.Stdout)
	}
	report.RenderSummary(os.Stdout, rep.Summary)

	if outdir := cmd.String("out"); outdir != "" {
		if err := os.MkdirAll(outdir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := report.WriteJSON(rep, outdir); err != nil {
			return err
		}
		if err := report.WriteCSV(rep.Trades, outdir); err != nil {
			return err
		}
		logger.Infof("wrote %d trades to %s", len(rep.Trades), outdir)
	}

	logger.Infof("finished in %v", time.Since(start))
	return nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the backtest HTTP API",
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	prov, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, api.NewHandler(cfg, prov))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Infof("received %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
