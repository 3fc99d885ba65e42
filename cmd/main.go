package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/feed"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/metrics"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/server"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/store"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/tools"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/transport"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

const usage = `usage: scoreline [-config file.yaml] [-debug] <command>

commands:
  serve                          run the tool server on stdin/stdout (default)
  fit [-force]                   load results, fit team strengths and print a summary
  predict [-total X] [-market] HOME AWAY
                                 print a prediction for one fixture
`

func main() {
	fs := flag.NewFlagSet("scoreline", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "", "YAML file overriding the default configuration")
	debug := fs.Bool("debug", false, "log at debug level")
	_ = fs.Parse(os.Args[1:])

	command, args := "serve", fs.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg, err := scoreline.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	scoreline.UpdateConfig(cfg)
	setupLogging(cfg, *debug, command == "serve")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, command, args); err != nil {
		logger.Error("scoreline "+command+" failed:", err)
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setupLogging keeps stdout free for JSON-RPC when serving.
func setupLogging(cfg *scoreline.ScorelineConfig, debug, serving bool) {
	logger.SetShowDateTime(true)
	logger.SetLogFile(cfg.LogFile)

	output := 'e'
	if serving {
		output = 'f'
	}
	if err := logger.SetLogOutput(output); err != nil {
		_ = logger.SetLogOutput('e')
		logger.Warn("Falling back to stderr logging", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("Ignoring log level", err)
	}
	if debug {
		level = logger.DEBUG
	}
	logger.SetLevel(level)
}

func run(ctx context.Context, cfg *scoreline.ScorelineConfig, command string, args []string) error {
	repo, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s repository: %w", cfg.Repository, err)
	}
	defer repo.Close()

	provider := scoreline.NewStrengthProvider(repo, feed.NewSource(cfg))
	engine := scoreline.NewEngine(cfg, provider)
	market := feed.NewClient(cfg)

	switch command {
	case "serve":
		return serve(ctx, cfg, engine, market)
	case "fit":
		return fit(ctx, provider, args)
	case "predict":
		return predict(ctx, engine, market, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func serve(ctx context.Context, cfg *scoreline.ScorelineConfig, engine *scoreline.Engine, market tools.MarketTotals) error {
	provider := engine.Provider()

	if cfg.MetricsAddr != "" {
		srv := metrics.StartServer(cfg.MetricsAddr, func(context.Context) error {
			if provider.Current() == nil {
				return errors.New("no strength table published yet")
			}
			return nil
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// warm the table so the first tool call does not pay for the download
	go func() {
		if _, err := provider.Strengths(ctx, false); err != nil {
			logger.Warn("Initial strength load failed", err)
		}
	}()

	s := server.NewServer(transport.NewStdioTransport())
	tools.NewScorelineTools(engine, market).Register(s)

	logger.Info("Starting scoreline tool server...")
	err := s.Start()
	logger.Info("Tool server shutting down")
	return err
}

func fit(ctx context.Context, provider *scoreline.StrengthProvider, args []string) error {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	force := fs.Bool("force", false, "refit even when a stored table exists")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := provider.Strengths(ctx, *force)
	if err != nil {
		return err
	}
	printStrengths(os.Stdout, table)
	return nil
}

func predict(ctx context.Context, engine *scoreline.Engine, market tools.MarketTotals, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	total := fs.String("total", "", "expected total goals to reconcile against")
	useMarket := fs.Bool("market", false, "use the over/under 2.5 prices from the published fixtures")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("predict needs HOME and AWAY, got %d arguments", fs.NArg())
	}

	req := scoreline.PredictRequest{Home: fs.Arg(0), Away: fs.Arg(1)}
	switch {
	case *total != "":
		v, err := strconv.ParseFloat(*total, 64)
		if err != nil {
			return fmt.Errorf("invalid -total: %w", err)
		}
		req.ExternalTotal = &v
	case *useMarket:
		v, ok, err := market.ImpliedTotal(ctx, req.Home, req.Away)
		if err != nil {
			return fmt.Errorf("market lookup: %w", err)
		}
		if ok {
			req.ExternalTotal = &v
		} else {
			logger.Warn("No prices listed for", req.Home, "v", req.Away)
		}
	}

	p, err := engine.Predict(ctx, req)
	if err != nil {
		return err
	}
	printPrediction(os.Stdout, p)
	return nil
}
