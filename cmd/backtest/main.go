package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-backtest/internal/analysis"
	"github.com/rxtech-lab/argo-backtest/internal/backtest"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

// result is the JSON document printed after a run.
type result struct {
	Report  backtest.Report    `json:"report"`
	Metrics map[string]float64 `json:"metrics"`
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	sym, err := symbol.New(cmd.String("symbol"))
	if err != nil {
		return err
	}

	tf, err := timeframe.Parse(cmd.String("timeframe"))
	if err != nil {
		return err
	}

	source, err := openSource(cmd.String("source"), cmd.String("data"))
	if err != nil {
		return err
	}
	defer source.Close()

	chart, err := source.ReadChart(sym, tf, config.StartTime, config.EndTime)
	if err != nil {
		return fmt.Errorf("failed to load chart: %w", err)
	}

	if chart.Len() == 0 {
		return fmt.Errorf("no candles stored for %s@%s", sym.String(), tf.String())
	}

	smaCrossover, err := strategy.NewSMACrossover(strategy.DefaultSMACrossoverSettings())
	if err != nil {
		return err
	}

	instrument := trading.NewInstrument(sym, tf)
	system := trading.NewTradingSystem(int(cmd.Int("max-trades")))
	system.Add(smaCrossover, instrument)

	charts := map[trading.Instrument]*candlestick.Chart{instrument: chart}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	bar := progressbar.NewOptions(chart.Len(),
		progressbar.OptionSetDescription("Backtesting"),
		progressbar.OptionShowCount(),
	)

	tester := backtest.NewBacktester(config,
		backtest.WithLogger(appLogger),
		backtest.WithOnStep(func(step, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(step)
		}),
	)

	eq, err := tester.Run(system, charts)
	if err != nil {
		return err
	}

	_ = bar.Finish()

	out := result{
		Report:  backtest.NewReport(tester.RunID(), config.InitialDeposit, eq),
		Metrics: computeMetrics(eq),
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))

	return nil
}

func loadConfig(path string) (backtest.Config, error) {
	config := backtest.DefaultConfig()

	if path == "" {
		return config, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func openSource(kind, dataPath string) (datasource.DataSource, error) {
	switch kind {
	case "duckdb":
		return datasource.NewDuckDBDataSource(dataPath, logger.NewNopLogger())
	case "csv":
		return datasource.NewCSVDataSource(dataPath)
	default:
		return nil, fmt.Errorf("unsupported data source: %s", kind)
	}
}

// computeMetrics evaluates the standard metric set, skipping any metric the
// curve is too short for.
func computeMetrics(eq *equity.Equity) map[string]float64 {
	metrics := map[string]analysis.Metric{
		"year_profit":   analysis.NewYearProfit(),
		"max_draw_down": analysis.NewMaxDrawDown(),
		"calmar_ratio":  analysis.NewCalmarRatio(),
		"sharpe_ratio":  analysis.NewSharpeRatio(0),
		"sortino_ratio": analysis.NewSortinoRatio(0),
	}

	values := make(map[string]float64, len(metrics))

	for name, metric := range metrics {
		value, err := analysis.Evaluate(metric, eq)
		if err != nil {
			continue
		}

		values[name] = value
	}

	return values
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run an SMA-crossover backtest over stored candles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Backtester YAML config path",
			},
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"y"},
				Usage:    "Instrument symbol in BASE/QUOTE form",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timeframe",
				Aliases: []string{"t"},
				Usage:   "Candle timeframe, e.g. 1h, 1d",
				Value:   "1d",
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Data source backend (duckdb, csv)",
				Value:   "duckdb",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "DuckDB file path or CSV directory",
				Value:   "data/market_data.duckdb",
			},
			&cli.IntFlag{
				Name:    "max-trades",
				Aliases: []string{"m"},
				Usage:   "Cap on simultaneously open trades",
				Value:   1,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
