package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-backtest/internal/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/provider"
)

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbolFlag := cmd.String("symbol")
	timeframeFlag := cmd.String("timeframe")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	providerFlag := cmd.String("provider")
	writerFlag := cmd.String("writer")
	dataPath := cmd.String("data")

	writer, err := newWriter(writerFlag, dataPath)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", symbolFlag)),
		progressbar.OptionShowCount(),
	)

	onProgress := func(current, total float64, _ string) {
		if total > 0 {
			_ = bar.Set(int(current / total * 100))
		}
	}

	clientConfig := marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(providerFlag),
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
	}

	client, err := marketdata.NewClient(clientConfig, writer, onProgress)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	params := marketdata.DownloadParams{
		Symbol:    symbolFlag,
		TimeFrame: timeframeFlag,
		StartDate: startDate,
		EndDate:   endDate,
	}

	count, err := client.Download(ctx, params)
	if err != nil {
		return err
	}

	_ = bar.Finish()

	log.Printf("Downloaded %d candles for %s.", count, symbolFlag)

	return nil
}

// newWriter builds the storage backend candles are written to.
func newWriter(kind, dataPath string) (marketdata.CandleWriter, error) {
	switch kind {
	case "duckdb":
		return datasource.NewDuckDBDataSource(dataPath, logger.NewNopLogger())
	case "csv":
		return datasource.NewCSVDataSource(dataPath)
	default:
		return nil, fmt.Errorf("unsupported writer: %s", kind)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical candles into local storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"y"},
				Usage:    "Instrument symbol in BASE/QUOTE form, e.g. BTC/USDT",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timeframe",
				Aliases: []string{"t"},
				Usage:   "Candle timeframe, e.g. 1m, 1h, 1d",
				Value:   "1d",
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   "Storage backend (duckdb, csv)",
				Value:   "duckdb",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "DuckDB file path or CSV directory",
				Value:   "data/market_data.duckdb",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
