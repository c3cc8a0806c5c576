package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

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
	"github.com/rxtech-lab/argo-backtest/internal/version"
)

// server exposes backtests over HTTP: charts are read from the configured
// data source, one request runs one private backtester.
type server struct {
	source datasource.DataSource
	log    *logger.Logger
}

type backtestRequest struct {
	Symbol    string          `json:"symbol"`
	TimeFrame string          `json:"timeframe"`
	MaxTrades int             `json:"max_trades"`
	Config    backtest.Config `json:"config"`
}

type backtestResponse struct {
	Report  backtest.Report    `json:"report"`
	Metrics map[string]float64 `json:"metrics"`
	Equity  equitySeries       `json:"equity"`
}

type equitySeries struct {
	Values     []float64   `json:"values"`
	Timestamps []time.Time `json:"timestamps"`
}

func (s *server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/schema", s.handleSchema).Methods(http.MethodGet)
	router.HandleFunc("/api/backtest", s.handleBacktest).Methods(http.MethodPost)

	return router
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

func (s *server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	config := backtest.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schema))
}

func (s *server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	request := backtestRequest{
		MaxTrades: 1,
		Config:    backtest.DefaultConfig(),
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))

		return
	}

	sym, err := symbol.New(request.Symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	tf, err := timeframe.Parse(request.TimeFrame)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	chart, err := s.source.ReadChart(sym, tf, request.Config.StartTime, request.Config.EndTime)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	smaCrossover, err := strategy.NewSMACrossover(strategy.DefaultSMACrossoverSettings())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	instrument := trading.NewInstrument(sym, tf)
	system := trading.NewTradingSystem(request.MaxTrades)
	system.Add(smaCrossover, instrument)

	tester := backtest.NewBacktester(request.Config, backtest.WithLogger(s.log))

	eq, err := tester.Run(system, map[trading.Instrument]*candlestick.Chart{instrument: chart})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)

		return
	}

	s.log.Info("backtest served",
		zap.String("run_id", tester.RunID()),
		zap.String("symbol", sym.String()),
		zap.Int("steps", eq.Len()),
	)

	writeJSON(w, http.StatusOK, backtestResponse{
		Report:  backtest.NewReport(tester.RunID(), request.Config.InitialDeposit, eq),
		Metrics: computeMetrics(eq),
		Equity: equitySeries{
			Values:     eq.Values(),
			Timestamps: eq.Timestamps(),
		},
	})
}

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

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func serveAction(_ context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	source, err := openSource(cmd.String("source"), cmd.String("data"))
	if err != nil {
		return err
	}
	defer source.Close()

	srv := &server{
		source: source,
		log:    appLogger,
	}

	addr := cmd.String("addr")
	appLogger.Info("listening", zap.String("addr", addr))

	return http.ListenAndServe(addr, srv.routes())
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

func main() {
	cmd := &cli.Command{
		Name:  "serve",
		Usage: "Serve backtests over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
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
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
