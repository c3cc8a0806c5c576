package datasource

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

// CSVDataSource stores one CSV file per symbol in a directory. Rows are
// "time,open,high,low,close,volume" with RFC 3339 timestamps, sorted by
// time.
type CSVDataSource struct {
	dir string
}

// NewCSVDataSource creates a CSV-backed source rooted at dir.
func NewCSVDataSource(dir string) (*CSVDataSource, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}

	return &CSVDataSource{dir: dir}, nil
}

// ReadChart implements DataSource.
func (c *CSVDataSource) ReadChart(sym symbol.Symbol, tf timeframe.TimeFrame, start, end optional.Option[time.Time]) (*candlestick.Chart, error) {
	candles, err := c.readCandles(sym, start, end)
	if err != nil {
		return nil, err
	}

	data := candlestick.ChartData{TimeFrame: tf}

	for _, candle := range candles {
		data.Timestamp = append(data.Timestamp, candle.Timestamp)
		data.Open = append(data.Open, candle.Open)
		data.High = append(data.High, candle.High)
		data.Low = append(data.Low, candle.Low)
		data.Close = append(data.Close, candle.Close)
		data.Volume = append(data.Volume, candle.Volume)
	}

	return candlestick.NewChart(data)
}

// Count implements DataSource.
func (c *CSVDataSource) Count(sym symbol.Symbol, start, end optional.Option[time.Time]) (int, error) {
	candles, err := c.readCandles(sym, start, end)
	if err != nil {
		return 0, err
	}

	return len(candles), nil
}

// Close implements DataSource. CSV files are opened per call, so there is
// nothing to release.
func (c *CSVDataSource) Close() error {
	return nil
}

// WriteCandles writes the symbol's file, replacing any previous contents.
func (c *CSVDataSource) WriteCandles(sym symbol.Symbol, candles []candlestick.Candle) error {
	file, err := os.Create(c.filePath(sym))
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, candle := range candles {
		row := []string{
			candle.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(candle.Open, 'f', -1, 64),
			strconv.FormatFloat(candle.High, 'f', -1, 64),
			strconv.FormatFloat(candle.Low, 'f', -1, 64),
			strconv.FormatFloat(candle.Close, 'f', -1, 64),
			strconv.FormatFloat(candle.Volume, 'f', -1, 64),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func (c *CSVDataSource) filePath(sym symbol.Symbol) string {
	name := strings.ReplaceAll(sym.String(), "/", "_") + ".csv"

	return filepath.Join(c.dir, name)
}

func (c *CSVDataSource) readCandles(sym symbol.Symbol, start, end optional.Option[time.Time]) ([]candlestick.Candle, error) {
	file, err := os.Open(c.filePath(sym))
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file for %s: %w", sym.String(), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}

	var candles []candlestick.Candle

	for i, record := range records {
		if i == 0 {
			continue
		}

		candle, err := parseCandleRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		if start.IsSome() && candle.Timestamp.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && candle.Timestamp.After(end.Unwrap()) {
			continue
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

func parseCandleRow(record []string) (candlestick.Candle, error) {
	if len(record) != len(csvHeader) {
		return candlestick.Candle{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return candlestick.Candle{}, fmt.Errorf("invalid timestamp %q: %w", record[0], err)
	}

	values := make([]float64, 5)

	for i := range values {
		value, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return candlestick.Candle{}, fmt.Errorf("invalid number %q: %w", record[i+1], err)
		}

		values[i] = value
	}

	return candlestick.Candle{
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
		Timestamp: ts,
	}, nil
}
