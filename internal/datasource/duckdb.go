package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// DuckDBDataSource stores candles in a DuckDB table named market_data with
// one row per (symbol, time).
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBDataSource opens (or creates) the DuckDB database at path. Use
// ":memory:" via an empty path for an in-memory database.
func NewDuckDBDataSource(path string, log *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %q: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			symbol VARCHAR NOT NULL,
			time TIMESTAMP NOT NULL,
			open DOUBLE NOT NULL,
			high DOUBLE NOT NULL,
			low DOUBLE NOT NULL,
			close DOUBLE NOT NULL,
			volume DOUBLE NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create market_data table: %w", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// InitializeFromParquet replaces the market_data table contents with the rows
// of a parquet file.
func (d *DuckDBDataSource) InitializeFromParquet(path string) error {
	d.logger.Debug("loading market data from parquet", zap.String("path", path))

	if _, err := d.db.Exec(`DELETE FROM market_data;`); err != nil {
		return fmt.Errorf("failed to clear market_data: %w", err)
	}

	// CREATE/INSERT from read_parquet is not expressible in squirrel.
	query := fmt.Sprintf(`
		INSERT INTO market_data
		SELECT symbol, time, open, high, low, close, volume FROM read_parquet('%s');
	`, path)

	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to load parquet file: %w", err)
	}

	return nil
}

// WriteCandles appends the candles of one symbol to the store.
func (d *DuckDBDataSource) WriteCandles(sym symbol.Symbol, candles []candlestick.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	insert := d.sq.Insert("market_data").
		Columns("symbol", "time", "open", "high", "low", "close", "volume")

	for _, candle := range candles {
		insert = insert.Values(
			sym.String(),
			candle.Timestamp,
			candle.Open,
			candle.High,
			candle.Low,
			candle.Close,
			candle.Volume,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := d.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert candles: %w", err)
	}

	return nil
}

// ReadChart implements DataSource.
func (d *DuckDBDataSource) ReadChart(sym symbol.Symbol, tf timeframe.TimeFrame, start, end optional.Option[time.Time]) (*candlestick.Chart, error) {
	builder := d.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("market_data").
		Where(squirrel.Eq{"symbol": sym.String()}).
		OrderBy("time ASC")

	builder = applyTimeRange(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query market_data: %w", err)
	}
	defer rows.Close()

	data := candlestick.ChartData{TimeFrame: tf}

	for rows.Next() {
		var (
			ts                                  time.Time
			open, high, low, closePrice, volume float64
		)

		if err := rows.Scan(&ts, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle row: %w", err)
		}

		data.Timestamp = append(data.Timestamp, ts)
		data.Open = append(data.Open, open)
		data.High = append(data.High, high)
		data.Low = append(data.Low, low)
		data.Close = append(data.Close, closePrice)
		data.Volume = append(data.Volume, volume)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candle rows: %w", err)
	}

	return candlestick.NewChart(data)
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(sym symbol.Symbol, start, end optional.Option[time.Time]) (int, error) {
	builder := d.sq.
		Select("COUNT(*)").
		From("market_data").
		Where(squirrel.Eq{"symbol": sym.String()})

	builder = applyTimeRange(builder, start, end)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count candles: %w", err)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func applyTimeRange(builder squirrel.SelectBuilder, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}
