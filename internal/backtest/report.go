package backtest

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/shopspring/decimal"
)

// Report summarizes one finished run. Money figures are rounded through
// decimal arithmetic so JSON output stays free of float dust.
type Report struct {
	RunID          string    `json:"run_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Steps          int       `json:"steps"`
	InitialDeposit float64   `json:"initial_deposit"`
	FinalBalance   float64   `json:"final_balance"`
	PeakBalance    float64   `json:"peak_balance"`
	TotalReturn    float64   `json:"total_return"`
}

const reportPrecision = 8

// NewReport builds a report from the equity curve of a finished run.
func NewReport(runID string, initialDeposit float64, eq *equity.Equity) Report {
	report := Report{
		RunID:          runID,
		Steps:          eq.Len(),
		InitialDeposit: round(initialDeposit),
	}

	timestamps := eq.Timestamps()
	if len(timestamps) > 0 {
		report.StartTime = timestamps[0]
		report.EndTime = timestamps[len(timestamps)-1]
	}

	final, ok := eq.Last()
	if !ok {
		return report
	}

	peak := final
	for _, value := range eq.Values() {
		if value > peak {
			peak = value
		}
	}

	report.FinalBalance = round(final)
	report.PeakBalance = round(peak)

	if initialDeposit != 0 {
		ret := decimal.NewFromFloat(final).
			Div(decimal.NewFromFloat(initialDeposit)).
			Sub(decimal.NewFromInt(1)).
			Round(reportPrecision)
		report.TotalReturn, _ = ret.Float64()
	}

	return report
}

func round(x float64) float64 {
	rounded, _ := decimal.NewFromFloat(x).Round(reportPrecision).Float64()

	return rounded
}
