package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"MarketDash/internal/calculator"
	"MarketDash/internal/collector"
	"MarketDash/internal/config"
	"MarketDash/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --file bars.csv [--symbol SPY] [--interval week]",
	Short: "Compute indicators for a CSV file of daily bars and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}
		interval, err := cmd.Flags().GetString("interval")
		if err != nil {
			return err
		}
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		if symbol == "" {
			symbol = strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		}
		return runAnalyze(cmd.OutOrStdout(), file, symbol, interval, asJSON)
	},
}

func init() {
	analyzeCmd.Flags().String("file", "", "CSV with date,open,high,low,close,volume columns")
	analyzeCmd.Flags().String("symbol", "", "ticker, defaults to the file name")
	analyzeCmd.Flags().String("interval", "day", "resample to day, week or month before computing")
	analyzeCmd.Flags().Bool("json", false, "print the snapshot as JSON")
	_ = analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(w io.Writer, file, symbol, intervalName string, asJSON bool) error {
	interval, err := calculator.ParseInterval(intervalName)
	if err != nil {
		return err
	}
	bars, err := collector.ReadCSVBars(file)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("%s: %w", file, collector.ErrNoData)
	}
	bars, err = calculator.AggregateBars(bars, interval)
	if err != nil {
		return err
	}

	snap, err := collector.BuildSnapshot(lookupInfo(symbol), bars, calculator.DefaultParams())
	if err != nil {
		return fmt.Errorf("compute %s: %w", symbol, err)
	}
	snap.Source = "csv"

	if asJSON {
		snap.Bars = nil
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	renderSnapshot(w, snap, interval)
	return nil
}

func lookupInfo(symbol string) model.StockInfo {
	symbol = strings.ToUpper(symbol)
	for _, s := range config.DefaultSymbols {
		if s.Symbol == symbol {
			return s
		}
	}
	return model.StockInfo{Symbol: symbol, Name: symbol, Sector: "N/A"}
}

func optional(p *float64, prec int) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', prec, 64)
}

func renderSnapshot(w io.Writer, snap *model.StockSnapshot, interval model.Interval) {
	ind, a := snap.Indicators, snap.Assessment
	fmt.Fprintf(w, "%s (%s) %d %s bars, %s to %s\n", snap.Symbol, snap.Name, len(snap.Bars), interval,
		snap.StartDate.Format("2006-01-02"), snap.EndDate.Format("2006-01-02"))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Indicator", "Value", "Status"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Price", strconv.FormatFloat(snap.Price, 'f', 2, 64), fmt.Sprintf("%+.2f%%", snap.ChangePercent)},
		{"SMA20", optional(ind.SMAShort, 2), ""},
		{"SMA50", optional(ind.SMALong, 2), ""},
		{"RSI", optional(ind.RSI, 1), a.RSIStatus},
		{"MACD", optional(ind.MACD, 3), a.MACDStatus},
		{"Volatility", optional(ind.Volatility, 2), a.RiskLevel},
		{"Support", optional(ind.Support, 2), ""},
		{"Resistance", optional(ind.Resistance, 2), ""},
		{"Signal", string(ind.Signal), ""},
	})
	table.Render()
}
