package notifier

import (
	"fmt"
	"strings"

	"MarketDash/internal/model"
)

func fmtOptional(p *float64, format string) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *p)
}

func signalIcon(s model.Signal) string {
	switch s {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatSignalChange formats an alert for a symbol whose signal flipped.
func FormatSignalChange(prev model.Signal, snap *model.StockSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> signal %s → %s\n\n", signalIcon(snap.Indicators.Signal), snap.Symbol, prev, snap.Indicators.Signal))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f%%)\n", snap.Price, snap.ChangePercent))
	b.WriteString(fmt.Sprintf("RSI(14): %s | MACD: %s\n", fmtOptional(snap.Indicators.RSI, "%.1f"), fmtOptional(snap.Indicators.MACD, "%.3f")))
	b.WriteString(fmt.Sprintf("Window: %s → %s", snap.StartDate.Format("2006-01-02"), snap.EndDate.Format("2006-01-02")))
	return b.String()
}

// FormatQuote formats a full snapshot for the /quote command.
func FormatQuote(snap *model.StockSnapshot, stale bool) string {
	ind := snap.Indicators
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> %s | %s\n\n", snap.Symbol, snap.Name, snap.Sector))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f, %+.2f%%)\n", snap.Price, snap.Change, snap.ChangePercent))
	b.WriteString(fmt.Sprintf("30-bar range: %.2f – %.2f\n", snap.Low30, snap.High30))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n", fmtOptional(ind.SMAShort, "%.2f"), fmtOptional(ind.SMALong, "%.2f")))
	b.WriteString(fmt.Sprintf("RSI: %s (%s)\n", fmtOptional(ind.RSI, "%.1f"), snap.Assessment.RSIStatus))
	b.WriteString(fmt.Sprintf("MACD: %s (%s)\n", fmtOptional(ind.MACD, "%.3f"), snap.Assessment.MACDStatus))
	b.WriteString(fmt.Sprintf("Volatility: %s (%s risk)\n", fmtOptional(ind.Volatility, "%.2f"), snap.Assessment.RiskLevel))
	b.WriteString(fmt.Sprintf("Support / Resistance: %s / %s\n", fmtOptional(ind.Support, "%.2f"), fmtOptional(ind.Resistance, "%.2f")))
	b.WriteString(fmt.Sprintf("Signal: %s %s\n", signalIcon(ind.Signal), ind.Signal))
	b.WriteString(fmt.Sprintf("Updated: %s", snap.FetchedAt.Format("2006-01-02 15:04:05")))
	if stale {
		b.WriteString("\n⚠️ last refresh failed, showing previous data")
	}
	return b.String()
}

// FormatList formats one line per snapshot.
func FormatList(snaps []*model.StockSnapshot) string {
	if len(snaps) == 0 {
		return "No data yet."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Watch list</b>\n\n")
	for _, s := range snaps {
		b.WriteString(fmt.Sprintf("%s %-5s %10.2f %+6.2f%%\n", signalIcon(s.Indicators.Signal), s.Symbol, s.Price, s.ChangePercent))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HelpText lists the supported commands.
const HelpText = "Commands:\n• /quote SYMBOL\n• /list"
