package strategy

import (
	"testing"

	"MarketDash/internal/model"
)

func TestEvaluate_NilResult(t *testing.T) {
	a := Evaluate(nil)
	if a.RSIStatus != StatusUnknown || a.MACDStatus != StatusUnknown || a.RiskLevel != StatusUnknown {
		t.Errorf("expected all unknown, got %+v", a)
	}
}

func TestEvaluate_ShortHistory(t *testing.T) {
	// RSI and MACD not computable; a neutral badge would hide that.
	a := Evaluate(&model.IndicatorResult{Volatility: model.Float(1.2)})
	if a.RSIStatus != StatusUnknown {
		t.Errorf("expected unknown RSI status, got %q", a.RSIStatus)
	}
	if a.MACDStatus != StatusUnknown {
		t.Errorf("expected unknown MACD status, got %q", a.MACDStatus)
	}
	if a.RiskLevel != RiskLow {
		t.Errorf("expected low risk, got %q", a.RiskLevel)
	}
}

func TestRSIStatus_AllBoundaries(t *testing.T) {
	tests := []struct {
		rsi   float64
		label string
	}{
		{85, StatusOverbought},
		{70.01, StatusOverbought},
		{70, StatusNeutral},
		{50, StatusNeutral},
		{30, StatusNeutral},
		{29.99, StatusOversold},
		{5, StatusOversold},
	}
	for _, tt := range tests {
		if got := rsiStatus(model.Float(tt.rsi)); got != tt.label {
			t.Errorf("rsi %.2f: expected %q, got %q", tt.rsi, tt.label, got)
		}
	}
}

func TestMACDStatus_AllBoundaries(t *testing.T) {
	tests := []struct {
		macd  float64
		label string
	}{
		{2, StatusBullish},
		{0.51, StatusBullish},
		{0.5, StatusNeutral},
		{0, StatusNeutral},
		{-0.5, StatusNeutral},
		{-0.51, StatusBearish},
	}
	for _, tt := range tests {
		if got := macdStatus(model.Float(tt.macd)); got != tt.label {
			t.Errorf("macd %.2f: expected %q, got %q", tt.macd, tt.label, got)
		}
	}
}

func TestRiskLevel_AllBoundaries(t *testing.T) {
	tests := []struct {
		vol   float64
		label string
	}{
		{45, RiskHigh},
		{30.5, RiskHigh},
		{30, RiskMedium},
		{20.5, RiskMedium},
		{20, RiskLow},
		{0, RiskLow},
	}
	for _, tt := range tests {
		if got := riskLevel(model.Float(tt.vol)); got != tt.label {
			t.Errorf("volatility %.1f: expected %q, got %q", tt.vol, tt.label, got)
		}
	}
}
