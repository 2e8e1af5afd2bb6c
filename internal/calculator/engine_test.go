package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDash/internal/model"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, []int{20, 50}, p.SMAPeriods)
	assert.Equal(t, 14, p.RSIPeriod)
	assert.Equal(t, 12, p.MACDFast)
	assert.Equal(t, 26, p.MACDSlow)
	assert.NoError(t, p.Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"no sma periods", Params{RSIPeriod: 14, MACDFast: 12, MACDSlow: 26}},
		{"zero sma period", Params{SMAPeriods: []int{0}, RSIPeriod: 14, MACDFast: 12, MACDSlow: 26}},
		{"zero rsi", Params{SMAPeriods: []int{20}, RSIPeriod: 0, MACDFast: 12, MACDSlow: 26}},
		{"fast not below slow", Params{SMAPeriods: []int{20}, RSIPeriod: 14, MACDFast: 26, MACDSlow: 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.p.Validate(), ErrInvalidArgument)
		})
	}
}

func TestCompute_ShortHistoryLeavesValuesNil(t *testing.T) {
	res, err := Compute(rising(10, 100), DefaultParams())
	require.NoError(t, err)

	assert.Nil(t, res.SMAShort)
	assert.Nil(t, res.SMALong)
	assert.Nil(t, res.RSI)
	assert.Nil(t, res.MACD)
	require.NotNil(t, res.Volatility)
	require.NotNil(t, res.Support)
	require.NotNil(t, res.Resistance)
	assert.Equal(t, 99.5, *res.Support)
	assert.Equal(t, 110.0, *res.Resistance)
	assert.Equal(t, model.SignalBuy, res.Signal)
}

func TestCompute_FullHistory(t *testing.T) {
	bars := rising(60, 100)
	res, err := Compute(bars, DefaultParams())
	require.NoError(t, err)

	require.NotNil(t, res.SMAShort)
	require.NotNil(t, res.SMALong)
	require.NotNil(t, res.RSI)
	require.NotNil(t, res.MACD)

	sma20, _ := CalculateSMA(bars, 20)
	assert.Equal(t, sma20, *res.SMAShort)
	assert.Equal(t, res.SMAShort, res.SMA[20])
	assert.Less(t, *res.RSI, 100.0)
	assert.Greater(t, *res.MACD, 0.0)
}

func TestCompute_CustomSMAPeriods(t *testing.T) {
	p := DefaultParams()
	p.SMAPeriods = []int{10, 30}
	res, err := Compute(rising(60, 100), p)
	require.NoError(t, err)

	require.NotNil(t, res.SMA[10])
	require.NotNil(t, res.SMA[30])
	assert.Nil(t, res.SMAShort, "sma20 is not configured")
	assert.Nil(t, res.SMALong, "sma50 is not configured")

	p.SMAPeriods = []int{10, 20, 50}
	res, err = Compute(rising(60, 100), p)
	require.NoError(t, err)
	assert.Equal(t, res.SMA[20], res.SMAShort)
	assert.Equal(t, res.SMA[50], res.SMALong)
}

func TestCompute_IsIdempotent(t *testing.T) {
	bars := barsFromCloses(10, 12, 11, 15, 14, 13, 18, 17, 16, 20, 22, 21, 19, 23, 25, 24, 26, 28, 27, 30,
		31, 29, 33, 32, 35, 34, 36, 38, 37, 40)
	a, err := Compute(bars, DefaultParams())
	require.NoError(t, err)
	b, err := Compute(bars, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompute_RejectsMalformedAndEmpty(t *testing.T) {
	_, err := Compute(nil, DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	bad := barsFromCloses(10, 11, 12)
	bad[1].Low = bad[1].High + 1
	_, err = Compute(bad, DefaultParams())
	assert.ErrorIs(t, err, ErrMalformedBar)

	nan := barsFromCloses(10, 11, 12)
	nan[1].Close = math.NaN()
	_, err = Compute(nan, DefaultParams())
	assert.ErrorIs(t, err, ErrMalformedBar)

	_, err = Compute(barsFromCloses(10, 11), Params{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateSeries(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		bars []model.PriceBar
		ok   bool
	}{
		{"valid", barsFromCloses(10, 11), true},
		{"zero price", []model.PriceBar{{Time: ts, Open: 0, High: 1, Low: 0, Close: 1}}, false},
		{"open above high", []model.PriceBar{{Time: ts, Open: 12, High: 11, Low: 9, Close: 10}}, false},
		{"close below low", []model.PriceBar{{Time: ts, Open: 10, High: 11, Low: 9, Close: 8}}, false},
		{"NaN close", []model.PriceBar{{Time: ts, Open: 10, High: 11, Low: 9, Close: math.NaN()}}, false},
		{"infinite high", []model.PriceBar{{Time: ts, Open: 10, High: math.Inf(1), Low: 9, Close: 10}}, false},
		{"negative infinite low", []model.PriceBar{{Time: ts, Open: 10, High: 11, Low: math.Inf(-1), Close: 10}}, false},
		{"negative volume", []model.PriceBar{{Time: ts, Open: 10, High: 11, Low: 9, Close: 10, Volume: -1}}, false},
		{"duplicate timestamp", []model.PriceBar{
			{Time: ts, Open: 10, High: 11, Low: 9, Close: 10},
			{Time: ts, Open: 10, High: 11, Low: 9, Close: 10},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeries(tt.bars)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedBar)
			}
		})
	}
}
