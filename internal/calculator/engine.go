package calculator

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"MarketDash/internal/model"
)

var validate = validator.New()

// Params configures the periods used by Compute.
type Params struct {
	SMAPeriods []int `yaml:"sma_periods" json:"smaPeriods" default:"[20,50]" validate:"min=1,dive,gt=0"`
	RSIPeriod  int   `yaml:"rsi_period" json:"rsiPeriod" default:"14" validate:"gt=0"`
	MACDFast   int   `yaml:"macd_fast" json:"macdFast" default:"12" validate:"gt=0,ltfield=MACDSlow"`
	MACDSlow   int   `yaml:"macd_slow" json:"macdSlow" default:"26" validate:"gt=0"`
}

// DefaultParams returns SMA 20/50, RSI 14 and MACD 12/26.
func DefaultParams() Params {
	p := Params{}
	_ = defaults.Set(&p)
	return p
}

// Validate reports whether the periods are usable.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("indicator params: %v: %w", err, ErrInvalidArgument)
	}
	return nil
}

// optional turns ErrInsufficientData into a nil value and passes other errors through.
func optional(v float64, err error) (*float64, error) {
	if errors.Is(err, ErrInsufficientData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.Float(v), nil
}

// Compute derives every indicator from bars. Values that need a longer window are left nil.
func Compute(bars []model.PriceBar, p Params) (*model.IndicatorResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("compute on empty series: %w", ErrInvalidArgument)
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}

	res := &model.IndicatorResult{SMA: make(map[int]*float64, len(p.SMAPeriods))}
	var err error
	for _, period := range p.SMAPeriods {
		if res.SMA[period], err = optional(CalculateSMA(bars, period)); err != nil {
			return nil, err
		}
	}
	res.SMAShort = res.SMA[DefaultSMAShort]
	res.SMALong = res.SMA[DefaultSMALong]

	if res.RSI, err = optional(CalculateRSI(bars, p.RSIPeriod)); err != nil {
		return nil, err
	}
	if res.MACD, err = optional(CalculateMACD(bars, p.MACDFast, p.MACDSlow)); err != nil {
		return nil, err
	}

	vol, err := CalculateVolatility(bars)
	if err != nil {
		return nil, err
	}
	res.Volatility = model.Float(vol)

	support, resistance, err := CalculateSupportResistance(bars)
	if err != nil {
		return nil, err
	}
	res.Support, res.Resistance = model.Float(support), model.Float(resistance)

	if res.Signal, err = DetermineSignal(bars); err != nil {
		return nil, err
	}
	return res, nil
}
