package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDash/internal/model"
)

func bar(y int, m time.Month, d int, o, h, l, c float64, v int64) model.PriceBar {
	return model.PriceBar{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestAggregateBars_MonthlyCollapsesSameMonth(t *testing.T) {
	bars := []model.PriceBar{
		bar(2024, time.March, 4, 100, 105, 99, 104, 1000),
		bar(2024, time.March, 5, 104, 110, 98, 108, 1500),
	}
	out, err := AggregateBars(bars, model.IntervalMonth)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].Open)
	assert.Equal(t, 108.0, out[0].Close)
	assert.Equal(t, 110.0, out[0].High)
	assert.Equal(t, 98.0, out[0].Low)
	assert.Equal(t, int64(2500), out[0].Volume)
	assert.Equal(t, bars[0].Time, out[0].Time)
}

func TestAggregateBars_MonthlyKeepsYearsApart(t *testing.T) {
	bars := []model.PriceBar{
		bar(2023, time.January, 3, 10, 11, 9, 10, 1),
		bar(2024, time.January, 3, 20, 21, 19, 20, 1),
	}
	out, err := AggregateBars(bars, model.IntervalMonth)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestAggregateBars_Weekly(t *testing.T) {
	// Mon 2024-12-30 and Thu 2025-01-02 share ISO week 2025-W01; Mon 2025-01-06 opens the next.
	bars := []model.PriceBar{
		bar(2024, time.December, 27, 50, 51, 49, 50, 10),
		bar(2024, time.December, 30, 50, 55, 48, 52, 20),
		bar(2025, time.January, 2, 52, 60, 51, 58, 30),
		bar(2025, time.January, 6, 58, 59, 57, 57.5, 40),
	}
	out, err := AggregateBars(bars, model.IntervalWeek)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 50.0, out[0].Close)

	assert.Equal(t, 50.0, out[1].Open)
	assert.Equal(t, 60.0, out[1].High)
	assert.Equal(t, 48.0, out[1].Low)
	assert.Equal(t, 58.0, out[1].Close)
	assert.Equal(t, int64(50), out[1].Volume)

	assert.Equal(t, 58.0, out[2].Open)
	assert.Equal(t, int64(40), out[2].Volume)
}

func TestAggregateBars_DayIsCopy(t *testing.T) {
	bars := barsFromCloses(1, 2, 3)
	out, err := AggregateBars(bars, model.IntervalDay)
	require.NoError(t, err)
	require.Equal(t, bars, out)
	out[0].Close = 99
	assert.Equal(t, 1.0, bars[0].Close)
}

func TestAggregateBars_DoesNotMutateInput(t *testing.T) {
	bars := []model.PriceBar{
		bar(2024, time.March, 4, 100, 105, 99, 104, 1000),
		bar(2024, time.March, 5, 104, 110, 98, 108, 1500),
	}
	_, err := AggregateBars(bars, model.IntervalMonth)
	require.NoError(t, err)
	assert.Equal(t, 105.0, bars[0].High)
	assert.Equal(t, int64(1000), bars[0].Volume)
}

func TestAggregateBars_Rejects(t *testing.T) {
	descending := []model.PriceBar{
		bar(2024, time.March, 5, 1, 1, 1, 1, 1),
		bar(2024, time.March, 4, 1, 1, 1, 1, 1),
	}
	_, err := AggregateBars(descending, model.IntervalWeek)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = AggregateBars(barsFromCloses(1), model.Interval("hour"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAggregateBars_Empty(t *testing.T) {
	out, err := AggregateBars(nil, model.IntervalMonth)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseInterval(t *testing.T) {
	for in, want := range map[string]model.Interval{
		"":        model.IntervalDay,
		"1d":      model.IntervalDay,
		"week":    model.IntervalWeek,
		"1wk":     model.IntervalWeek,
		"Monthly": model.IntervalMonth,
		"1mo":     model.IntervalMonth,
	} {
		got, err := ParseInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseInterval("fortnight")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
