package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/niftyscreen/internal/contracts"
)

func bars(closes []float64) []contracts.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		out[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Close: c, Volume: int64(1000 + i)}
	}
	return out
}

// zigzag produces a deterministic series with both up and down days
func zigzag(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i%7) - 3
	}
	return out
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, got, 5)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])
	assert.InDelta(t, 2.0, *got[2], 1e-9)
	assert.InDelta(t, 3.0, *got[3], 1e-9)
	assert.InDelta(t, 4.0, *got[4], 1e-9)
}

func TestSMA_ShortHistory(t *testing.T) {
	got := SMA([]float64{1, 2}, 3)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])
	assert.Empty(t, SMA(nil, 3))
}

func TestRSI_KnownValues(t *testing.T) {
	// 14 changes: seven +2, seven -1 => avgGain 1, avgLoss 0.5, RS 2, RSI 66.67
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}

	got := RSI(closes, 14)
	require.Len(t, got, 15)
	for i := 0; i < 14; i++ {
		assert.Nil(t, got[i], "index %d", i)
	}
	require.NotNil(t, got[14])
	assert.InDelta(t, 100-100/3.0, *got[14], 1e-9)
}

func TestRSI_NoLossesIsHundred(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	got := RSI(closes, 14)
	require.NotNil(t, got[19])
	assert.Equal(t, 100.0, *got[19])

	flat := make([]float64, 16)
	for i := range flat {
		flat[i] = 50
	}
	assert.Equal(t, 100.0, *RSI(flat, 14)[15])
}

func TestRSI_OnlyLossesIsZero(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = float64(200 - i)
	}

	got := RSI(closes, 14)
	require.NotNil(t, got[15])
	assert.InDelta(t, 0.0, *got[15], 1e-9)
}

func TestCompute_Alignment(t *testing.T) {
	history := bars(zigzag(250))
	rec := Compute(history)

	require.Equal(t, len(history), rec.Len())
	for i, p := range rec.Points {
		assert.Equal(t, history[i].Date, p.Date)
		assert.Equal(t, history[i].Close, p.Close)
		assert.Equal(t, history[i].Volume, p.Volume)

		assert.Equal(t, i >= SMAShortPeriod-1, p.SMA50 != nil, "sma50 at %d", i)
		assert.Equal(t, i >= SMALongPeriod-1, p.SMA200 != nil, "sma200 at %d", i)
		assert.Equal(t, i >= RSIPeriod, p.RSI != nil, "rsi at %d", i)

		if p.RSI != nil {
			assert.GreaterOrEqual(t, *p.RSI, 0.0)
			assert.LessOrEqual(t, *p.RSI, 100.0)
		}
	}
}

func TestCompute_ShortHistoryHasNoSMA200(t *testing.T) {
	rec := Compute(bars(zigzag(199)))

	for i, p := range rec.Points {
		assert.Nil(t, p.SMA200, "sma200 at %d", i)
		assert.Equal(t, i < 49, p.SMA50 == nil, "sma50 at %d", i)
	}
}

func TestCompute_NoLookAhead(t *testing.T) {
	full := zigzag(230)
	fullRec := Compute(bars(full))
	prefixRec := Compute(bars(full[:210]))

	for i := range prefixRec.Points {
		assert.Equal(t, prefixRec.Points[i].SMA50, fullRec.Points[i].SMA50, "sma50 at %d", i)
		assert.Equal(t, prefixRec.Points[i].SMA200, fullRec.Points[i].SMA200, "sma200 at %d", i)
		assert.Equal(t, prefixRec.Points[i].RSI, fullRec.Points[i].RSI, "rsi at %d", i)
	}
}

func TestCompute_Empty(t *testing.T) {
	rec := Compute(nil)
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, contracts.IndicatorPoint{}, rec.Latest())
}
