package indicators

import (
	"github.com/wonny/niftyscreen/internal/contracts"
)

// Indicator periods in trading days
const (
	SMAShortPeriod = 50
	SMALongPeriod  = 200
	RSIPeriod      = 14
)

// Compute derives SMA50, SMA200 and RSI14 for every bar of history
// Each point uses only that day and earlier ones
func Compute(history []contracts.Bar) *contracts.IndicatorRecord {
	closes := make([]float64, len(history))
	for i, bar := range history {
		closes[i] = bar.Close
	}

	sma50 := SMA(closes, SMAShortPeriod)
	sma200 := SMA(closes, SMALongPeriod)
	rsi := RSI(closes, RSIPeriod)

	points := make([]contracts.IndicatorPoint, len(history))
	for i, bar := range history {
		points[i] = contracts.IndicatorPoint{
			Date:   bar.Date,
			Close:  bar.Close,
			Volume: bar.Volume,
			SMA50:  sma50[i],
			SMA200: sma200[i],
			RSI:    rsi[i],
		}
	}

	return &contracts.IndicatorRecord{Points: points}
}

// SMA returns the n-day simple moving average aligned with closes
// The first n-1 values are nil
func SMA(closes []float64, n int) []*float64 {
	out := make([]*float64, len(closes))
	if n <= 0 {
		return out
	}

	for i := n - 1; i < len(closes); i++ {
		var sum float64
		for _, c := range closes[i-n+1 : i+1] {
			sum += c
		}
		out[i] = contracts.Float(sum / float64(n))
	}

	return out
}

// RSI returns the n-day relative strength index aligned with closes
// Gains and losses are simple means of the last n day-over-day changes, so the
// first defined value is at index n. A window without losses reads 100.
func RSI(closes []float64, n int) []*float64 {
	out := make([]*float64, len(closes))
	if n <= 0 {
		return out
	}

	for i := n; i < len(closes); i++ {
		var gains, losses float64
		for j := i - n + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}

		if losses == 0 {
			out[i] = contracts.Float(100)
			continue
		}

		avgGain := gains / float64(n)
		avgLoss := losses / float64(n)
		rs := avgGain / avgLoss
		out[i] = contracts.Float(100 - 100/(1+rs))
	}

	return out
}
