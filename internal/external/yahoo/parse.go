package yahoo

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wonny/niftyscreen/internal/contracts"
)

// ParseChart extracts daily bars from a v8 chart response
// Bars with a null close (halted sessions) are skipped
func ParseChart(body []byte) ([]contracts.Bar, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid chart json", contracts.ErrNetworkFailure)
	}

	doc := gjson.ParseBytes(body)
	if desc := doc.Get("chart.error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("%w: %s", contracts.ErrUnavailable, desc.String())
	}

	result := doc.Get("chart.result.0")
	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.quote.0.close").Array()
	volumes := result.Get("indicators.quote.0.volume").Array()

	bars := make([]contracts.Bar, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type != gjson.Number {
			continue
		}

		bar := contracts.Bar{
			Date:  time.Unix(ts.Int(), 0).UTC(),
			Close: closes[i].Float(),
		}
		if i < len(volumes) {
			bar.Volume = volumes[i].Int()
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty price history", contracts.ErrUnavailable)
	}

	return bars, nil
}

// ParseSummary extracts fundamentals from a v10 quoteSummary response
// Debt-to-equity arrives as a percentage and is returned as a ratio
func ParseSummary(body []byte) (*contracts.Fundamentals, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid summary json", contracts.ErrNetworkFailure)
	}

	doc := gjson.ParseBytes(body)
	if desc := doc.Get("quoteSummary.error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("%w: %s", contracts.ErrUnavailable, desc.String())
	}

	r := doc.Get("quoteSummary.result.0")
	if !r.Exists() {
		return nil, fmt.Errorf("%w: empty summary", contracts.ErrUnavailable)
	}

	f := &contracts.Fundamentals{
		CompanyName:      firstString(r, "price.longName", "price.shortName"),
		CurrentPrice:     firstNumber(r, "financialData.currentPrice.raw", "price.regularMarketPrice.raw"),
		MarketCap:        firstNumber(r, "price.marketCap.raw", "summaryDetail.marketCap.raw"),
		TrailingPE:       firstNumber(r, "summaryDetail.trailingPE.raw", "defaultKeyStatistics.trailingPE.raw"),
		PriceToBook:      firstNumber(r, "defaultKeyStatistics.priceToBook.raw"),
		ReturnOnEquity:   firstNumber(r, "financialData.returnOnEquity.raw"),
		RevenueGrowth:    firstNumber(r, "financialData.revenueGrowth.raw"),
		FiftyTwoWeekHigh: firstNumber(r, "summaryDetail.fiftyTwoWeekHigh.raw"),
		FiftyTwoWeekLow:  firstNumber(r, "summaryDetail.fiftyTwoWeekLow.raw"),
	}

	if de := firstNumber(r, "financialData.debtToEquity.raw"); de != nil {
		f.DebtToEquity = contracts.Float(*de / 100)
	}

	return f, nil
}

func firstNumber(r gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		v := r.Get(p)
		if v.Type == gjson.Number {
			if f := contracts.Float(v.Float()); f != nil {
				return f
			}
		}
	}
	return nil
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
