package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"time"

	"marketdesk/internal/market"
)

// chartResponse is the wire shape of the v8 chart endpoint. Individual
// bars can be null (holidays, halts), hence the pointer elements.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// Chart fetches the OHLCV series for symbol between period1 and period2
// (Unix seconds) at the given interval (e.g. "1d"). Dividend, split and
// earnings events are requested alongside the series. Transport errors,
// malformed payloads and empty result sets are all reported as
// market.UnavailableError.
func (c *Client) Chart(ctx context.Context, symbol string, period1, period2 int64, interval string) (market.TimeSeries, error) {
	query := maps.Clone(c.query)
	query.Set("period1", fmt.Sprintf("%d", period1))
	query.Set("period2", fmt.Sprintf("%d", period2))
	query.Set("interval", interval)
	query.Set("includePrePost", "true")
	query.Set("events", "div|split|earn")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return market.TimeSeries{}, market.Unavailable("yahoo", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return market.TimeSeries{}, market.Unavailable("yahoo", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return market.TimeSeries{}, market.Unavailable("yahoo", fmt.Errorf("chart %s: status %d", symbol, res.StatusCode))
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return market.TimeSeries{}, market.Unavailable("yahoo", fmt.Errorf("decode chart: %w", err))
	}
	if e := body.Chart.Error; e != nil {
		return market.TimeSeries{}, market.Unavailable("yahoo", fmt.Errorf("chart api error: %s", e.Description))
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return market.TimeSeries{}, market.Unavailable("yahoo", fmt.Errorf("chart %s: empty result", symbol))
	}

	result := body.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	n := len(result.Timestamp)
	ts := market.TimeSeries{
		Open:       make([]float64, 0, n),
		High:       make([]float64, 0, n),
		Low:        make([]float64, 0, n),
		Close:      make([]float64, 0, n),
		Volume:     make([]float64, 0, n),
		Timestamps: make([]time.Time, 0, n),
	}
	for i, sec := range result.Timestamp {
		o := deref(quote.Open, i)
		h := deref(quote.High, i)
		l := deref(quote.Low, i)
		cl := deref(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null bar
		}
		ts.Open = append(ts.Open, o)
		ts.High = append(ts.High, h)
		ts.Low = append(ts.Low, l)
		ts.Close = append(ts.Close, cl)
		ts.Volume = append(ts.Volume, deref(quote.Volume, i))
		ts.Timestamps = append(ts.Timestamps, time.Unix(sec, 0).UTC())
	}
	return ts, nil
}

func deref(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}
