package market

import "time"

// PriceQuote is the normalized snapshot price for a single symbol.
type PriceQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// TimeSeries holds parallel OHLCV arrays over a time range.
// All arrays have equal length; Timestamps[i] is the bar time for index i.
type TimeSeries struct {
	Open       []float64   `json:"open"`
	High       []float64   `json:"high"`
	Low        []float64   `json:"low"`
	Close      []float64   `json:"close"`
	Volume     []float64   `json:"volume"`
	Timestamps []time.Time `json:"timestamps"`
}

// Len returns the number of bars in the series.
func (ts TimeSeries) Len() int { return len(ts.Close) }

// Lengths is the per-array element count summary exposed to callers so
// they can verify the parallel-array invariant without re-scanning.
type Lengths struct {
	Open   int `json:"open"`
	High   int `json:"high"`
	Low    int `json:"low"`
	Close  int `json:"close"`
	Volume int `json:"volume"`
}

// Lengths reports the element count of each OHLCV array.
func (ts TimeSeries) Lengths() Lengths {
	return Lengths{
		Open:   len(ts.Open),
		High:   len(ts.High),
		Low:    len(ts.Low),
		Close:  len(ts.Close),
		Volume: len(ts.Volume),
	}
}

// Candle is one date-stamped bar, zipped from the parallel arrays.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Candles zips the parallel arrays into per-point records.
func (ts TimeSeries) Candles() []Candle {
	out := make([]Candle, 0, ts.Len())
	for i := range ts.Close {
		c := Candle{Open: ts.Open[i], High: ts.High[i], Low: ts.Low[i], Close: ts.Close[i], Volume: ts.Volume[i]}
		if i < len(ts.Timestamps) {
			c.Date = ts.Timestamps[i]
		}
		out = append(out, c)
	}
	return out
}

// NewsItem is a news record passed through from the search provider
// with minimal reshaping.
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	Type        string    `json:"type,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ConversionRate is a resolved currency pair rate.
type ConversionRate struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Rate   float64 `json:"rate"`
}

// Convert applies the rate to a value in the base currency.
func (r ConversionRate) Convert(value float64) float64 { return value * r.Rate }

// PriceMap maps symbol to price. A missing key means the lookup for
// that symbol failed; it is never used to encode a zero price.
type PriceMap map[string]float64
