package finance

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"marketdesk/internal/market"
)

// dateLayout is the caller-facing date format for chart ranges.
const dateLayout = "02/01/2006" // DD/MM/YYYY

// MarketData is the upstream surface the service composes: quote
// snapshots, historical charts and news search.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (market.PriceQuote, error)
	Chart(ctx context.Context, symbol string, period1, period2 int64, interval string) (market.TimeSeries, error)
	SearchNews(ctx context.Context, symbol string, count int) ([]market.NewsItem, error)
}

// RateSource resolves currency conversion rates.
type RateSource interface {
	Rate(ctx context.Context, base, target string) (market.ConversionRate, error)
}

type Config struct {
	// NewsCount caps how many news records are requested per symbol.
	NewsCount int
	// MaxConcurrency bounds the batch price fan-out.
	MaxConcurrency int
}

// Service implements the single-symbol operations and the batch price
// aggregator on top of the provider clients.
type Service struct {
	data  MarketData
	rates RateSource
	cfg   Config
	log   *slog.Logger
}

func New(data MarketData, rates RateSource, cfg Config, log *slog.Logger) *Service {
	if cfg.NewsCount <= 0 {
		cfg.NewsCount = 200
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{data: data, rates: rates, cfg: cfg, log: log}
}

// CurrentPrice returns the live quote for symbol.
func (s *Service) CurrentPrice(ctx context.Context, symbol string) (market.PriceQuote, error) {
	if strings.TrimSpace(symbol) == "" {
		return market.PriceQuote{}, market.InvalidRequest("symbol is required")
	}
	return s.data.Quote(ctx, symbol)
}

// StockData is the date-stamped chart payload: zipped per-point bars
// plus the array-length summary.
type StockData struct {
	StockData []market.Candle `json:"stockData"`
	Amount    market.Lengths  `json:"amount"`
}

// StockData fetches the daily OHLCV series for symbol between two
// DD/MM/YYYY dates (inclusive bounds at UTC midnight).
func (s *Service) StockData(ctx context.Context, symbol, period1, period2 string) (StockData, error) {
	if strings.TrimSpace(symbol) == "" {
		return StockData{}, market.InvalidRequest("symbol is required")
	}
	start, err := parseDate(period1)
	if err != nil {
		return StockData{}, err
	}
	end, err := parseDate(period2)
	if err != nil {
		return StockData{}, err
	}

	series, err := s.data.Chart(ctx, symbol, start.Unix(), end.Unix(), "1d")
	if err != nil {
		return StockData{}, err
	}
	return StockData{StockData: series.Candles(), Amount: series.Lengths()}, nil
}

// News returns up to the configured cap of news records for symbol.
func (s *Service) News(ctx context.Context, symbol string) ([]market.NewsItem, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, market.InvalidRequest("symbol is required")
	}
	return s.data.SearchNews(ctx, symbol, s.cfg.NewsCount)
}

// Convert converts value from base into target using the provider's mid
// rate.
func (s *Service) Convert(ctx context.Context, value float64, base, target string) (float64, error) {
	if strings.TrimSpace(base) == "" || strings.TrimSpace(target) == "" {
		return 0, market.InvalidRequest("base and target currencies are required")
	}
	rate, err := s.rates.Rate(ctx, base, target)
	if err != nil {
		return 0, err
	}
	return rate.Convert(value), nil
}

// outcome is one symbol's result inside a batch lookup.
type outcome struct {
	symbol string
	price  float64
	err    error
}

// Prices looks up the current price for every symbol independently and
// folds the per-symbol outcomes into a PriceMap. A failed lookup is
// logged and omitted from the map; it never fails the batch. The
// returned key set is always a subset of symbols, and the result does
// not depend on completion order.
func (s *Service) Prices(ctx context.Context, symbols []string) market.PriceMap {
	outcomes := make([]outcome, len(symbols))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			quote, err := s.CurrentPrice(ctx, sym)
			if err != nil {
				outcomes[i] = outcome{symbol: sym, err: err}
				return nil
			}
			outcomes[i] = outcome{symbol: sym, price: quote.Price}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in outcomes

	prices := make(market.PriceMap, len(symbols))
	for _, o := range outcomes {
		if o.err != nil {
			s.log.Warn("price lookup failed", "symbol", o.symbol, "err", o.err)
			continue
		}
		prices[o.symbol] = o.price
	}
	return prices
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, market.InvalidRequest("invalid date format %q, use DD/MM/YYYY", s)
	}
	return t, nil
}
