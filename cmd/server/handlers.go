package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"marketdesk/internal/catalog"
	"marketdesk/internal/finance"
	"marketdesk/internal/market"
)

// Finance is the aggregation surface the HTTP layer depends on.
type Finance interface {
	CurrentPrice(ctx context.Context, symbol string) (market.PriceQuote, error)
	StockData(ctx context.Context, symbol, period1, period2 string) (finance.StockData, error)
	News(ctx context.Context, symbol string) ([]market.NewsItem, error)
	Convert(ctx context.Context, value float64, base, target string) (float64, error)
	Prices(ctx context.Context, symbols []string) market.PriceMap
}

type priceResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func handlePrice(w http.ResponseWriter, r *http.Request, svc Finance) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	quote, err := svc.CurrentPrice(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, priceResponse{Symbol: quote.Symbol, Price: quote.Price})
}

func handleStockData(w http.ResponseWriter, r *http.Request, svc Finance) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	data, err := svc.StockData(r.Context(), symbol, q.Get("period1"), q.Get("period2"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, data)
}

type newsResponse struct {
	Symbol string            `json:"symbol"`
	News   []market.NewsItem `json:"news"`
}

func handleNews(w http.ResponseWriter, r *http.Request, svc Finance) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol query param", http.StatusBadRequest)
		return
	}
	news, err := svc.News(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}
	if news == nil {
		news = []market.NewsItem{}
	}
	writeJSON(w, newsResponse{Symbol: symbol, News: news})
}

type convertResponse struct {
	Value          float64 `json:"value"`
	Base           string  `json:"base"`
	Target         string  `json:"target"`
	ConvertedValue float64 `json:"convertedValue"`
}

func handleConvert(w http.ResponseWriter, r *http.Request, svc Finance) {
	q := r.URL.Query()
	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		http.Error(w, "invalid value query param", http.StatusBadRequest)
		return
	}
	base, target := q.Get("base"), q.Get("target")
	converted, err := svc.Convert(r.Context(), value, base, target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, convertResponse{Value: value, Base: base, Target: target, ConvertedValue: converted})
}

// handleAssets always answers 200: price lookups that failed render as
// assets with absent amount values, never as a failed payload.
func handleAssets(w http.ResponseWriter, r *http.Request, svc Finance, cat catalog.Catalog) {
	prices := svc.Prices(r.Context(), cat.Symbols())
	writeJSON(w, cat.Assemble(prices))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: invalid input
// and not-found are client errors, upstream failure is a server error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case market.IsInvalidRequest(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case market.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	default: // upstream unavailable and anything unexpected
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
