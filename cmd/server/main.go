package main

import (
	"compress/gzip"
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"marketdesk/internal/catalog"
	"marketdesk/internal/config"
	"marketdesk/internal/finance"
	"marketdesk/internal/httpx"
	"marketdesk/internal/logging"
	"marketdesk/internal/provider/fxrates"
	"marketdesk/internal/provider/yahoo"
)

func main() {
	cfgPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(slog.LevelInfo, nil)
	if cfg.Rates.BaseURL == "" {
		logger.Warn("rates.base_url not set; currency conversion will fail upstream")
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithHTTPClient(httpClient),
	)
	ratesOpts := []fxrates.ClientOption{
		fxrates.WithHTTPClient(httpClient),
	}
	if cfg.Rates.BaseURL != "" {
		ratesOpts = append(ratesOpts, fxrates.WithBaseURL(cfg.Rates.BaseURL))
	}
	ratesClient := fxrates.NewClient(cfg.Rates.APIKey, ratesOpts...)

	svc := finance.New(yahooClient, ratesClient, finance.Config{
		NewsCount:      cfg.Yahoo.NewsCount,
		MaxConcurrency: cfg.Batch.MaxConcurrency,
	}, logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/price", func(w http.ResponseWriter, r *http.Request) {
		handlePrice(w, withTimeout(r, timeout), svc)
	})
	mux.HandleFunc("GET /api/stock-data", func(w http.ResponseWriter, r *http.Request) {
		handleStockData(w, withTimeout(r, timeout), svc)
	})
	mux.HandleFunc("GET /api/news", func(w http.ResponseWriter, r *http.Request) {
		handleNews(w, withTimeout(r, timeout), svc)
	})
	mux.HandleFunc("GET /api/convert", func(w http.ResponseWriter, r *http.Request) {
		handleConvert(w, withTimeout(r, timeout), svc)
	})
	mux.HandleFunc("GET /api/assets", func(w http.ResponseWriter, r *http.Request) {
		// the batch fans out; give it room beyond a single call
		handleAssets(w, withTimeout(r, 2*timeout), svc, cat)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(withGzip(recoverPanic(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// withTimeout bounds a request's upstream work. Cancellation functions
// are tied to the request context, so cleanup happens when the handler
// returns.
func withTimeout(r *http.Request, d time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), d)
	context.AfterFunc(r.Context(), cancel)
	return r.WithContext(ctx)
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses the response when the client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
