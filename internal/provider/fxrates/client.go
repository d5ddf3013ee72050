package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"marketdesk/internal/market"
)

const baseURL = "https://api.fxrates.example.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=fxrates_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches mid-market conversion rates for currency pairs.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	query      url.Values
}

// ClientOption is a configuration option for the rates client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the rates endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a rates client. The API key, when set, is sent as a
// query parameter on every request.
func NewClient(key string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if key != "" {
		c.query.Add("api_key", key)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// rateResponse is the provider wire shape: one quote row per requested
// pair carrying bid/ask/mid.
type rateResponse struct {
	Quotes []struct {
		BaseCurrency  string   `json:"base_currency"`
		QuoteCurrency string   `json:"quote_currency"`
		Bid           *float64 `json:"bid"`
		Ask           *float64 `json:"ask"`
		Mid           *float64 `json:"mid"`
	} `json:"quotes"`
}

// Rate resolves the mid rate for converting base into target. The
// returned quote's target currency is checked against the request so a
// provider silently substituting a nearest match yields
// market.ErrRateNotFound rather than a wrong rate.
func (c *Client) Rate(ctx context.Context, base, target string) (market.ConversionRate, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	target = strings.ToUpper(strings.TrimSpace(target))

	query := maps.Clone(c.query)
	query.Set("base", base)
	query.Set("quote", target)

	u := fmt.Sprintf("%s/v1/rates?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return market.ConversionRate{}, market.Unavailable("fxrates", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return market.ConversionRate{}, market.Unavailable("fxrates", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return market.ConversionRate{}, market.InvalidRequest("invalid currency pair %s/%s", base, target)
	default:
		return market.ConversionRate{}, market.Unavailable("fxrates", fmt.Errorf("rate %s/%s: status %d", base, target, res.StatusCode))
	}

	var body rateResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return market.ConversionRate{}, market.Unavailable("fxrates", fmt.Errorf("decode rates: %w", err))
	}
	if len(body.Quotes) == 0 {
		return market.ConversionRate{}, fmt.Errorf("rate %s/%s: %w", base, target, market.ErrRateNotFound)
	}
	q := body.Quotes[0]
	if q.Mid == nil || !strings.EqualFold(q.QuoteCurrency, target) {
		return market.ConversionRate{}, fmt.Errorf("rate %s/%s: %w", base, target, market.ErrRateNotFound)
	}
	return market.ConversionRate{Base: base, Target: target, Rate: *q.Mid}, nil
}
