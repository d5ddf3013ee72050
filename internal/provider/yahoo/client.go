package yahoo

import (
	"net/http"
	"net/url"
)

const baseURL = "https://query2.finance.yahoo.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Yahoo Finance public endpoints (quote snapshot,
// historical chart, news search) and normalizes their responses into
// the internal market types.
type Client struct {
	// baseURL is the base URL for all endpoints.
	baseURL string
	// httpClient is the HTTP client requests are sent through.
	httpClient HTTPClient
	// header contains additional headers sent with each request.
	header http.Header
	// query contains additional query parameters sent with each request.
	query url.Values
}

// ClientOption is a configuration option for the Yahoo client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for all endpoints.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
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

// NewClient creates a Yahoo Finance client.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{"lang": []string{"en-US"}, "region": []string{"US"}},
	}
	for _, option := range options {
		option(c)
	}
	return c
}
