package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"marketdesk/internal/market"
)

// quoteResponse is the wire shape of the v7 quote endpoint.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string   `json:"symbol"`
			Currency           string   `json:"currency"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteResponse"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Quote fetches the current regular-market price for symbol.
// A response without a regular-market price field (markets closed,
// delisted symbol) is reported as market.ErrPriceNotFound, not as an
// upstream failure.
func (c *Client) Quote(ctx context.Context, symbol string) (market.PriceQuote, error) {
	query := maps.Clone(c.query)
	query.Set("symbols", symbol)

	u := fmt.Sprintf("%s/v7/finance/quote?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return market.PriceQuote{}, market.Unavailable("yahoo", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return market.PriceQuote{}, market.Unavailable("yahoo", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return market.PriceQuote{}, market.Unavailable("yahoo", fmt.Errorf("quote %s: status %d", symbol, res.StatusCode))
	}

	var body quoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return market.PriceQuote{}, market.Unavailable("yahoo", fmt.Errorf("decode quote: %w", err))
	}
	if e := body.QuoteResponse.Error; e != nil {
		return market.PriceQuote{}, market.Unavailable("yahoo", fmt.Errorf("quote api error: %s", e.Description))
	}
	if len(body.QuoteResponse.Result) == 0 || body.QuoteResponse.Result[0].RegularMarketPrice == nil {
		return market.PriceQuote{}, fmt.Errorf("quote %s: %w", symbol, market.ErrPriceNotFound)
	}
	return market.PriceQuote{
		Symbol: symbol,
		Price:  *body.QuoteResponse.Result[0].RegularMarketPrice,
	}, nil
}
