package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"time"

	"marketdesk/internal/market"
)

// searchResponse is the wire shape of the v1 search endpoint, reduced
// to the news portion.
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		Type                string `json:"type"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// SearchNews fetches up to count news records for symbol. An empty
// list is a valid, non-error result.
func (c *Client) SearchNews(ctx context.Context, symbol string, count int) ([]market.NewsItem, error) {
	query := maps.Clone(c.query)
	query.Set("q", symbol)
	query.Set("newsCount", strconv.Itoa(count))
	query.Set("quotesCount", "0")

	u := fmt.Sprintf("%s/v1/finance/search?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, market.Unavailable("yahoo", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, market.Unavailable("yahoo", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, market.Unavailable("yahoo", fmt.Errorf("search %s: status %d", symbol, res.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, market.Unavailable("yahoo", fmt.Errorf("decode search: %w", err))
	}

	items := make([]market.NewsItem, 0, len(body.News))
	for _, n := range body.News {
		items = append(items, market.NewsItem{
			Title:       n.Title,
			Publisher:   n.Publisher,
			Link:        n.Link,
			Type:        n.Type,
			PublishedAt: time.Unix(n.ProviderPublishTime, 0).UTC(),
		})
	}
	return items, nil
}
