package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marketdesk/internal/market"
)

// Asset is one configured dashboard entry. Ticker is the display
// ticker; Symbol is the provider lookup symbol when the two differ
// (e.g. ticker SPX quoted as ^GSPC).
type Asset struct {
	Name     string `yaml:"name"`
	Ticker   string `yaml:"ticker"`
	Symbol   string `yaml:"symbol,omitempty"`
	Currency string `yaml:"currency"`
	Change   string `yaml:"change"`
	Image    string `yaml:"image"`
}

// lookupSymbol is the symbol used for price lookups.
func (a Asset) lookupSymbol() string {
	if a.Symbol != "" {
		return a.Symbol
	}
	return a.Ticker
}

type Category struct {
	Title  string  `yaml:"title"`
	Type   string  `yaml:"type"`
	Assets []Asset `yaml:"assets"`
}

// Catalog is the static category/asset configuration. It carries no
// live data; prices are joined in at assembly time.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the shipped catalog, used when no file is configured.
func Default() Catalog {
	return Catalog{Categories: []Category{
		{
			Title: "Местные",
			Type:  "local",
			Assets: []Asset{
				{Name: "Kaspi.kz", Ticker: "KSPI", Currency: "₸", Change: "-0.61%", Image: "https://logo.clearbit.com/kaspi.kz"},
			},
		},
		{
			Title: "Международные",
			Type:  "international",
			Assets: []Asset{
				{Name: "Apple Inc.", Ticker: "AAPL", Currency: "$", Change: "-2.66%", Image: "https://logo.clearbit.com/apple.com"},
				{Name: "Microsoft Corp.", Ticker: "MSFT", Currency: "$", Change: "-1.23%", Image: "https://logo.clearbit.com/microsoft.com"},
				{Name: "Starbucks Corp.", Ticker: "SBUX", Currency: "$", Change: "-0.74%", Image: "https://logo.clearbit.com/starbucks.com"},
				{Name: "Cisco Systems Inc.", Ticker: "CSCO", Currency: "$", Change: "-0.59%", Image: "https://logo.clearbit.com/cisco.com"},
				{Name: "QUALCOMM", Ticker: "QCOM", Currency: "$", Change: "+1.16%", Image: "https://logo.clearbit.com/qualcomm.com"},
			},
		},
		{
			Title: "ETF и Индексы",
			Type:  "etf_index",
			Assets: []Asset{
				{Name: "NASDAQ 100", Ticker: "NDX", Currency: "$", Change: "-0.90%", Image: "https://upload.wikimedia.org/wikipedia/commons/2/20/NASDAQ_Logo.svg"},
				{Name: "S&P 500", Ticker: "SPX", Symbol: "^GSPC", Currency: "$", Change: "-0.72%", Image: "https://upload.wikimedia.org/wikipedia/commons/0/0c/Standard_%26_Poor%27s_logo.svg"},
			},
		},
	}}
}

// Load reads a YAML catalog from path. An empty path returns the
// shipped default.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return Catalog{}, fmt.Errorf("catalog %s: no categories", path)
	}
	for _, cat := range c.Categories {
		for _, a := range cat.Assets {
			if a.Ticker == "" {
				return Catalog{}, fmt.Errorf("catalog %s: asset %q has no ticker", path, a.Name)
			}
		}
	}
	return c, nil
}

// Symbols returns the unique lookup symbols across all categories, in
// configuration order. This is the batch fan-out input.
func (c Catalog) Symbols() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, cat := range c.Categories {
		for _, a := range cat.Assets {
			sym := a.lookupSymbol()
			if _, ok := seen[sym]; ok {
				continue
			}
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}
	return out
}

// Amount is a monetary value with its display currency. Value is nil
// when the price lookup for the asset failed.
type Amount struct {
	Value    *float64 `json:"value,omitempty"`
	Currency string   `json:"currency"`
}

type AssetView struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
	Amount Amount `json:"amount"`
	Change string `json:"change"`
	Image  string `json:"image"`
}

type CategoryView struct {
	Title  string      `json:"title"`
	Type   string      `json:"type"`
	Assets []AssetView `json:"assets"`
}

type View struct {
	Categories []CategoryView `json:"categories"`
}

// Assemble joins the catalog with a price map. Every configured asset
// is rendered; a symbol missing from prices gets an absent amount
// value instead of failing the payload.
func (c Catalog) Assemble(prices market.PriceMap) View {
	view := View{Categories: make([]CategoryView, 0, len(c.Categories))}
	for _, cat := range c.Categories {
		cv := CategoryView{Title: cat.Title, Type: cat.Type, Assets: make([]AssetView, 0, len(cat.Assets))}
		for _, a := range cat.Assets {
			av := AssetView{
				Name:   a.Name,
				Ticker: a.Ticker,
				Amount: Amount{Currency: a.Currency},
				Change: a.Change,
				Image:  a.Image,
			}
			if p, ok := prices[a.lookupSymbol()]; ok {
				v := p
				av.Amount.Value = &v
			}
			cv.Assets = append(cv.Assets, av)
		}
		view.Categories = append(view.Categories, cv)
	}
	return view
}
