package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultFoodBaseURL = "https://world.openfoodfacts.org"

// ErrNotFound means the search returned no usable product (no result with
// both a name and an energy value). Callers fall back to the local table.
var ErrNotFound = errors.New("no product found")

// Food is the per-100g energy record the bot needs from a product search.
type Food struct {
	Name        string
	KcalPer100g float64
}

// FoodClient queries the OpenFoodFacts search endpoint.
type FoodClient struct {
	baseURL string // overridable for tests
	httpc   *http.Client
}

// NewFoodClient builds a client. An empty baseURL selects the real API.
func NewFoodClient(baseURL string) *FoodClient {
	if baseURL == "" {
		baseURL = defaultFoodBaseURL
	}
	return &FoodClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// offProduct is one search result. The energy field stays raw because the
// API serves it as either a number or a quoted string depending on source.
type offProduct struct {
	ProductName string `json:"product_name"`
	Nutriments  struct {
		EnergyKcal100g json.RawMessage `json:"energy-kcal_100g"`
	} `json:"nutriments"`
}

// Search returns the first product exposing both a name and kcal per 100g,
// or ErrNotFound.
func (c *FoodClient) Search(ctx context.Context, query string) (Food, error) {
	q := url.Values{}
	q.Set("action", "process")
	q.Set("search_terms", query)
	q.Set("json", "true")
	q.Set("page_size", "5")

	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/cgi/search.pl?"+q.Encode(), nil)
	if err != nil {
		return Food{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Food{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Food{}, fmt.Errorf("food api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Products []offProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Food{}, fmt.Errorf("unmarshal response: %w", err)
	}

	for _, p := range result.Products {
		kcal, ok := parseKcal(p.Nutriments.EnergyKcal100g)
		if p.ProductName != "" && ok && kcal > 0 {
			return Food{Name: p.ProductName, KcalPer100g: kcal}, nil
		}
	}
	return Food{}, ErrNotFound
}

// parseKcal accepts the energy value as a JSON number or a quoted string.
func parseKcal(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	s := strings.Trim(string(raw), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
