// Package quote looks up current stock prices from the external quote API.
package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dense-analysis/stockwarp/internal/env"
)

// ErrUnknownSymbol is returned when the quote API does not recognise a symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Quote holds the current price information for one symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Client looks up quotes for ticker symbols.
type Client interface {
	Lookup(symbol string) (*Quote, error)
}

// APIClient implements Client against the HTTP quote API.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

const defaultBaseURL = "https://cloud.iexapis.com/stable"

// NewClientFromEnvironment builds a client from QUOTE_API_URL and QUOTE_API_KEY.
//
// The program crashes at startup if no API key is set.
func NewClientFromEnvironment() *APIClient {
	return NewClient(
		env.Default("QUOTE_API_URL", defaultBaseURL),
		env.Require("QUOTE_API_KEY"),
	)
}

// NewClient builds a client for a given API base URL and key.
func NewClient(baseURL string, apiKey string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

type quoteResult struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

// Lookup fetches the current quote for a symbol.
//
// ErrUnknownSymbol is returned for symbols the API does not recognise. Every
// other failure mode is reported as an error, never as a substitute price.
func (client *APIClient) Lookup(symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if len(symbol) == 0 {
		return nil, ErrUnknownSymbol
	}

	requestURL := fmt.Sprintf(
		"%s/stock/%s/quote?token=%s",
		client.baseURL,
		url.PathEscape(symbol),
		url.QueryEscape(client.apiKey),
	)

	response, err := client.httpClient.Get(requestURL)

	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownSymbol
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote api error: %d", response.StatusCode)
	}

	content, err := io.ReadAll(response.Body)

	if err != nil {
		return nil, err
	}

	var result quoteResult

	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("quote api returned unexpected response: %s", string(content))
	}

	price, err := decimal.NewFromString(result.LatestPrice.String())

	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("quote api returned no usable price for %s", symbol)
	}

	return &Quote{
		Symbol: result.Symbol,
		Name:   result.CompanyName,
		Price:  price,
	}, nil
}
