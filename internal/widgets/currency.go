// Package widgets fetches the dashboard's peripheral readings: an exchange
// rate, a temperature, and concierge answers. Every widget degrades to a
// fixed default instead of propagating failures.
package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultRatesBaseURL = "https://open.er-api.com/v6"

// Currency reads one exchange rate from a rates source.
type Currency struct {
	http     *http.Client
	baseURL  string
	base     string
	target   string
	fallback float64
}

// CurrencyConfig configures the currency widget.
type CurrencyConfig struct {
	BaseURL  string
	Base     string  // base currency, e.g. "EUR"
	Target   string  // target currency, e.g. "KRW"
	Fallback float64 // rate used when the source is unreachable
}

// NewCurrency creates the currency widget.
func NewCurrency(cfg CurrencyConfig) *Currency {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultRatesBaseURL
	}
	return &Currency{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		base:     cfg.Base,
		target:   cfg.Target,
		fallback: cfg.Fallback,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the current base→target exchange rate, or the configured
// fallback on any failure. It never returns an error.
func (c *Currency) Rate(ctx context.Context) float64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/latest/%s", c.baseURL, c.base), nil)
	if err != nil {
		return c.degrade(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.degrade(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return c.degrade(fmt.Errorf("rates source returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.degrade(err)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return c.degrade(err)
	}

	rate, ok := parsed.Rates[c.target]
	if !ok || rate <= 0 {
		return c.degrade(fmt.Errorf("rates source has no %s rate", c.target))
	}
	return rate
}

func (c *Currency) degrade(err error) float64 {
	zap.L().Warn("currency widget falling back to default",
		zap.String("pair", c.base+"/"+c.target),
		zap.Float64("fallback", c.fallback),
		zap.Error(err),
	)
	return c.fallback
}
