package taxclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/config"
	"github.com/storegrid/backoffice/internal/domain/tax"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/logger"
)

// Client calls the external tax service over HTTP. Transient failures are
// retried; persistent failure surfaces as an error the pricing engine
// degrades on.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	logger  *logger.Logger
}

type calculateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Rate     decimal.Decimal `json:"rate"`
	Region   string          `json:"region"`
	Category string          `json:"category"`
}

type calculateResponse struct {
	Tax   decimal.Decimal `json:"tax"`
	Total decimal.Decimal `json:"total"`
	Rate  decimal.Decimal `json:"rate"`
}

func NewClient(cfg *config.Configuration, log *logger.Logger) tax.Calculator {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Tax.RetryMax
	rc.HTTPClient.Timeout = cfg.Tax.Timeout
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: cfg.Tax.BaseURL,
		logger:  log,
	}
}

func (c *Client) Calculate(ctx context.Context, amount decimal.Decimal, rate decimal.Decimal, region, category string) (*tax.Result, error) {
	if c.baseURL == "" {
		return nil, ierr.NewError("tax service not configured").
			WithHint("Tax service base URL is not configured").
			Mark(ierr.ErrHTTPClient)
	}

	payload, err := json.Marshal(calculateRequest{
		Amount:   amount,
		Rate:     rate,
		Region:   region,
		Category: category,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode tax request").
			Mark(ierr.ErrHTTPClient)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tax/calculate", bytes.NewReader(payload))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build tax request").
			Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tax service is unreachable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read tax response").
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ierr.NewError("tax service returned an error").
			WithReportableDetails(map[string]any{"status": resp.StatusCode}).
			WithHint("Tax service returned an unexpected status").
			Mark(ierr.ErrHTTPClient)
	}

	var out calculateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode tax response").
			Mark(ierr.ErrHTTPClient)
	}

	return &tax.Result{
		Tax:   out.Tax,
		Total: out.Total,
		Rate:  out.Rate,
	}, nil
}
