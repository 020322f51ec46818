package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/storegrid/backoffice/internal/config"
	"github.com/storegrid/backoffice/internal/domain/channel"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/types"
)

// Client talks to the release registry over HTTP. It carries both the publish
// contract and the signal reads conditional policies evaluate against.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	logger  *logger.Logger
}

func NewClient(cfg *config.Configuration, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Registry.RetryMax
	rc.HTTPClient.Timeout = cfg.Registry.Timeout
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: cfg.Registry.BaseURL,
		logger:  log,
	}
}

// NewRegistry exposes the client as the publish contract.
func NewRegistry(c *Client) channel.Registry {
	return c
}

// NewSignals exposes the client as the signal source.
func NewSignals(c *Client) channel.Signals {
	return c
}

type publishRequest struct {
	ChannelID string `json:"channel_id"`
	Version   string `json:"version"`
}

type healthResponse struct {
	State string `json:"state"`
}

type downloadsResponse struct {
	Count int64 `json:"count"`
}

func (c *Client) Publish(ctx context.Context, tenantID, channelID, version string) error {
	payload, err := json.Marshal(publishRequest{ChannelID: channelID, Version: version})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode publish request").
			Mark(ierr.ErrHTTPClient)
	}

	if _, err := c.do(ctx, tenantID, http.MethodPost, "/v1/channels/publish", payload); err != nil {
		return err
	}
	return nil
}

func (c *Client) TenantHealth(ctx context.Context, tenantID string) (string, error) {
	body, err := c.do(ctx, tenantID, http.MethodGet, "/v1/signals/health", nil)
	if err != nil {
		return "", err
	}

	var out healthResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to decode health signal").
			Mark(ierr.ErrHTTPClient)
	}
	return out.State, nil
}

func (c *Client) Downloads(ctx context.Context, tenantID, channelID string) (int64, error) {
	body, err := c.do(ctx, tenantID, http.MethodGet, fmt.Sprintf("/v1/signals/downloads/%s", channelID), nil)
	if err != nil {
		return 0, err
	}

	var out downloadsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to decode download signal").
			Mark(ierr.ErrHTTPClient)
	}
	return out.Count, nil
}

func (c *Client) do(ctx context.Context, tenantID, method, path string, payload []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ierr.NewError("registry not configured").
			WithHint("Registry base URL is not configured").
			Mark(ierr.ErrHTTPClient)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build registry request").
			Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(types.HeaderTenantID, tenantID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Registry is unreachable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read registry response").
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ierr.NewError("registry returned an error").
			WithReportableDetails(map[string]any{"status": resp.StatusCode, "path": path}).
			WithHint("Registry returned an unexpected status").
			Mark(ierr.ErrHTTPClient)
	}

	return body, nil
}
