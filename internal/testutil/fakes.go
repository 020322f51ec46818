package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/channel"
	"github.com/storegrid/backoffice/internal/domain/tax"
	ierr "github.com/storegrid/backoffice/internal/errors"
)

// FakeTaxCalculator implements tax.Calculator against a fixed rate, or fails
// every call when Err is set.
type FakeTaxCalculator struct {
	Err error
}

func NewFakeTaxCalculator() *FakeTaxCalculator {
	return &FakeTaxCalculator{}
}

func (c *FakeTaxCalculator) Calculate(ctx context.Context, amount, rate decimal.Decimal, region, category string) (*tax.Result, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	t := amount.Mul(rate)
	return &tax.Result{
		Tax:   t,
		Total: amount.Add(t),
		Rate:  rate,
	}, nil
}

// FakeRegistry implements channel.Registry and records every publication.
type FakeRegistry struct {
	mu        sync.Mutex
	Published map[string]string // channelID -> version
	FailFor   map[string]bool   // channelID -> force failure
}

func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{
		Published: make(map[string]string),
		FailFor:   make(map[string]bool),
	}
}

func (r *FakeRegistry) Publish(ctx context.Context, tenantID, channelID, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailFor[channelID] {
		// marked the way the HTTP registry client marks transport failures
		return ierr.NewError("registry publish failed").
			WithHintf("Publication of %s to channel %s was rejected", version, channelID).
			Mark(ierr.ErrHTTPClient)
	}
	r.Published[channelID] = version
	return nil
}

// FakeSignals implements channel.Signals with canned values per tenant and
// channel.
type FakeSignals struct {
	Health        map[string]string // tenantID -> state
	DownloadCount map[string]int64  // channelID -> count
	HealthErr     error
	DownloadsErr  error
}

func NewFakeSignals() *FakeSignals {
	return &FakeSignals{
		Health:        make(map[string]string),
		DownloadCount: make(map[string]int64),
	}
}

func (s *FakeSignals) TenantHealth(ctx context.Context, tenantID string) (string, error) {
	if s.HealthErr != nil {
		return "", s.HealthErr
	}
	return s.Health[tenantID], nil
}

func (s *FakeSignals) Downloads(ctx context.Context, tenantID, channelID string) (int64, error) {
	if s.DownloadsErr != nil {
		return 0, s.DownloadsErr
	}
	return s.DownloadCount[channelID], nil
}

var (
	_ tax.Calculator   = (*FakeTaxCalculator)(nil)
	_ channel.Registry = (*FakeRegistry)(nil)
	_ channel.Signals  = (*FakeSignals)(nil)
)
