package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/adelvt/gandi-dns-sync/internal/metrics"
)

// ErrUnavailable reports that the inventory API could not be reached or
// answered with an error. The zone listing is the only data source to
// reconcile against, so this is fatal to the whole run.
var ErrUnavailable = errors.New("inventory unavailable")

type Client interface {
	Zones(ctx context.Context) ([]Zone, error)
	AckRegen(ctx context.Context) error
}

type Httper interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	baseURL string
	token   string
	http    Httper
	metrics *metrics.Metrics
}

func New(baseURL, token string, m *metrics.Metrics) Client {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		metrics: m,
	}
}

func (c *client) Zones(ctx context.Context) ([]Zone, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/dns/zones", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncInventoryRequest(false, 0)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncInventoryRequest(false, resp.StatusCode)
		return nil, fmt.Errorf("%w: list zones, status=%d", ErrUnavailable, resp.StatusCode)
	}

	var zones []Zone
	if err := json.NewDecoder(resp.Body).Decode(&zones); err != nil {
		c.metrics.IncInventoryRequest(false, resp.StatusCode)
		return nil, fmt.Errorf("%w: parse zone listing: %v", ErrUnavailable, err)
	}
	c.metrics.IncInventoryRequest(true, resp.StatusCode)

	// Inventory zone names carry a leading dot.
	for i := range zones {
		zones[i].Name = strings.TrimPrefix(zones[i].Name, ".")
	}
	return zones, nil
}

// AckRegen clears the inventory's "DNS regeneration needed" flag. Called
// after a fully clean non-dry-run pass.
func (c *client) AckRegen(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/dns/regen/ack", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncInventoryRequest(false, 0)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncInventoryRequest(false, resp.StatusCode)
		return fmt.Errorf("%w: ack regen, status=%d", ErrUnavailable, resp.StatusCode)
	}
	c.metrics.IncInventoryRequest(true, resp.StatusCode)
	return nil
}
