package gandi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adelvt/gandi-dns-sync/internal/config"
	"github.com/adelvt/gandi-dns-sync/internal/dns"
	"github.com/adelvt/gandi-dns-sync/internal/metrics"
	"github.com/adelvt/gandi-dns-sync/internal/provider"
)

type Httper interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gandi talks to the LiveDNS v5 REST API for one zone's API key.
type Gandi struct {
	baseURL string
	apiKey  string
	http    Httper
	metrics *metrics.Metrics
}

func New(baseURL, apiKey string, m *metrics.Metrics) *Gandi {
	return &Gandi{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		metrics: m,
	}
}

// NewFactory resolves a per-zone client, applying the zone's API key
// override when configured.
func NewFactory(cfg config.Gandi, m *metrics.Metrics) provider.Factory {
	return func(zone string) (provider.Provider, error) {
		key, err := cfg.KeyForZone(zone)
		if err != nil {
			return nil, err
		}
		return New(cfg.URL, key, m), nil
	}
}

// rrset is the LiveDNS wire representation of a record.
type rrset struct {
	Name   string   `json:"rrset_name"`
	Type   string   `json:"rrset_type"`
	Values []string `json:"rrset_values"`
	TTL    int      `json:"rrset_ttl"`
}

// rrsetPayload is the write form: name and type are part of the URL, not
// the body.
type rrsetPayload struct {
	Values []string `json:"rrset_values"`
	TTL    int      `json:"rrset_ttl"`
}

func (g *Gandi) GetRecords(ctx context.Context, zone string) ([]dns.Record, error) {
	slog.Info("Getting DNS records", "zone", zone)
	start := time.Now()

	resp, err := g.do(ctx, "GET", g.recordsURL(zone), nil)
	if err != nil {
		g.metrics.IncDNSRequest("read", zone, false)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.metrics.IncDNSRequest("read", zone, false)
		return nil, &provider.APIError{Status: resp.StatusCode}
	}

	var sets []rrset
	if err := json.NewDecoder(resp.Body).Decode(&sets); err != nil {
		g.metrics.IncDNSRequest("read", zone, false)
		return nil, fmt.Errorf("parse records for zone %s: %w", zone, err)
	}

	records := make([]dns.Record, 0, len(sets))
	for _, s := range sets {
		records = append(records, dns.New(s.Name, dns.Type(s.Type), s.Values, s.TTL))
	}
	g.metrics.IncDNSRequest("read", zone, true)
	slog.Debug("Retrieved DNS records", "zone", zone, "count", len(records), "duration", time.Since(start))
	return records, nil
}

func (g *Gandi) CreateRecord(ctx context.Context, zone string, record dns.Record) error {
	slog.Info("Creating DNS record", "zone", zone, "name", record.Name, "type", record.Type, "values", record.Values)
	start := time.Now()

	exists, err := g.exists(ctx, zone, record.Name, record.Type)
	if err != nil {
		g.metrics.IncDNSRequest("create", zone, false)
		return err
	}
	method := "POST"
	if exists {
		method = "PUT"
	}

	payload := rrsetPayload{Values: record.Values, TTL: record.TTL}
	resp, err := g.do(ctx, method, g.recordURL(zone, record.Name, record.Type), payload)
	if err != nil {
		g.metrics.IncDNSRequest("create", zone, false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.metrics.IncDNSRequest("create", zone, false)
		return &provider.APIError{Status: resp.StatusCode}
	}
	g.metrics.IncDNSRequest("create", zone, true)
	slog.Debug("Created DNS record", "zone", zone, "name", record.Name, "type", record.Type, "duration", time.Since(start))
	return nil
}

func (g *Gandi) DeleteRecord(ctx context.Context, zone string, name string, rtype dns.Type) error {
	slog.Info("Deleting DNS record", "zone", zone, "name", name, "type", rtype)
	start := time.Now()

	resp, err := g.do(ctx, "DELETE", g.recordURL(zone, name, rtype), nil)
	if err != nil {
		g.metrics.IncDNSRequest("delete", zone, false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.metrics.IncDNSRequest("delete", zone, false)
		return &provider.APIError{Status: resp.StatusCode}
	}
	g.metrics.IncDNSRequest("delete", zone, true)
	slog.Debug("Deleted DNS record", "zone", zone, "name", name, "type", rtype, "duration", time.Since(start))
	return nil
}

// exists checks whether the (name, type) rrset is present. A 404 is a
// regular "no" answer, not an error.
func (g *Gandi) exists(ctx context.Context, zone string, name string, rtype dns.Type) (bool, error) {
	resp, err := g.do(ctx, "GET", g.recordURL(zone, name, rtype), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, &provider.APIError{Status: resp.StatusCode}
	}
}

func (g *Gandi) do(ctx context.Context, method, u string, payload any) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Apikey "+g.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
	}
	return resp, nil
}

func (g *Gandi) recordsURL(zone string) string {
	return fmt.Sprintf("%s/livedns/domains/%s/records", g.baseURL, url.PathEscape(zone))
}

func (g *Gandi) recordURL(zone string, name string, rtype dns.Type) string {
	return fmt.Sprintf("%s/livedns/domains/%s/records/%s/%s", g.baseURL, url.PathEscape(zone), url.PathEscape(name), rtype)
}
