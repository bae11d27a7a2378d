package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/adelvt/gandi-dns-sync/internal/dns"
)

// ErrUnavailable reports that the provider API could not be reached.
var ErrUnavailable = errors.New("dns provider unavailable")

// APIError carries a non-2xx HTTP status from the provider API.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider api error, status=%d", e.Status)
}

type Provider interface {
	GetRecords(ctx context.Context, zone string) ([]dns.Record, error)
	// CreateRecord creates or replaces the rrset addressed by the
	// record's (name, type).
	CreateRecord(ctx context.Context, zone string, record dns.Record) error
	DeleteRecord(ctx context.Context, zone string, name string, rtype dns.Type) error
}

// Factory resolves the provider client for a zone. It fails with the
// configuration error for zones the local configuration does not know.
type Factory func(zone string) (Provider, error)
