package state

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"github.com/adelvt/gandi-dns-sync/internal/dns"
	"github.com/adelvt/gandi-dns-sync/internal/metrics"
)

// Store persists the managed record set per zone. Load never fails: an
// absent or corrupt file is an empty set, so the tool stays safe to run
// with no history.
type Store interface {
	Load(zone string) dns.RecordSet
	Save(zone string, set dns.RecordSet) error
}

type fileStore struct {
	dir     string
	metrics *metrics.Metrics
}

func New(dir string, m *metrics.Metrics) Store {
	return &fileStore{dir: dir, metrics: m}
}

type persistedRecord struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Values []string `toml:"values"`
	TTL    int      `toml:"ttl"`
}

type persistedSet struct {
	Records []persistedRecord `toml:"records"`
}

func (s *fileStore) path(zone string) string {
	return filepath.Join(s.dir, "last_update_"+zone+".toml")
}

func (s *fileStore) Load(zone string) dns.RecordSet {
	path := s.path(zone)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		slog.Warn("Failed to lock state file", "zone", zone, "path", path, "error", err)
	} else {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read state file, treating as empty", "zone", zone, "path", path, "error", err)
			s.metrics.IncStateFileOp("read", false)
			return dns.NewSet()
		}
		slog.Debug("No state file for zone", "zone", zone, "path", path)
		s.metrics.IncStateFileOp("read", true)
		return dns.NewSet()
	}

	var ps persistedSet
	if err := toml.Unmarshal(data, &ps); err != nil {
		slog.Warn("Corrupt state file, treating as empty", "zone", zone, "path", path, "error", err)
		s.metrics.IncStateFileOp("read", false)
		return dns.NewSet()
	}

	set := dns.NewSet()
	for _, r := range ps.Records {
		rtype := dns.Type(r.Type)
		if !rtype.Valid() {
			slog.Warn("Corrupt state file, treating as empty", "zone", zone, "path", path, "type", r.Type)
			s.metrics.IncStateFileOp("read", false)
			return dns.NewSet()
		}
		set.Add(dns.New(r.Name, rtype, r.Values, r.TTL))
	}
	s.metrics.IncStateFileOp("read", true)
	return set
}

// Save writes the set through a temp file and rename so a crash mid-write
// leaves the previous valid snapshot in place.
func (s *fileStore) Save(zone string, set dns.RecordSet) error {
	path := s.path(zone)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock state file %s: %w", path, err)
	}
	defer lock.Unlock()

	ps := persistedSet{Records: make([]persistedRecord, 0, set.Len())}
	for _, r := range set.Records() {
		ps.Records = append(ps.Records, persistedRecord{
			Name:   r.Name,
			Type:   string(r.Type),
			Values: r.Values,
			TTL:    r.TTL,
		})
	}

	data, err := toml.Marshal(ps)
	if err != nil {
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("serialize state for zone %s: %w", zone, err)
	}

	tmp, err := os.CreateTemp(s.dir, "last_update_"+zone+".*.tmp")
	if err != nil {
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		s.metrics.IncStateFileOp("update", false)
		return fmt.Errorf("rename state file into place: %w", err)
	}
	s.metrics.IncStateFileOp("update", true)
	return nil
}
