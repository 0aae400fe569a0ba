// Package source loads relationship records from files or URLs.
//
// Loading never fails hard: any fetch or parse problem yields an Unavailable
// Result carrying the reason, and callers branch on Result.Loaded.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/msalah0e/relgraph/internal/network"
)

// ErrNoRecords marks a document that parsed but held no people.
var ErrNoRecords = errors.New("no person records")

// Status is the outcome of a load.
type Status int

const (
	StatusUnavailable Status = iota
	StatusLoaded
)

// Result is Loaded(records) or Unavailable(reason).
type Result struct {
	Status   Status
	Records  []network.PersonRecord
	Location string
	Err      error
}

// Loaded reports whether records are available.
func (r Result) Loaded() bool {
	return r.Status == StatusLoaded
}

// LoadedResult wraps records that are already in memory.
func LoadedResult(records []network.PersonRecord) Result {
	if len(records) == 0 {
		return Unavailable("", ErrNoRecords)
	}
	return Result{Status: StatusLoaded, Records: records}
}

// Unavailable builds an Unavailable result.
func Unavailable(location string, err error) Result {
	return Result{Status: StatusUnavailable, Location: location, Err: err}
}

// Format is an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a format from a path or URL extension. Unknown
// extensions are treated as JSON.
func DetectFormat(location string) Format {
	if i := strings.IndexAny(location, "?#"); i >= 0 && IsRemote(location) {
		location = location[:i]
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Cache keeps the last good copy of a remote source.
type Cache interface {
	Get(location string) ([]byte, bool)
	Put(location string, data []byte) error
}

// Loader fetches and decodes record sets.
type Loader struct {
	Client           *http.Client
	FallbackRelation string
	Logger           *slog.Logger
	// Cache, when set, stores remote sources that decode cleanly and is
	// read back when a later fetch fails.
	Cache            Cache
}

// Load fetches location with a zero Loader.
func Load(ctx context.Context, location string) Result {
	return Loader{}.Load(ctx, location)
}

// Load fetches location (a file path or http(s) URL) and decodes it.
func (l Loader) Load(ctx context.Context, location string) Result {
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}
	if location == "" {
		return Unavailable(location, errors.New("no data source configured"))
	}

	cacheable := l.Cache != nil && IsRemote(location)
	fresh := true
	data, err := l.fetch(ctx, location)
	if err != nil {
		cached, ok := []byte(nil), false
		if cacheable {
			cached, ok = l.Cache.Get(location)
		}
		if !ok {
			log.Warn("source: fetch failed", "location", location, "error", err)
			return Unavailable(location, err)
		}
		log.Warn("source: fetch failed, using cached copy", "location", location, "error", err)
		data, fresh = cached, false
	}

	records, err := Decode(data, DetectFormat(location), l.FallbackRelation)
	if err != nil {
		log.Warn("source: unexpected format", "location", location, "error", err)
		return Unavailable(location, err)
	}
	if len(records) == 0 {
		return Unavailable(location, ErrNoRecords)
	}
	if cacheable && fresh {
		if err := l.Cache.Put(location, data); err != nil {
			log.Warn("source: cache write failed", "location", location, "error", err)
		}
	}
	log.Debug("source: loaded", "location", location, "persons", len(records), "cached", !fresh)
	return Result{Status: StatusLoaded, Records: records, Location: location}
}

func (l Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !IsRemote(location) {
		return os.ReadFile(location)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Decode parses data in the given format into person records.
func Decode(data []byte, format Format, fallbackRelation string) ([]network.PersonRecord, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(bytes.NewReader(data), fallbackRelation)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}
