package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/msalah0e/relgraph/internal/network"
)

const sampleJSON = `{
  "nodes": [
    {"id": "center", "name": "Lu Xun", "type": "center", "relation": "center", "events": []},
    {"id": "person_0", "name": "A", "type": "person", "relation": "friend",
     "events": [{"time": "1913", "description": "introduced"}]},
    {"id": "person_1", "name": "B", "type": "person", "relation": "kin",
     "events": [{"time": "1920", "description": "severed ties"}]}
  ],
  "links": []
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSONDocument(t *testing.T) {
	res := Load(context.Background(), writeFile(t, "network-data.json", sampleJSON))
	if !res.Loaded() {
		t.Fatalf("expected loaded result, got %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 persons, got %d", len(res.Records))
	}
	if res.Records[1].Name != "B" || res.Records[1].Relation != "kin" {
		t.Errorf("unexpected record: %+v", res.Records[1])
	}
}

func TestLoadRecordArray(t *testing.T) {
	body := `[{"name": "A", "relation": "friend", "events": [{"time": "1913", "description": "x"}]}]`
	res := Load(context.Background(), writeFile(t, "data.json", body))
	if !res.Loaded() || len(res.Records) != 1 {
		t.Fatalf("expected one record, got %+v", res)
	}
}

func TestLoadUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"nodes": [`},
		{"no nodes", `{"people": []}`},
		{"no persons", `{"nodes": [{"type": "center", "name": "x"}]}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Load(context.Background(), writeFile(t, "data.json", tt.content))
			if res.Loaded() {
				t.Fatal("expected unavailable")
			}
			if res.Err == nil {
				t.Error("unavailable result should carry a reason")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	res := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if res.Loaded() {
		t.Fatal("missing file should be unavailable")
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("expected not-exist reason, got %v", res.Err)
	}
}

func TestLoadNoRecordsReason(t *testing.T) {
	res := Load(context.Background(), writeFile(t, "d.json", `{"nodes": []}`))
	if !errors.Is(res.Err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", res.Err)
	}
}

func TestLoadYAML(t *testing.T) {
	body := `nodes:
  - name: A
    type: person
    relation: friend
    events:
      - time: "1913"
        description: introduced
  - name: center
    type: center
`
	res := Load(context.Background(), writeFile(t, "data.yaml", body))
	if !res.Loaded() || len(res.Records) != 1 {
		t.Fatalf("expected one record, got %+v", res)
	}
	if res.Records[0].Events[0].Time != "1913" {
		t.Errorf("unexpected events %+v", res.Records[0].Events)
	}
}

func TestLoadCSV(t *testing.T) {
	body := "序号,姓名,关系,时间1,事件1,时间2,事件2\n" +
		"1,许寿裳,友人,1912,同在教育部,1926,南下\n" +
		",,,,,,\n" +
		"2,,,1920年,见面\n"
	res := Loader{FallbackRelation: "其他"}.Load(context.Background(), writeFile(t, "rel.csv", body))
	if !res.Loaded() {
		t.Fatalf("expected loaded, got %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	first := res.Records[0]
	if first.Name != "许寿裳" || first.Relation != "友人" || len(first.Events) != 2 {
		t.Errorf("unexpected first record %+v", first)
	}
	second := res.Records[1]
	if second.Name != "Unknown 1" {
		t.Errorf("expected placeholder name, got %q", second.Name)
	}
	if second.Relation != "其他" {
		t.Errorf("expected fallback relation, got %q", second.Relation)
	}
	if len(second.Events) != 1 || second.Events[0].Description != "见面" {
		t.Errorf("unexpected events %+v", second.Events)
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/network-data.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	res := Load(context.Background(), srv.URL+"/network-data.json")
	if !res.Loaded() || len(res.Records) != 2 {
		t.Fatalf("expected 2 records over http, got %+v", res)
	}

	res = Load(context.Background(), srv.URL+"/missing.json")
	if res.Loaded() {
		t.Error("404 should be unavailable")
	}
}

type memCache map[string][]byte

func (m memCache) Get(location string) ([]byte, bool) {
	data, ok := m[location]
	return data, ok
}

func (m memCache) Put(location string, data []byte) error {
	m[location] = data
	return nil
}

func TestLoadFallsBackToCache(t *testing.T) {
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	cache := memCache{}
	l := Loader{Cache: cache}
	url := srv.URL + "/network-data.json"

	if res := l.Load(context.Background(), url); !res.Loaded() {
		t.Fatalf("expected load, got %+v", res)
	}
	if _, ok := cache[url]; !ok {
		t.Fatal("successful fetch should be cached")
	}

	down.Store(true)
	res := l.Load(context.Background(), url)
	if !res.Loaded() || len(res.Records) != 2 {
		t.Fatalf("expected cached records, got %+v", res)
	}

	if res := (Loader{}).Load(context.Background(), url); res.Loaded() {
		t.Error("without a cache the outage should be unavailable")
	}
}

func TestLoadDoesNotCacheBadData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": 7}`))
	}))
	defer srv.Close()

	cache := memCache{}
	if res := (Loader{Cache: cache}).Load(context.Background(), srv.URL+"/d.json"); res.Loaded() {
		t.Fatal("malformed data should be unavailable")
	}
	if len(cache) != 0 {
		t.Errorf("malformed data should not be cached, got %v", cache)
	}
}

func TestLoadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := Load(ctx, srv.URL+"/d.json"); res.Loaded() {
		t.Error("cancelled load should be unavailable")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.json":                      FormatJSON,
		"a.YAML":                      FormatYAML,
		"a.yml":                       FormatYAML,
		"rel.csv":                     FormatCSV,
		"noext":                       FormatJSON,
		"https://x.org/d.yaml?v=2":    FormatYAML,
		"https://x.org/d.csv#section": FormatCSV,
	}
	for in, want := range tests {
		if got := DetectFormat(in); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	records := []network.PersonRecord{
		{Name: "A", Relation: "friend", Events: []network.Event{{Time: "1913", Description: "introduced"}}},
		{Name: "B", Relation: "kin", Events: []network.Event{{Time: "1920", Description: "severed ties"}}},
	}
	g := network.Normalize(records, network.DefaultOptions())

	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := Encode(&buf, g, format); err != nil {
			t.Fatalf("Encode %s: %v", format, err)
		}
		if format == FormatJSON && !strings.Contains(buf.String(), `"isBroken": true`) {
			t.Errorf("json output should carry the broken flag:\n%s", buf.String())
		}
		back, err := Decode(buf.Bytes(), format, "")
		if err != nil {
			t.Fatalf("Decode %s: %v", format, err)
		}
		if len(back) != 2 || back[0].Name != "A" || back[1].Events[0].Description != "severed ties" {
			t.Errorf("%s round trip lost data: %+v", format, back)
		}
	}

	if err := Encode(&bytes.Buffer{}, g, FormatCSV); err == nil {
		t.Error("csv output is not supported and should fail")
	}
}
