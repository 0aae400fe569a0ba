// Package cache keeps the last good copy of remotely fetched data files so
// the graph can still be shown when the source is unreachable.
package cache

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dir returns the cache directory path.
func Dir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "relgraph")
}

// Store is a directory of cached source files, one per location.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Default returns the Store under Dir.
func Default() *Store {
	return New(Dir())
}

// Entry describes one cached file.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Get returns the cached copy of location.
func (s *Store) Get(location string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(location))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put replaces the cached copy of location. The write goes through a
// temporary file so readers never see a partial copy.
func (s *Store) Put(location string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(location))
}

// IsCached returns true if location has a cached copy.
func (s *Store) IsCached(location string) bool {
	return fileExists(s.path(location))
}

// Entries lists the cached files by name.
func (s *Store) Entries() ([]Entry, error) {
	des, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, de := range des {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Clear removes every cached file.
func (s *Store) Clear() error {
	return os.RemoveAll(s.dir)
}

// Bundle creates a tar.gz archive of the cache directory.
func (s *Store) Bundle(output string) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("cache is empty")
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	for _, e := range entries {
		if err := addFile(tw, filepath.Join(s.dir, e.Name), e.Name); err != nil {
			return err
		}
	}
	return nil
}

func addFile(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(tw, file)
	return err
}

func (s *Store) path(location string) string {
	return filepath.Join(s.dir, sanitize(location))
}

func sanitize(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	r := strings.NewReplacer("/", "_", ":", "_", "@", "_", "?", "_", "&", "_", "=", "_", "#", "_", "\\", "_")
	return r.Replace(s)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
