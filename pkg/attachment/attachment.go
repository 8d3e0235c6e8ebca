// Package attachment holds the side-channel resources (images and other
// embedded files) that accompany extracted markup, keyed by basename.
package attachment

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotZip is returned by FromZip when the payload is not a zip archive.
var ErrNotZip = errors.New("attachment: payload is not a zip archive")

// Map maps lower-cased basenames to resource bytes. It is read-only once
// handed to the pipeline.
type Map map[string][]byte

// Entry is a single named resource.
type Entry struct {
	Name string
	Data []byte
}

// FromEntries builds a Map from named resources. Names are reduced to
// their lower-cased basename; when two entries share a basename the later
// one wins.
func FromEntries(entries []Entry) Map {
	m := make(Map, len(entries))
	for _, e := range entries {
		key := Key(e.Name)
		if key == "" {
			continue
		}
		m[key] = e.Data
	}
	return m
}

// FromZip reads every regular file of a zip archive, including files in
// nested directories.
func FromZip(data []byte) (Map, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: f.Name, Data: content})
	}
	return FromEntries(entries), nil
}

// FromDir reads every regular file below dir. Files are visited in lexical
// path order so duplicate basenames resolve deterministically.
func FromDir(dir string) (Map, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading attachment %s: %w", p, err)
		}
		entries = append(entries, Entry{Name: p, Data: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking attachment dir: %w", err)
	}
	return FromEntries(entries), nil
}

// Load reads attachments from a zip file or a directory.
func Load(p string) (Map, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening attachments: %w", err)
	}
	if info.IsDir() {
		return FromDir(p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading attachments: %w", err)
	}
	return FromZip(data)
}

// Key returns the normalized lookup key for a resource reference: its
// lower-cased basename.
func Key(ref string) string {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "\\", "/")
	base := path.Base(ref)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToLower(base)
}

// Has reports whether name matches an attachment basename, ignoring case.
func (m Map) Has(name string) bool {
	if len(m) == 0 {
		return false
	}
	_, ok := m[Key(name)]
	return ok
}

// Names returns the attachment keys in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves an image or link source against the map. Besides the
// source itself it tries the basename without query or fragment and the
// part after a scheme-like prefix such as "embedded:".
func (m Map) Lookup(src string) (key string, data []byte, ok bool) {
	if len(m) == 0 {
		return "", nil, false
	}
	for _, c := range Candidates(src) {
		k := Key(c)
		if k == "" {
			continue
		}
		if d, found := m[k]; found {
			return k, d, true
		}
	}
	return "", nil, false
}

// Candidates lists the reference forms tried by Lookup, most specific
// first.
func Candidates(src string) []string {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	out := []string{src}
	if i := strings.IndexByte(src, '?'); i >= 0 {
		out = append(out, src[:i])
	}
	if i := strings.IndexByte(src, '#'); i >= 0 {
		out = append(out, src[:i])
	}
	if i := strings.IndexByte(src, ':'); i >= 0 {
		out = append(out, src[i+1:])
	}
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		out = append(out, src[i+1:])
	}
	return out
}
