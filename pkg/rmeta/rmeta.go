// Package rmeta reads the recursive metadata documents produced by Tika's
// /rmeta endpoint: a JSON array (or newline-delimited objects) whose first
// record holds the main document's XHTML and metadata, followed by one
// record per embedded resource.
package rmeta

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Well-known metadata keys.
const (
	KeyContent      = "X-TIKA:content"
	KeyResourceName = "resourceName"
	KeyEmbeddedPath = "X-TIKA:embedded_resource_path"
	KeyContentType  = "Content-Type"
)

// pageCountKeys are the keys Tika parsers use for the page count, most
// specific first.
var pageCountKeys = []string{"xmpTPg:NPages", "meta:page-count", "Page-Count", "pdf:docinfo:pages"}

// ErrNoRecords is returned when the input holds no metadata records.
var ErrNoRecords = errors.New("rmeta: no records")

// Record is one metadata record. Tika emits multi-valued keys as arrays;
// Get returns their first value.
type Record map[string]any

// Get returns the first string value of key.
func (r Record) Get(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				return s
			}
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// ResourceName returns the lower-cased basename of an embedded record.
func (r Record) ResourceName() string {
	name := r.Get(KeyResourceName)
	if name == "" {
		name = r.Get(KeyEmbeddedPath)
	}
	if name == "" {
		return ""
	}
	return strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
}

// Document is a parsed /rmeta response.
type Document struct {
	// HTML is the main document's XHTML content.
	HTML string

	// PageCount is the page count metadata, or 0 when absent.
	PageCount int

	Metadata Record
	Embedded []Record
}

// Parse decodes a JSON array, a single JSON object or newline-delimited
// JSON objects. Undecodable lines of NDJSON input are skipped.
func Parse(data []byte) (*Document, error) {
	records, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	main := records[0]
	return &Document{
		HTML:      main.Get(KeyContent),
		PageCount: pageCount(main),
		Metadata:  main,
		Embedded:  records[1:],
	}, nil
}

func decode(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoRecords
	}

	switch trimmed[0] {
	case '[':
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err == nil {
			return records, nil
		}
	case '{':
		var record Record
		if err := json.Unmarshal(trimmed, &record); err == nil {
			return []Record{record}, nil
		}
	}

	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), len(trimmed)+1)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rmeta lines: %w", err)
	}
	return records, nil
}

func pageCount(r Record) int {
	for _, key := range pageCountKeys {
		if v := strings.TrimSpace(r.Get(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// EmbeddedNames returns the basenames of the embedded resources in
// document order.
func (d *Document) EmbeddedNames() []string {
	var names []string
	for _, r := range d.Embedded {
		if name := r.ResourceName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}
