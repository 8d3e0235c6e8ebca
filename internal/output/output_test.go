package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

func sampleReport(source string) Report {
	stats := pipeline.NewStats()
	stats.InputBytes = 2048
	stats.OutputBytes = 512
	stats.Removed[pipeline.StagePages] = 4
	result := &pipeline.Result{Stats: stats}
	result.AddWarning(pipeline.StageImages, "stage failed, tree left unchanged", "boom")
	return NewReport(source, strings.TrimSuffix(source, ".html")+".md", result)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{" jsonl ", FormatJSONL, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}
	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		if err != nil {
			t.Fatalf("NewWriter(%s) error = %v", tt.format, err)
		}
		got := fmt.Sprintf("%T", w)
		if got != tt.want {
			t.Errorf("NewWriter(%s) = %T, want %s", tt.format, w, tt.want)
		}
	}

	if _, err := NewWriter(&bytes.Buffer{}, Format("unsupported")); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestJSONWriter_SingleReportIsObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")
	if err := w.Write(sampleReport("a.html")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if got.Source != "a.html" || got.Output != "a.md" {
		t.Errorf("unexpected report: %+v", got)
	}
	if got.Stats == nil || got.Stats.Removed[pipeline.StagePages] != 4 {
		t.Errorf("stats not round-tripped: %+v", got.Stats)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Stage != pipeline.StageImages {
		t.Errorf("warnings = %+v", got.Warnings)
	}
}

func TestJSONWriter_MultipleReportsIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	_ = w.Write(sampleReport("a.html"))
	_ = w.Write(Failed("b.html", errors.New("read failed")))
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	var got []Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[1].Error != "read failed" || got[1].Stats != nil {
		t.Errorf("unexpected reports: %+v", got)
	}
}

func TestJSONWriter_EmptyFlushWritesNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewJSONWriter(buf, true, "  ").Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestJSONLWriter_ConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Write(sampleReport("doc.html")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for i, line := range lines {
		var r Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d is not JSON: %v", i, err)
		}
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)
	_ = w.Write(sampleReport("a.html"))
	_ = w.Write(sampleReport("b.html"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1]["source"] != "b.html" {
		t.Errorf("unexpected YAML: %v", got)
	}
	if !strings.Contains(buf.String(), "input_bytes: 2048") {
		t.Errorf("stats keys not snake_case:\n%s", buf.String())
	}
}

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)
	_ = w.Write(sampleReport("a.html"))
	_ = w.Write(Failed("b.html", errors.New("not found")))

	out := buf.String()
	for _, want := range []string{
		"== a.html -> a.md",
		"Size: 2.0 kB -> 512 B",
		"page_repeats=4",
		"Warning: [images] stage failed, tree left unchanged (context: boom)",
		"== b.html\nError: not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
