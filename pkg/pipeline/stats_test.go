package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStats_DurationsEncodeAsNanoseconds(t *testing.T) {
	stats := NewStats()
	stats.Durations[StageTables] = 2 * time.Millisecond
	stats.TotalDuration = 1500 * time.Millisecond

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{
		`"durations_ns":{"tables":2000000}`,
		`"total_duration_ns":1500000000`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s:\n%s", want, data)
		}
	}
}

func TestStats_String(t *testing.T) {
	stats := NewStats()
	stats.InputBytes = 2048
	stats.OutputBytes = 512
	stats.Nodes = 1200
	stats.Removed[StageBoilerplate] = 3

	got := stats.String()
	for _, want := range []string{
		"Size: 2.0 kB -> 512 B (75.0% reduction)",
		"Nodes: 1,200, 3 noise blocks removed",
		"boilerplate=3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
}
