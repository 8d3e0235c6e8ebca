package dom

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Confidential \n\t Draft  ", "Confidential Draft"},
		{"a b", "a b"},
		{"Cafe\u0301", "Caf\u00e9"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsMeaningful(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"...", false},
		{"__--__", false},
		{"— • —", false},
		{"a", true},
		{"3.", true},
		{"图表", true},
	}
	for _, tt := range tests {
		if got := IsMeaningful(tt.in); got != tt.want {
			t.Errorf("IsMeaningful(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextContent(t *testing.T) {
	tree, body, _, _, _ := buildSample(t)
	if got := tree.TextContent(body); got != "onetailtwothree" {
		t.Errorf("TextContent = %q", got)
	}
	if got := tree.NormalizedText(body); got != "one tail two three" {
		t.Errorf("NormalizedText = %q", got)
	}
}

func TestNormalizedText_ExcludesOwnTail(t *testing.T) {
	tree, _, p, _, _ := buildSample(t)
	if got := tree.NormalizedText(p); got != "one" {
		t.Errorf("NormalizedText(p) = %q, want %q", got, "one")
	}
}

func TestShortText(t *testing.T) {
	tree, body, p, _, _ := buildSample(t)
	if got, ok := tree.ShortText(p, 10); !ok || got != "one" {
		t.Errorf("ShortText(p, 10) = %q, %v", got, ok)
	}
	if _, ok := tree.ShortText(body, 5); ok {
		t.Error("expected body text to exceed limit 5")
	}
	if got, ok := tree.ShortText(body, 18); !ok || got != "one tail two three" {
		t.Errorf("ShortText(body, 18) = %q, %v", got, ok)
	}
}
