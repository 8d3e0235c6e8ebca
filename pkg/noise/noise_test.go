package noise

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

func bodyText(t *dom.Tree) string {
	return t.NormalizedText(t.Body())
}

func atts(names ...string) attachment.Map {
	entries := make([]attachment.Entry, len(names))
	for i, n := range names {
		entries[i] = attachment.Entry{Name: n, Data: []byte("x")}
	}
	return attachment.FromEntries(entries)
}

func TestLooksLikeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"report.docx", true},
		{"IMAGE1.PNG", true},
		{"_000123.png", true},
		{"20240101.jpeg", true},
		{"my file-v2.pdf", true},
		{"数据表.xlsx", true},
		{"hello", false},
		{"world", false},
		{"", false},
		{"no extension.", false},
		{"archive.toolongext", false},
		{"This sentence is far too long to be a file name.txt", false},
	}
	for _, tt := range tests {
		if got := LooksLikeFilename(tt.in); got != tt.want {
			t.Errorf("LooksLikeFilename(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens(" a.png, b.png;c.png  d.png ")
	want := []string{"a.png", "b.png", "c.png", "d.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
	if len(Tokens(" ,; ")) != 0 {
		t.Error("expected no tokens for separators only")
	}
}

func TestCounter_InsertionOrder(t *testing.T) {
	c := newCounter()
	for _, s := range []string{"b", "a", "b", "c", "a", "", "a"} {
		c.Add(s)
	}
	if got := c.AtLeast(2); strings.Join(got, ",") != "b,a" {
		t.Errorf("AtLeast(2) = %v, want [b a]", got)
	}
	if c.Count("a") != 3 || c.Count("") != 0 {
		t.Errorf("unexpected counts a=%d empty=%d", c.Count("a"), c.Count(""))
	}
}

func TestConfig_PageThreshold(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		pages int
		want  int
	}{
		{0, 3},
		{-1, 3},
		{4, 3},
		{7, 3},
		{10, 5},
		{40, 20},
	}
	for _, tt := range tests {
		if got := cfg.PageThreshold(tt.pages); got != tt.want {
			t.Errorf("PageThreshold(%d) = %d, want %d", tt.pages, got, tt.want)
		}
	}
}

func TestConfig_Merge(t *testing.T) {
	merged := DefaultConfig().Merge(Config{MinHeaderRepeat: 5, SkipBoilerplate: true})
	if merged.MinHeaderRepeat != 5 {
		t.Errorf("MinHeaderRepeat = %d, want 5", merged.MinHeaderRepeat)
	}
	if merged.MinPackageGroup != 2 || merged.MaxHeaderTextLen != 200 {
		t.Error("unset values should keep defaults")
	}
	if !merged.SkipBoilerplate || merged.SkipPageRepeats {
		t.Error("skip switches not merged correctly")
	}
}

func TestRemovePageRepeats_ConfidentialDraft(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&sb, `<div class="page"><p>Confidential  Draft</p><p>Unique content for page %d.</p></div>`, i)
	}
	sb.WriteString("</body></html>")
	tree := dom.Build(sb.String())

	removed := RemovePageRepeats(tree, DefaultConfig(), 0)
	if removed != 4 {
		t.Errorf("removed = %d, want 4", removed)
	}
	for _, page := range tree.Matching(tree.Root(), func(id dom.NodeID) bool { return tree.ClassContains(id, "page") }) {
		if strings.Contains(tree.NormalizedText(page), "Confidential Draft") {
			t.Errorf("page still contains header: %q", tree.NormalizedText(page))
		}
	}
	for i := 1; i <= 4; i++ {
		want := fmt.Sprintf("Unique content for page %d.", i)
		if !strings.Contains(bodyText(tree), want) {
			t.Errorf("missing unique content %q", want)
		}
	}
}

func TestRemovePageRepeats_Footers(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&sb, `<div class="page"><h2>Chapter %d</h2><p>Body %d</p><p>ACME Ltd. All rights reserved.</p></div>`, i, i)
	}
	tree := dom.Build(sb.String())

	if removed := RemovePageRepeats(tree, DefaultConfig(), 0); removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if strings.Contains(bodyText(tree), "rights reserved") {
		t.Error("footer should be removed")
	}
	if !strings.Contains(bodyText(tree), "Chapter 3") {
		t.Error("headings should be kept")
	}
}

func TestRemovePageRepeats_Thresholds(t *testing.T) {
	build := func(pages int) *dom.Tree {
		var sb strings.Builder
		for i := 1; i <= pages; i++ {
			fmt.Fprintf(&sb, `<div class="page"><p>Header</p><p>Text %d</p></div>`, i)
		}
		return dom.Build(sb.String())
	}

	tests := []struct {
		name      string
		pages     int
		pageCount int
		want      int
	}{
		{"too few pages", 2, 0, 0},
		{"default threshold", 3, 0, 3},
		{"page count raises threshold", 4, 10, 0},
		{"page count below default", 4, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := build(tt.pages)
			if got := RemovePageRepeats(tree, DefaultConfig(), tt.pageCount); got != tt.want {
				t.Errorf("removed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemovePageRepeats_NoPages(t *testing.T) {
	tree := dom.Build("<p>Header</p><p>Header</p><p>Header</p>")
	if got := RemovePageRepeats(tree, DefaultConfig(), 0); got != 0 {
		t.Errorf("removed = %d, want 0", got)
	}
	if got := RemovePageRepeats(dom.New("html"), DefaultConfig(), 3); got != 0 {
		t.Errorf("removed on empty tree = %d, want 0", got)
	}
}

func TestTrimTrailingFilenames(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		atts     attachment.Map
		want     int
		wantText string
	}{
		{
			name:     "attachment list removed",
			html:     `<p>Intro text here.</p><p>report.docx, notes.txt</p>`,
			atts:     atts("Report.DOCX", "notes.txt"),
			want:     1,
			wantText: "Intro text here.",
		},
		{
			name:     "mixed list kept",
			html:     `<p>Intro text here.</p><p>report.docx, hello world</p>`,
			atts:     atts("report.docx", "notes.txt"),
			want:     0,
			wantText: "Intro text here. report.docx, hello world",
		},
		{
			name:     "filename shape without attachments",
			html:     `<p>Body.</p><p>000123.png 000124.png</p>`,
			want:     1,
			wantText: "Body.",
		},
		{
			name:     "empty blocks then list",
			html:     `<p>Body.</p><p>a.png</p><div>  </div>`,
			want:     2,
			wantText: "Body.",
		},
		{
			name:     "image-only block kept",
			html:     `<p>Body.</p><p><img src="x.png"></p>`,
			want:     0,
			wantText: "Body.",
		},
		{
			name:     "scan limit",
			html:     `<p>Body.</p><p>a.png</p><p>b.png</p><p>c.png</p><p>d.png</p>`,
			want:     3,
			wantText: "Body. a.png",
		},
		{
			name:     "empty body",
			html:     ``,
			want:     0,
			wantText: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := dom.Build(tt.html)
			if got := TrimTrailingFilenames(tree, tt.atts, DefaultConfig()); got != tt.want {
				t.Errorf("removed = %d, want %d", got, tt.want)
			}
			if got := bodyText(tree); got != tt.wantText {
				t.Errorf("body text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestRemoveBoilerplate(t *testing.T) {
	tree := dom.Build(`<body>
		<p>ACME Corp</p><p>First section.</p>
		<p>ACME   Corp</p><p>Second section.</p>
		<p>ACME Corp</p><p>Third section.</p>
		<div><span>ACME Corp</span> more text</div>
	</body>`)

	if got := RemoveBoilerplate(tree, DefaultConfig()); got != 4 {
		t.Errorf("removed = %d, want 4", got)
	}
	text := bodyText(tree)
	if strings.Contains(text, "ACME") {
		t.Errorf("boilerplate left: %q", text)
	}
	for _, want := range []string{"First section.", "Third section.", "more text"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestRemoveBoilerplate_BelowThreshold(t *testing.T) {
	tree := dom.Build(`<p>Header</p><p>One</p><p>Header</p><p>Two</p>`)
	if got := RemoveBoilerplate(tree, DefaultConfig()); got != 0 {
		t.Errorf("removed = %d, want 0", got)
	}
}

func TestRemoveBoilerplate_OnlyLeadingWindow(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&sb, "<p>Paragraph %d</p>", i)
	}
	sb.WriteString("<p>Late</p><p>Late</p><p>Late</p>")
	tree := dom.Build(sb.String())
	if got := RemoveBoilerplate(tree, DefaultConfig()); got != 0 {
		t.Errorf("removed = %d, want 0", got)
	}
}

func TestRemovePackageEntries(t *testing.T) {
	filler := strings.Repeat("<p>Paragraph.</p>", 25)
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "group removed",
			html: `<p>Intro.</p><div class="package-entry"><h1>image1.png</h1></div>` + filler +
				`<div class="package-entry"><h1>report.docx</h1></div>`,
			want: 2,
		},
		{
			name: "single entry at tail",
			html: filler + `<div class="Package-Entry"><h2>000001.xlsx</h2><p>sheet data</p></div>`,
			want: 1,
		},
		{
			name: "single entry early kept",
			html: `<div class="package-entry"><h1>notes.txt</h1></div>` + filler,
			want: 0,
		},
		{
			name: "entry without heading",
			html: `<p>Intro.</p><div class="package-entry">budget.xlsx</div>`,
			want: 1,
		},
		{
			name: "non filename title kept",
			html: `<div class="package-entry"><h1>Quarterly results</h1></div><div class="package-entry"><h1>Outlook for next year</h1></div>`,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := dom.Build(tt.html)
			if got := RemovePackageEntries(tree, DefaultConfig()); got != tt.want {
				t.Errorf("removed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemoveAttachmentNames(t *testing.T) {
	html := `<p>image1.png</p><p>See <a href="files/Report.docx?x=1">the report</a> for details.</p><ul><li>NOTES.TXT</li><li>Keep me</li></ul>`
	tree := dom.Build(html)

	got := RemoveAttachmentNames(tree, atts("image1.png", "report.docx", "notes.txt"))
	if got != 3 {
		t.Errorf("removed = %d, want 3", got)
	}
	if text := bodyText(tree); text != "See for details. Keep me" {
		t.Errorf("body text = %q", text)
	}

	tree = dom.Build(html)
	if got := RemoveAttachmentNames(tree, nil); got != 0 {
		t.Errorf("removed without attachments = %d, want 0", got)
	}
}
