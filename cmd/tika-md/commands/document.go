package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
	"github.com/lloydzhou/tika-parser/pkg/pipeline"
	"github.com/lloydzhou/tika-parser/pkg/rmeta"
)

// Input formats accepted by convert and batch.
const (
	inputAuto  = "auto"
	inputHTML  = "html"
	inputRmeta = "rmeta"
)

// loadOptions controls how a source document is read.
type loadOptions struct {
	InputFormat string

	// Attachments is an explicit zip file or directory. When empty and
	// DiscoverAttachments is set, a sibling <name>.zip or
	// <name>_attachments directory is used if present.
	Attachments         string
	DiscoverAttachments bool

	// PageCount overrides the page count found in rmeta metadata.
	PageCount int

	// MaxInputSize rejects larger sources; 0 means unlimited.
	MaxInputSize uint64
}

// parseSize parses a human-readable size such as "20MB"; "" and "0" mean
// unlimited.
func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n, nil
}

// loadInput reads a source document ("-" is stdin) and its attachments.
func loadInput(path string, opts loadOptions) (pipeline.Input, error) {
	data, err := readSource(path, opts.MaxInputSize)
	if err != nil {
		return pipeline.Input{}, err
	}

	var in pipeline.Input
	switch format := detectFormat(path, data, opts.InputFormat); format {
	case inputRmeta:
		doc, err := rmeta.Parse(data)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("parsing rmeta %s: %w", path, err)
		}
		in.HTML = doc.HTML
		in.PageCount = doc.PageCount
		logger.Debug("rmeta document parsed",
			"path", path,
			"pages", doc.PageCount,
			"embedded", len(doc.Embedded),
			"embedded_names", doc.EmbeddedNames())
	default:
		// Sniffing only looks at the first KiB, so valid UTF-8 is taken as is.
		if utf8.Valid(data) {
			in.HTML = string(data)
			break
		}
		in.HTML, err = dom.DecodeReader(bytes.NewReader(data), "")
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	if opts.PageCount > 0 {
		in.PageCount = opts.PageCount
	}

	attPath := opts.Attachments
	if attPath == "" && opts.DiscoverAttachments && path != "-" {
		attPath = siblingAttachments(path)
	}
	if attPath != "" {
		in.Attachments, err = attachment.Load(attPath)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("loading attachments for %s: %w", path, err)
		}
		logger.Debug("attachments loaded", "path", attPath, "count", len(in.Attachments))
	}
	return in, nil
}

func readSource(path string, limit uint64) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path) //#nosec G304 -- CLI tool reads user-specified input
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	if limit > 0 {
		r = io.LimitReader(r, int64(limit)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if limit > 0 && uint64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds the maximum input size of %s", path, humanize.Bytes(limit))
	}
	return data, nil
}

// detectFormat resolves "auto": .json files and content starting with a
// JSON array or object are rmeta documents.
func detectFormat(path string, data []byte, format string) string {
	switch format {
	case inputHTML, inputRmeta:
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return inputRmeta
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return inputRmeta
	}
	return inputHTML
}

// siblingAttachments returns <stem>.zip or <stem>_attachments next to path,
// whichever exists first, or "".
func siblingAttachments(path string) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, candidate := range []string{stem + ".zip", stem + "_attachments"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Debug("cannot stat attachment candidate", "path", candidate, "error", err)
		}
	}
	return ""
}

// writeOutput writes content to path, or stdout when path is "" or "-".
func writeOutput(path, content string) error {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //#nosec G306 -- output is user-readable Markdown
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// render returns the requested representation of a conversion result.
func render(result *pipeline.Result, emit string) (string, error) {
	switch emit {
	case "", "markdown", "md":
		return result.Markdown, nil
	case "html":
		return dom.RenderString(result.Tree), nil
	default:
		return "", fmt.Errorf("unsupported --emit value %q (want markdown or html)", emit)
	}
}
