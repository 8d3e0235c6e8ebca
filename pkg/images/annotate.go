package images

import (
	"strings"

	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// Report counts what Annotate did.
type Report struct {
	Annotated int `json:"annotated" yaml:"annotated"`
	Inlined   int `json:"inlined" yaml:"inlined"`
	Dropped   int `json:"dropped" yaml:"dropped"`
}

// Annotate processes every img element of the tree.
//
// Sources matching an attachment are first replaced by a data URI when the
// bytes are a supported raster image; images whose attachment cannot be
// embedded are removed. Sources without a match are left alone and never
// fetched. Every remaining image then gets an alt attribute built from the
// last sentence before it and the first sentence after it, and loses its
// title.
func Annotate(t *dom.Tree, atts attachment.Map, cfg Config) Report {
	var rep Report

	if !cfg.SkipInline && len(atts) > 0 {
		for _, img := range t.FindAll(t.Root(), "img") {
			switch resolve(t, img, atts, cfg) {
			case resolvedInlined:
				rep.Inlined++
			case resolvedDropped:
				rep.Dropped++
			}
		}
	}

	imgs := t.FindAll(t.Root(), "img")
	if len(imgs) == 0 {
		return rep
	}
	finder := newContextFinder(t, cfg.MaxAncestors)
	for _, img := range imgs {
		prev := LastFragment(finder.Before(img), cfg.MaxFragmentLen)
		next := FirstFragment(finder.After(img), cfg.MaxFragmentLen)
		t.SetAttr(img, "alt", ComposeAlt(prev, next))
		t.RemoveAttr(img, "title")
		rep.Annotated++
	}
	return rep
}

type resolution int

const (
	resolvedNone resolution = iota
	resolvedInlined
	resolvedDropped
)

func resolve(t *dom.Tree, img dom.NodeID, atts attachment.Map, cfg Config) resolution {
	src, _ := t.Attr(img, "src")
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
		return resolvedNone
	}
	name, data, ok := atts.Lookup(src)
	if !ok {
		return resolvedNone
	}

	mime, ok := DetectRaster(data)
	if !ok {
		if cfg.KeepUnsupported {
			return resolvedNone
		}
		logger.Debug("dropping unsupported image", "attachment", name, "bytes", len(data))
		t.Remove(img)
		return resolvedDropped
	}
	t.SetAttr(img, "src", DataURI(mime, data))
	return resolvedInlined
}
