package markdown

// kind is the rendering category of an element, resolved once per node.
type kind int

const (
	kindGeneric kind = iota
	kindHeading
	kindParagraph
	kindBlock
	kindList
	kindItem
	kindEmphasis
	kindCode
	kindLink
	kindImage
	kindPre
	kindQuote
	kindTable
	kindBreak
	kindRule
	kindSkip
)

var tagKinds = map[string]kind{
	"h1": kindHeading, "h2": kindHeading, "h3": kindHeading,
	"h4": kindHeading, "h5": kindHeading, "h6": kindHeading,

	"p": kindParagraph,

	"div": kindBlock, "section": kindBlock, "article": kindBlock, "main": kindBlock,
	"header": kindBlock, "footer": kindBlock, "nav": kindBlock, "aside": kindBlock,
	"figure": kindBlock, "figcaption": kindBlock, "address": kindBlock,
	"dl": kindBlock, "dt": kindBlock, "dd": kindBlock, "form": kindBlock,
	"fieldset": kindBlock, "details": kindBlock, "summary": kindBlock,
	"center": kindBlock, "body": kindBlock,

	"ul": kindList, "ol": kindList, "menu": kindList,
	"li": kindItem,

	"b": kindEmphasis, "strong": kindEmphasis,
	"i": kindEmphasis, "em": kindEmphasis,
	"del": kindEmphasis, "s": kindEmphasis, "strike": kindEmphasis,
	"code": kindCode, "kbd": kindCode, "samp": kindCode, "tt": kindCode,

	"a":          kindLink,
	"img":        kindImage,
	"pre":        kindPre,
	"blockquote": kindQuote,
	"table":      kindTable,
	"br":         kindBreak,
	"hr":         kindRule,

	"head": kindSkip, "script": kindSkip, "style": kindSkip, "template": kindSkip,
}

func kindOf(tag string) kind {
	if k, ok := tagKinds[tag]; ok {
		return k
	}
	return kindGeneric
}

// inlineMarker returns the Markdown delimiter for an emphasis or code tag.
func inlineMarker(tag string) string {
	switch tag {
	case "b", "strong":
		return "**"
	case "i", "em":
		return "*"
	case "del", "s", "strike":
		return "~~"
	default:
		return "`"
	}
}
