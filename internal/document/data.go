package document

import "golang.org/x/net/html"

// ParseResult is the transient outcome of Parse: a best-effort element tree
// plus the structural diagnostics recorded while reading the input.
type ParseResult struct {
	Root   *html.Node
	Errors []ParseError
}

// Valid reports whether no structural diagnostic was recorded.
func (p ParseResult) Valid() bool {
	return len(p.Errors) == 0
}

// Err returns a *DocumentStructureError for the first recorded diagnostic, or nil.
func (p ParseResult) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return NewDocumentStructureError(p.Errors[0])
}

func setOf(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

//nolint:gochecknoglobals // static lookup tables
var (
	voidElements = setOf(
		"area", "base", "basefont", "bgsound", "br", "col", "embed", "frame",
		"hr", "image", "img", "input", "keygen", "link", "meta", "param",
		"source", "track", "wbr",
	)

	// elements the tree builder accepts while in (or implying) <head>
	headContent = setOf(
		"base", "basefont", "bgsound", "link", "meta", "noframes", "noscript",
		"script", "style", "template", "title",
	)

	// elements whose end tag may be omitted when an ancestor closes
	impliedEndTags = setOf(
		"caption", "colgroup", "dd", "dt", "li", "optgroup", "option", "p",
		"rb", "rp", "rt", "rtc", "tbody", "td", "tfoot", "th", "thead", "tr",
	)

	// elements allowed to remain open at end of file or when </body>/</html> closes them
	closableAtEnd = setOf(
		"caption", "colgroup", "dd", "dt", "li", "optgroup", "option", "p",
		"rb", "rp", "rt", "rtc", "tbody", "td", "tfoot", "th", "thead", "tr",
		"html", "head", "body",
	)

	// start tags that close an open <p> in button scope
	closesParagraph = setOf(
		"address", "article", "aside", "blockquote", "center", "dd", "details",
		"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup",
		"hr", "li", "listing", "main", "menu", "nav", "ol", "p", "plaintext",
		"pre", "search", "section", "summary", "table", "ul", "xmp",
	)

	headings = setOf("h1", "h2", "h3", "h4", "h5", "h6")

	special = setOf(
		"address", "applet", "area", "article", "aside", "base", "basefont",
		"bgsound", "blockquote", "body", "br", "button", "caption", "center",
		"col", "colgroup", "dd", "details", "dir", "div", "dl", "dt", "embed",
		"fieldset", "figcaption", "figure", "footer", "form", "frame",
		"frameset", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header",
		"hgroup", "hr", "html", "iframe", "img", "input", "keygen", "li",
		"link", "listing", "main", "marquee", "menu", "meta", "nav", "noembed",
		"noframes", "noscript", "object", "ol", "p", "param", "plaintext",
		"pre", "script", "search", "section", "select", "source", "style",
		"summary", "table", "tbody", "td", "template", "textarea", "tfoot",
		"th", "thead", "title", "tr", "track", "ul", "wbr", "xmp",
	)

	// elements whose content the tokenizer returns as a single text token
	rawTextElements = setOf(
		"iframe", "noembed", "noframes", "noscript", "plaintext", "script",
		"style", "textarea", "title", "xmp",
	)

	buttonScope = setOf(
		"applet", "button", "caption", "html", "marquee", "object", "table",
		"td", "template", "th",
	)

	tableScope = setOf("html", "table", "template")

	// elements whose children the tree builder places by the table rules
	tableContext = setOf("table", "tbody", "tfoot", "thead", "tr")

	// start tags accepted while a table context element is current; anything
	// else is moved out of the table
	tableContent = setOf(
		"caption", "col", "colgroup", "form", "input", "script", "style",
		"tbody", "td", "template", "tfoot", "th", "thead", "tr",
	)

	// elements that bound the search for an open <a>
	formattingScope = setOf(
		"applet", "caption", "html", "marquee", "object", "table", "td",
		"template", "th",
	)

	// raw text elements whose content still decodes character references
	escapableRawText = setOf("textarea", "title")
)

func in(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}
