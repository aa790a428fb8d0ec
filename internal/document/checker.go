package document

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type headState int

const (
	headNone headState = iota
	headOpen
	headClosed
)

type openElement struct {
	name    string
	foreign bool
}

// checker replays the tokenizer output against a reduced model of the HTML
// tree-construction algorithm: a stack of open elements plus the document
// phase (before head, in head, after head, in body, after body). Elements the
// algorithm implies (html, head, body, optional end tags) are inserted or
// closed silently; everything else that the algorithm would flag is recorded.
type checker struct {
	pos    positions
	errors []ParseError

	stack       []openElement
	head        headState
	bodyStarted bool
	afterBody   bool

	sawDoctype bool
	sawContent bool
}

func check(input string) []ParseError {
	c := &checker{pos: newPositions(input)}

	z := html.NewTokenizer(strings.NewReader(input))
	consumed := 0
	for {
		z.AllowCDATA(c.inForeign())
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				c.report(ErrCodeTreeConstruction, consumed, "tokenizer failed: "+z.Err().Error())
				return c.errors
			}
			break
		}

		offset := consumed
		raw := z.Raw()
		consumed += len(raw)

		switch tt {
		case html.DoctypeToken:
			c.doctype(z.Token(), offset)
		case html.CommentToken:
			c.comment(string(raw), offset)
		case html.TextToken:
			c.text(string(raw), offset)
		case html.StartTagToken, html.SelfClosingTagToken:
			foreignContext := c.inForeign()
			tok := z.Token()
			c.startTag(tok, tt == html.SelfClosingTagToken, offset)
			if foreignContext || tok.Data == "svg" || tok.Data == "math" {
				// foreign <style>/<script> hold markup, not raw text
				z.NextIsNotRawText()
			}
		case html.EndTagToken:
			c.endTag(z.Token(), string(raw), offset)
		}
	}

	c.eof(consumed, len(input))
	return c.errors
}

func (c *checker) report(code ErrorCode, offset int, message string) {
	c.errors = append(c.errors, c.pos.at(code, offset, message))
}

// significant marks the first token that is not whitespace, a comment or a DOCTYPE.
func (c *checker) significant(offset int) {
	if c.sawContent {
		return
	}
	c.sawContent = true
	if !c.sawDoctype {
		c.report(ErrCodeMissingDoctype, offset, "missing DOCTYPE: expected <!DOCTYPE html> before any content")
	}
}

func (c *checker) doctype(tok html.Token, offset int) {
	if c.sawDoctype || c.sawContent {
		c.report(ErrCodeUnexpectedDoctype, offset, "unexpected DOCTYPE after the start of the document")
		return
	}
	c.sawDoctype = true
	if !conformingDoctype(tok.Data) {
		c.report(ErrCodeNonConformingDoctype, offset, fmt.Sprintf("non-conforming DOCTYPE %q", tok.Data))
	}
}

func conformingDoctype(data string) bool {
	fields := strings.Fields(data)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "html") {
		return false
	}
	switch len(fields) {
	case 1:
		return true
	case 3:
		return strings.EqualFold(fields[1], "system") &&
			strings.EqualFold(strings.Trim(fields[2], `"'`), "about:legacy-compat")
	default:
		return false
	}
}

func (c *checker) comment(raw string, offset int) {
	switch {
	case !strings.HasPrefix(raw, "<!--"):
		c.report(ErrCodeBogusComment, offset, fmt.Sprintf("bogus comment %q", abbreviate(raw)))
	case raw == "<!-->" || raw == "<!--->":
		c.report(ErrCodeAbruptComment, offset, "abruptly closed empty comment")
	case strings.HasSuffix(raw, "--!>"):
		c.report(ErrCodeIncorrectlyClosedComment, offset, "comment closed with --!>")
	case !strings.HasSuffix(raw, "-->"):
		c.report(ErrCodeEOFInComment, offset, "unexpected end of file in comment")
	}
}

func (c *checker) text(raw string, offset int) {
	if i := strings.IndexByte(raw, 0); i >= 0 {
		c.report(ErrCodeNullCharacter, offset+i, "unexpected NUL character")
	}
	if strings.TrimLeft(raw, " \t\n\f\r") == "" {
		return
	}
	c.significant(offset)

	if !strings.HasPrefix(raw, "<![CDATA[") {
		top, _ := c.top()
		rawText := !top.foreign && in(rawTextElements, top.name)
		if !rawText {
			c.lessThan(raw, offset)
		}
		if !rawText || in(escapableRawText, top.name) {
			c.characterReferences(raw, offset)
		}
	}

	if top, ok := c.top(); ok && (top.foreign || in(rawTextElements, top.name)) {
		return
	}
	if c.inTemplate() {
		return
	}
	if c.afterBody {
		c.report(ErrCodeContentAfterBody, offset, "unexpected text after the end of the body")
		c.afterBody = false
	}
	if top, ok := c.top(); ok && in(tableContext, top.name) {
		c.report(ErrCodeFosterParenting, offset, fmt.Sprintf("text %q is not allowed directly inside <%s>", abbreviate(strings.TrimSpace(raw)), top.name))
	}
	c.ensureBody()
}

// lessThan reports a "<" left in a text token: the tokenizer keeps it as text
// only when no tag name, end tag, comment or declaration follows.
func (c *checker) lessThan(raw string, offset int) {
	i := strings.IndexByte(raw, '<')
	if i < 0 {
		return
	}
	if offset+i == len(c.pos.input)-1 {
		c.report(ErrCodeEOFBeforeTagName, offset+i, "unexpected end of file after \"<\"")
		return
	}
	c.report(ErrCodeInvalidTagNameStart, offset+i, "\"<\" does not start a tag; write &lt; instead")
}

// characterReferences reports the first malformed character reference in a
// text run. A named reference is judged by what the decoder does with it: a
// legacy name decoded without its ";" is missing the semicolon, and a name
// followed by ";" that decodes to nothing is unknown.
func (c *checker) characterReferences(raw string, offset int) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '&' {
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '#' {
			j := i + 2
			hex := j < len(raw) && (raw[j] == 'x' || raw[j] == 'X')
			if hex {
				j++
			}
			digits := j
			for j < len(raw) && isDigit(raw[j], hex) {
				j++
			}
			switch {
			case j == digits:
				c.report(ErrCodeNumericReferenceDigits, offset+i, fmt.Sprintf("numeric character reference %q has no digits", raw[i:j]))
				return
			case j == len(raw) || raw[j] != ';':
				c.report(ErrCodeMissingSemicolon, offset+i, fmt.Sprintf("character reference %q is missing its semicolon", raw[i:j]))
				return
			}
			i = j
			continue
		}

		j := i + 1
		for j < len(raw) && isAlphanumeric(raw[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		ref := raw[i:j]
		if j < len(raw) && raw[j] == ';' {
			decoded := html.UnescapeString(ref + ";")
			switch {
			case decoded == ref+";":
				c.report(ErrCodeUnknownNamedReference, offset+i, fmt.Sprintf("unknown named character reference %q", ref+";"))
				return
			case utf8.RuneCountInString(decoded) > 2:
				// only a legacy prefix of the name decoded
				c.report(ErrCodeMissingSemicolon, offset+i, fmt.Sprintf("character reference %q is missing its semicolon", ref))
				return
			}
			i = j
			continue
		}
		if html.UnescapeString(ref) != ref {
			c.report(ErrCodeMissingSemicolon, offset+i, fmt.Sprintf("character reference %q is missing its semicolon", ref))
			return
		}
		i = j - 1
	}
}

func isDigit(b byte, hex bool) bool {
	if '0' <= b && b <= '9' {
		return true
	}
	return hex && ('a' <= b && b <= 'f' || 'A' <= b && b <= 'F')
}

func isAlphanumeric(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func (c *checker) startTag(tok html.Token, selfClosing bool, offset int) {
	name := tok.Data
	c.significant(offset)
	c.checkAttributes(tok, offset)

	if c.afterBody {
		c.report(ErrCodeContentAfterBody, offset, fmt.Sprintf("unexpected <%s> after the end of the body", name))
		c.afterBody = false
	}

	if c.inForeign() {
		if !selfClosing {
			c.push(name, true)
		}
		return
	}

	switch name {
	case "html":
		if len(c.stack) > 0 {
			c.report(ErrCodeUnexpectedStartTag, offset, "unexpected <html> start tag: the document element is already open")
			return
		}
		c.push("html", false)
		return
	case "head":
		if c.head != headNone || c.bodyStarted {
			c.report(ErrCodeUnexpectedStartTag, offset, "unexpected <head> start tag: the head was already started")
			return
		}
		c.ensureHTML()
		c.push("head", false)
		c.head = headOpen
		return
	case "body":
		if c.bodyStarted {
			c.report(ErrCodeUnexpectedStartTag, offset, "unexpected <body> start tag: the body was already started")
			return
		}
		c.ensureBody()
		return
	}

	if !c.inTemplate() {
		if top, ok := c.top(); ok && in(tableContext, top.name) && !in(tableContent, name) {
			c.report(ErrCodeFosterParenting, offset, fmt.Sprintf("<%s> is not allowed directly inside <%s>", name, top.name))
		}
	}

	switch {
	case c.inTemplate():
	case in(headContent, name):
		if !c.bodyStarted {
			switch c.head {
			case headNone:
				c.ensureHTML()
				c.push("head", false)
				c.head = headOpen
			case headClosed:
				c.report(ErrCodeUnexpectedStartTag, offset, fmt.Sprintf("unexpected <%s> between </head> and <body>", name))
			}
		}
	default:
		c.ensureBody()
		c.closeImplied(name, offset)
		if name == "a" {
			if i := c.inScope(formattingScope, "a"); i >= 0 {
				c.report(ErrCodeMisnestedTag, offset, "<a> start tag inside an open <a>")
				c.stack = append(c.stack[:i], c.stack[i+1:]...)
			}
		}
	}

	if selfClosing && !in(voidElements, name) && name != "svg" && name != "math" {
		c.report(ErrCodeNonVoidSelfClosing, offset, fmt.Sprintf("self-closing syntax on non-void element <%s>", name))
	}
	if name == "svg" || name == "math" {
		if !selfClosing {
			c.push(name, true)
		}
		return
	}
	if !in(voidElements, name) {
		c.push(name, false)
	}
}

func (c *checker) checkAttributes(tok html.Token, offset int) {
	seen := make(map[string]struct{}, len(tok.Attr))
	for _, attr := range tok.Attr {
		if strings.ContainsAny(attr.Key, "\"'<") {
			c.report(ErrCodeAttributeName, offset, fmt.Sprintf("unexpected character in attribute name %q of <%s>", attr.Key, tok.Data))
		}
		if _, dup := seen[attr.Key]; dup {
			c.report(ErrCodeDuplicateAttribute, offset, fmt.Sprintf("duplicate attribute %q on <%s>", attr.Key, tok.Data))
		}
		seen[attr.Key] = struct{}{}
	}
}

// closeImplied applies the start-tag rules that close open elements without
// an explicit end tag.
func (c *checker) closeImplied(name string, offset int) {
	switch name {
	case "li":
		c.closeListItem(name, offset, "li")
	case "dd", "dt":
		c.closeListItem(name, offset, "dd", "dt")
	case "option", "optgroup":
		if top, ok := c.top(); ok && top.name == "option" {
			c.pop()
		}
		return
	case "td", "th":
		if i := c.inScope(tableScope, "td", "th"); i >= 0 {
			c.closeThrough(i, "<"+name+">", impliedEndTags, offset)
		}
		return
	case "tr":
		if i := c.inScope(tableScope, "tr"); i >= 0 {
			c.closeThrough(i, "<"+name+">", impliedEndTags, offset)
		}
		return
	case "tbody", "thead", "tfoot":
		if i := c.inScope(tableScope, "tbody", "thead", "tfoot"); i >= 0 {
			c.closeThrough(i, "<"+name+">", impliedEndTags, offset)
		}
		return
	}

	if in(closesParagraph, name) {
		if i := c.inScope(buttonScope, "p"); i >= 0 {
			c.closeThrough(i, "<"+name+">", impliedEndTags, offset)
		}
	}
	if in(headings, name) {
		if top, ok := c.top(); ok && in(headings, top.name) {
			c.report(ErrCodeMisnestedTag, offset, fmt.Sprintf("<%s> nested inside <%s>", name, top.name))
			c.pop()
		}
	}
}

func (c *checker) closeListItem(name string, offset int, targets ...string) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		open := c.stack[i].name
		for _, target := range targets {
			if open == target {
				c.closeThrough(i, "<"+name+">", impliedEndTags, offset)
				return
			}
		}
		if in(special, open) && open != "address" && open != "div" && open != "p" {
			return
		}
	}
}

func (c *checker) endTag(tok html.Token, raw string, offset int) {
	name := tok.Data
	c.significant(offset)
	if endTagHasAttributes(raw) {
		c.report(ErrCodeEndTagWithAttributes, offset, fmt.Sprintf("end tag </%s> has attributes", name))
	}

	if c.inForeign() {
		c.closeNamed(name, impliedEndTags, offset)
		return
	}

	switch name {
	case "head":
		if top, ok := c.top(); ok && top.name == "head" {
			c.pop()
			c.head = headClosed
			return
		}
		c.report(ErrCodeUnexpectedEndTag, offset, "unexpected </head>: no open head element")
	case "body":
		if c.closeNamed("body", closableAtEnd, offset) {
			c.afterBody = true
		}
	case "html":
		if c.head == headOpen {
			c.closeHead()
		}
		if c.closeNamed("html", closableAtEnd, offset) {
			c.afterBody = true
		}
	default:
		c.closeNamed(name, impliedEndTags, offset)
	}
}

// endTagHasAttributes inspects the raw end tag; the tokenizer drops end tag
// attributes from the token.
func endTagHasAttributes(raw string) bool {
	s := strings.TrimSuffix(strings.TrimPrefix(raw, "</"), ">")
	i := strings.IndexAny(s, " \t\n\f\r/")
	if i < 0 {
		return false
	}
	return strings.Trim(s[i:], " \t\n\f\r/") != ""
}

// closeNamed closes the innermost open element called name, reporting any
// element it has to close implicitly that is not in allowed.
func (c *checker) closeNamed(name string, allowed map[string]struct{}, offset int) bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].name == name {
			c.closeThrough(i, "</"+name+">", allowed, offset)
			return true
		}
	}
	c.report(ErrCodeUnexpectedEndTag, offset, fmt.Sprintf("unexpected end tag </%s>: no matching open element", name))
	return false
}

// closeThrough pops the stack down to and including index i. closer names
// the tag responsible, for the diagnostic.
func (c *checker) closeThrough(i int, closer string, allowed map[string]struct{}, offset int) {
	for j := len(c.stack) - 1; j > i; j-- {
		if !in(allowed, c.stack[j].name) {
			c.report(ErrCodeMisnestedTag, offset, fmt.Sprintf("%s closes unclosed element <%s>", closer, c.stack[j].name))
			break
		}
	}
	c.stack = c.stack[:i]
}

func (c *checker) eof(consumed, total int) {
	if consumed < total {
		c.report(ErrCodeEOFInTag, consumed, "unexpected end of file inside a tag")
	}
	c.significant(total)

	for i := len(c.stack) - 1; i >= 0; i-- {
		if !in(closableAtEnd, c.stack[i].name) {
			c.report(ErrCodeEOFWithOpenElements, total, fmt.Sprintf("unexpected end of file: <%s> is not closed", c.stack[i].name))
			return
		}
	}
}

func (c *checker) ensureHTML() {
	if len(c.stack) == 0 {
		c.push("html", false)
	}
}

func (c *checker) ensureBody() {
	if c.bodyStarted {
		return
	}
	c.ensureHTML()
	c.closeHead()
	c.push("body", false)
	c.bodyStarted = true
}

func (c *checker) closeHead() {
	if c.head == headOpen {
		for i := len(c.stack) - 1; i >= 0; i-- {
			if c.stack[i].name == "head" {
				c.stack = c.stack[:i]
				break
			}
		}
	}
	c.head = headClosed
}

func (c *checker) push(name string, foreign bool) {
	c.stack = append(c.stack, openElement{name: name, foreign: foreign})
}

func (c *checker) pop() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *checker) top() (openElement, bool) {
	if len(c.stack) == 0 {
		return openElement{}, false
	}
	return c.stack[len(c.stack)-1], true
}

// inScope returns the stack index of the innermost element named in targets,
// or -1 when a boundary element is reached first.
func (c *checker) inScope(boundaries map[string]struct{}, targets ...string) int {
	for i := len(c.stack) - 1; i >= 0; i-- {
		name := c.stack[i].name
		for _, target := range targets {
			if name == target {
				return i
			}
		}
		if in(boundaries, name) {
			return -1
		}
	}
	return -1
}

func (c *checker) inForeign() bool {
	top, ok := c.top()
	return ok && top.foreign
}

func (c *checker) inTemplate() bool {
	for _, e := range c.stack {
		if e.name == "template" {
			return true
		}
	}
	return false
}

func abbreviate(s string) string {
	const limit = 32
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// positions converts byte offsets into 1-based line and column numbers.
type positions struct {
	input      string
	lineStarts []int
}

func newPositions(input string) positions {
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return positions{input: input, lineStarts: starts}
}

func (p positions) at(code ErrorCode, offset int, message string) ParseError {
	if offset > len(p.input) {
		offset = len(p.input)
	}
	line := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > offset }) - 1
	column := utf8.RuneCountInString(p.input[p.lineStarts[line]:offset]) + 1
	return ParseError{
		Code:    code,
		Message: message,
		Offset:  offset,
		Line:    line + 1,
		Column:  column,
	}
}
