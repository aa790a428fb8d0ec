package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Select every inline <script> and <style> element of a parsed document
- Yield each element's inner content exactly as it appears in the source

Selection Rules
- Matches are found at any depth, in document order
- No attribute filtering: type="module", nonce, src and friends are ignored
- An empty element yields an empty string, never a skipped entry

Content of raw-text elements is taken from the parsed text node verbatim.
Selection.Html() is not used because html.Render escapes a lone text node.
*/

type InlineExtractor struct {
	selectors []string
}

// NewInlineExtractor returns an extractor for the given selectors, or for
// InlineSelectors when none are given.
func NewInlineExtractor(selectors ...string) InlineExtractor {
	if len(selectors) == 0 {
		selectors = InlineSelectors
	}
	return InlineExtractor{
		selectors: dedupeSelectors(selectors),
	}
}

// ExtractAll returns the elements matched by every selector, selector by
// selector, each group in document order.
func (e *InlineExtractor) ExtractAll(root *html.Node) []InlineElement {
	var all []InlineElement
	for _, selector := range e.selectors {
		all = append(all, Extract(root, selector)...)
	}
	return all
}

// Extract returns the elements under root matched by selector, in document order.
func Extract(root *html.Node, selector string) []InlineElement {
	if root == nil {
		return nil
	}

	doc := goquery.NewDocumentFromNode(root)
	selection := doc.Find(selector)

	elements := make([]InlineElement, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		elements = append(elements, InlineElement{
			Tag:     strings.ToLower(node.Data),
			Content: innerContent(node),
		})
	})
	return elements
}

// innerContent concatenates the children of n. Text children are written
// verbatim; element children (only possible for foreign script/style) are
// serialized with html.Render.
func innerContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			continue
		}
		// Render only fails on writer errors; strings.Builder never returns one.
		_ = html.Render(&b, c)
	}
	return b.String()
}
