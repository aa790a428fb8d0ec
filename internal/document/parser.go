/*
Responsibilities
- Parse input text as a full HTML document
- Record structural diagnostics the tree builder recovers from silently

golang.org/x/net/html always recovers a tree and never reports tree-construction
errors, so Parse pairs html.Parse with a checker that replays the token stream
against the document structure rules (see checker.go).

Parse never fails and never panics: a tree is always returned.
*/
package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Parse parses input as a complete HTML document.
func Parse(input string) ParseResult {
	diagnostics := check(input)

	root, err := html.Parse(strings.NewReader(input))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
		diagnostics = append(diagnostics, newPositions(input).at(
			ErrCodeTreeConstruction,
			len(input),
			"tree construction failed: "+err.Error(),
		))
	}

	return ParseResult{
		Root:   root,
		Errors: diagnostics,
	}
}
