package policy

import (
	"sort"
	"strings"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
)

/*
Responsibilities
- Render hash sets as Content-Security-Policy directives

Sending or merging headers is left to the application serving the document.
*/

const (
	ScriptSrc = "script-src"
	StyleSrc  = "style-src"
)

// directiveForElement maps an inline element name to the directive governing it.
//
//nolint:gochecknoglobals // static lookup table
var directiveForElement = map[string]string{
	"script": ScriptSrc,
	"style":  StyleSrc,
}

// directiveOrder fixes the order directives appear in a header.
//
//nolint:gochecknoglobals // static lookup table
var directiveOrder = []string{ScriptSrc, StyleSrc}

// Directive renders name followed by the quoted, sorted members of set.
// An empty set renders the directive name alone.
func Directive(name string, set aggregator.HashSet) string {
	var b strings.Builder
	b.WriteString(name)
	for _, expr := range set.Sorted() {
		b.WriteByte(' ')
		b.WriteString(expr.Quoted())
	}
	return b.String()
}

// Header joins the directives of sets with "; ". script-src and style-src
// come first; any other directive follows in lexical order. Empty sets are
// omitted.
func Header(sets map[string]aggregator.HashSet) string {
	var directives []string
	seen := make(map[string]bool, len(sets))
	for _, name := range directiveOrder {
		seen[name] = true
		if set, ok := sets[name]; ok && set.Len() > 0 {
			directives = append(directives, Directive(name, set))
		}
	}

	var rest []string
	for name, set := range sets {
		if !seen[name] && set.Len() > 0 {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		directives = append(directives, Directive(name, sets[name]))
	}
	return strings.Join(directives, "; ")
}

// ByDirective re-keys per-element sets (as returned by
// Aggregator.AggregateByElement) by directive name, merging elements that
// share a directive.
func ByDirective(byElement map[string]aggregator.HashSet) map[string]aggregator.HashSet {
	out := make(map[string]aggregator.HashSet, len(byElement))
	for element, set := range byElement {
		name, ok := directiveForElement[element]
		if !ok {
			continue
		}
		if existing, ok := out[name]; ok {
			set = existing.Union(set)
		}
		out[name] = set
	}
	return out
}
