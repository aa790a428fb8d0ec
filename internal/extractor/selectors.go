package extractor

// InlineSelectors lists the element selectors whose inline content is hashed,
// in the order the aggregator visits them.
//
//nolint:gochecknoglobals // This is a static lookup table that must be global
var InlineSelectors = []string{
	"script",
	"style",
}

// dedupeSelectors drops repeated selectors while preserving order, so that an
// element matched twice is extracted once.
func dedupeSelectors(selectors []string) []string {
	seen := make(map[string]bool, len(selectors))
	var out []string
	for _, selector := range selectors {
		if !seen[selector] {
			seen[selector] = true
			out = append(out, selector)
		}
	}
	return out
}
