package extractor

// InlineElement is a matched <script> or <style> element.
// Tag is the lower-cased element name; Content is its raw inner content.
type InlineElement struct {
	Tag     string
	Content string
}
