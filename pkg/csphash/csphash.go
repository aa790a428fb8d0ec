// Package csphash computes Content-Security-Policy hash-source expressions for
// the inline <script> and <style> elements of an HTML document.
//
// A document that does not parse cleanly as a complete HTML document is
// rejected with a *DocumentStructureError instead of producing a hash set.
// Every function is pure and safe for concurrent use.
package csphash

import (
	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/internal/document"
	"github.com/rohmanhakim/csp-hasher/internal/metadata"
)

type (
	Algorithm              = digest.Algorithm
	HashExpression         = digest.HashExpression
	HashSet                = aggregator.HashSet
	DocumentStructureError = document.DocumentStructureError
	ParseError             = document.ParseError
)

const (
	SHA256 = digest.SHA256
	SHA384 = digest.SHA384
	SHA512 = digest.SHA512
)

// ErrUnknownAlgorithm is returned for an Algorithm outside SHA256, SHA384 and SHA512.
var ErrUnknownAlgorithm = digest.ErrUnknownAlgorithm

// ParseAlgorithm accepts "sha256", "sha384" or "sha512" in any case, with or
// without a hyphen.
func ParseAlgorithm(s string) (Algorithm, error) {
	return digest.ParseAlgorithm(s)
}

// FromHTMLDocument returns the set of hash expressions for every inline
// script and style element of html, or the first structural problem found.
// An invalid algo fails with ErrUnknownAlgorithm.
func FromHTMLDocument(html string, algo Algorithm) (HashSet, error) {
	agg := aggregator.NewAggregator(&metadata.NoopSink{})
	return agg.Aggregate(document.Parse(html), algo)
}

func FromHTMLDocumentSHA256(html string) (HashSet, error) {
	return FromHTMLDocument(html, SHA256)
}

func FromHTMLDocumentSHA384(html string) (HashSet, error) {
	return FromHTMLDocument(html, SHA384)
}

func FromHTMLDocumentSHA512(html string) (HashSet, error) {
	return FromHTMLDocument(html, SHA512)
}
