package document

import (
	"fmt"

	"github.com/rohmanhakim/csp-hasher/internal/metadata"
	"github.com/rohmanhakim/csp-hasher/pkg/failure"
)

// ErrorCode identifies the kind of structural problem a ParseError reports.
type ErrorCode string

const (
	ErrCodeMissingDoctype           ErrorCode = "missing-doctype"
	ErrCodeNonConformingDoctype     ErrorCode = "non-conforming-doctype"
	ErrCodeUnexpectedDoctype        ErrorCode = "unexpected-doctype"
	ErrCodeAttributeName            ErrorCode = "unexpected-character-in-attribute-name"
	ErrCodeDuplicateAttribute       ErrorCode = "duplicate-attribute"
	ErrCodeEndTagWithAttributes     ErrorCode = "end-tag-with-attributes"
	ErrCodeNonVoidSelfClosing       ErrorCode = "non-void-html-element-start-tag-with-trailing-solidus"
	ErrCodeUnexpectedStartTag       ErrorCode = "unexpected-start-tag"
	ErrCodeUnexpectedEndTag         ErrorCode = "unexpected-end-tag"
	ErrCodeMisnestedTag             ErrorCode = "misnested-tag"
	ErrCodeContentAfterBody         ErrorCode = "content-after-body"
	ErrCodeBogusComment             ErrorCode = "bogus-comment"
	ErrCodeAbruptComment            ErrorCode = "abrupt-closing-of-empty-comment"
	ErrCodeIncorrectlyClosedComment ErrorCode = "incorrectly-closed-comment"
	ErrCodeEOFInComment             ErrorCode = "eof-in-comment"
	ErrCodeEOFInTag                 ErrorCode = "eof-in-tag"
	ErrCodeEOFWithOpenElements      ErrorCode = "eof-with-open-elements"
	ErrCodeNullCharacter            ErrorCode = "unexpected-null-character"
	ErrCodeFosterParenting          ErrorCode = "foster-parented-content"
	ErrCodeInvalidTagNameStart      ErrorCode = "invalid-first-character-of-tag-name"
	ErrCodeEOFBeforeTagName         ErrorCode = "eof-before-tag-name"
	ErrCodeMissingSemicolon         ErrorCode = "missing-semicolon-after-character-reference"
	ErrCodeUnknownNamedReference    ErrorCode = "unknown-named-character-reference"
	ErrCodeNumericReferenceDigits   ErrorCode = "absence-of-digits-in-numeric-character-reference"
	ErrCodeTreeConstruction         ErrorCode = "tree-construction-failure"
)

// ParseError is a single structural diagnostic. Offset is a byte offset into
// the input; Line and Column are 1-based, Column counted in runes.
type ParseError struct {
	Code    ErrorCode
	Message string
	Offset  int
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// DocumentStructureError reports that the input cannot be trusted to produce
// a hash set. It carries the first diagnostic recorded by the parser.
type DocumentStructureError struct {
	Message    string
	Retryable  bool
	Cause      ErrorCode
	Diagnostic ParseError
}

func NewDocumentStructureError(diagnostic ParseError) *DocumentStructureError {
	return &DocumentStructureError{
		Message:    diagnostic.Error(),
		Retryable:  false,
		Cause:      diagnostic.Code,
		Diagnostic: diagnostic,
	}
}

func (e *DocumentStructureError) Error() string {
	return fmt.Sprintf("document structure error: %s", e.Message)
}

func (e *DocumentStructureError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// MapDocumentErrorToMetadataCause maps document-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func MapDocumentErrorToMetadataCause(err *DocumentStructureError) metadata.ErrorCause {
	if err == nil {
		return metadata.CauseUnknown
	}
	switch err.Cause {
	case ErrCodeTreeConstruction:
		return metadata.CauseUnknown
	default:
		return metadata.CauseContentInvalid
	}
}
