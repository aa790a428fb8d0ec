package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.

# CauseContentInvalid

Meaning:
  - A document was read but cannot be trusted to produce a hash set.

Examples:
  - Missing DOCTYPE
  - Unterminated or misnested tags

# CauseStorageFailure

Meaning:
  - Failure while reading inputs or persisting reports.

Examples:
  - Missing input file
  - Write permission errors

# CauseConfigInvalid

Meaning:
  - The run was configured with values that cannot be honored.

Examples:
  - Unknown digest algorithm
  - Unknown output format
*/
const (
	CauseUnknown ErrorCause = iota
	CauseContentInvalid
	CauseStorageFailure
	CauseConfigInvalid
)

func (c ErrorCause) String() string {
	switch c {
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrSource      AttributeKey = "source"
	AttrAlgorithm   AttributeKey = "algorithm"
	AttrFingerprint AttributeKey = "fingerprint"
	AttrLine        AttributeKey = "line"
	AttrColumn      AttributeKey = "column"
	AttrWritePath   AttributeKey = "write_path"
)

type ArtifactKind string

const (
	ArtifactReport ArtifactKind = "report"
)
