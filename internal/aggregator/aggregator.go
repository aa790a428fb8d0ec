package aggregator

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/internal/document"
	"github.com/rohmanhakim/csp-hasher/internal/extractor"
	"github.com/rohmanhakim/csp-hasher/internal/metadata"
)

/*
Responsibilities
- Refuse to hash any document that recorded a structural diagnostic
- Extract every inline element, script selector first, then style
- Encode each content string and collapse duplicates into one set

Failure Policy
- The first diagnostic is returned as *document.DocumentStructureError
- An unsupported algorithm is rejected with digest.ErrUnknownAlgorithm before parsing results are read
- A failed call never returns a partial set

Aggregator holds no per-call state and is safe for concurrent use.
*/

type Aggregator struct {
	metadataSink metadata.MetadataSink
	extractor    extractor.InlineExtractor
}

func NewAggregator(metadataSink metadata.MetadataSink) Aggregator {
	return Aggregator{
		metadataSink: metadataSink,
		extractor:    extractor.NewInlineExtractor(),
	}
}

// Aggregate returns the hash expressions of every inline element of result.
func (a *Aggregator) Aggregate(result document.ParseResult, algo digest.Algorithm) (HashSet, error) {
	elements, err := a.elements(result, algo, "Aggregator.Aggregate")
	if err != nil {
		return nil, err
	}

	set := make(HashSet, len(elements))
	for _, e := range elements {
		set.Add(digest.Encode(e.Content, algo))
	}
	return set, nil
}

// AggregateByElement is Aggregate keyed by element name ("script", "style").
// Every inline selector has an entry, empty when nothing matched.
func (a *Aggregator) AggregateByElement(result document.ParseResult, algo digest.Algorithm) (map[string]HashSet, error) {
	elements, err := a.elements(result, algo, "Aggregator.AggregateByElement")
	if err != nil {
		return nil, err
	}

	sets := make(map[string]HashSet, len(extractor.InlineSelectors))
	for _, selector := range extractor.InlineSelectors {
		sets[selector] = HashSet{}
	}
	for _, e := range elements {
		set, ok := sets[e.Tag]
		if !ok {
			set = HashSet{}
			sets[e.Tag] = set
		}
		set.Add(digest.Encode(e.Content, algo))
	}
	return sets, nil
}

func (a *Aggregator) elements(
	result document.ParseResult,
	algo digest.Algorithm,
	action string,
) ([]extractor.InlineElement, error) {
	if !algo.Valid() {
		err := fmt.Errorf("%w: %d", digest.ErrUnknownAlgorithm, uint8(algo))
		a.metadataSink.RecordError(
			time.Now(),
			"aggregator",
			action,
			metadata.CauseConfigInvalid,
			err.Error(),
			nil,
		)
		return nil, err
	}
	if err := result.Err(); err != nil {
		var structureErr *document.DocumentStructureError
		errors.As(err, &structureErr)
		a.metadataSink.RecordError(
			time.Now(),
			"aggregator",
			action,
			document.MapDocumentErrorToMetadataCause(structureErr),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrAlgorithm, algo.String()),
				metadata.NewAttr(metadata.AttrLine, strconv.Itoa(structureErr.Diagnostic.Line)),
				metadata.NewAttr(metadata.AttrColumn, strconv.Itoa(structureErr.Diagnostic.Column)),
			},
		)
		return nil, err
	}
	return a.extractor.ExtractAll(result.Root), nil
}
