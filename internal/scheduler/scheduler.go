package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/config"
	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/internal/document"
	"github.com/rohmanhakim/csp-hasher/internal/extractor"
	"github.com/rohmanhakim/csp-hasher/internal/metadata"
	"github.com/rohmanhakim/csp-hasher/pkg/fileutil"
	"github.com/rohmanhakim/csp-hasher/pkg/hashutil"
	"golang.org/x/sync/errgroup"
)

/*
 Scheduler runs the hashing pipeline over every configured source.

 - Sources are processed concurrently, at most cfg.Concurrency() at a time.
 - Results are returned in source order regardless of completion order.
 - A document that cannot be read or parsed yields a failed DocumentResult;
   it never stops the other documents.
 - Only context cancellation aborts the run.

 Metadata emission is observational only and MUST NOT influence
 scheduling or the result of any document.
*/

type Scheduler struct {
	metadataSink metadata.MetadataSink
	aggregator   aggregator.Aggregator
	extractor    extractor.InlineExtractor
	stdin        io.Reader
}

func NewScheduler(metadataSink metadata.MetadataSink, stdin io.Reader) Scheduler {
	return Scheduler{
		metadataSink: metadataSink,
		aggregator:   aggregator.NewAggregator(metadataSink),
		extractor:    extractor.NewInlineExtractor(),
		stdin:        stdin,
	}
}

func readFile(path string) ([]byte, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Execute hashes every source of cfg. The returned error is non-nil only when
// ctx is cancelled before all documents complete.
func (s *Scheduler) Execute(ctx context.Context, cfg config.Config) (Execution, error) {
	sources := cfg.Sources()
	results := make([]DocumentResult, len(sources))

	stdinData, stdinErr := s.readStdinOnce(sources)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency())
	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var data []byte
			var err error
			if source == StdinSource {
				data, err = stdinData, stdinErr
			} else {
				data, err = readFile(source)
			}
			results[i] = s.process(source, data, err, cfg.Algorithms())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Execution{Results: results}, err
	}
	return Execution{Results: results}, nil
}

func (s *Scheduler) readStdinOnce(sources []string) ([]byte, error) {
	for _, source := range sources {
		if source != StdinSource {
			continue
		}
		if s.stdin == nil {
			return nil, errors.New("standard input is not available")
		}
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

func (s *Scheduler) process(
	source string,
	data []byte,
	readErr error,
	algos []digest.Algorithm,
) DocumentResult {
	start := time.Now()
	result := DocumentResult{
		Source:     source,
		Algorithms: algos,
	}

	if readErr != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"Scheduler.Execute",
			metadata.CauseStorageFailure,
			readErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrSource, source),
			},
		)
		result.Err = readErr
		result.Duration = time.Since(start)
		return result
	}

	fingerprint, err := hashutil.HashBytes(data, hashutil.HashAlgoBLAKE3)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"Scheduler.Execute",
			metadata.CauseUnknown,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrSource, source),
			},
		)
		result.Err = fmt.Errorf("%s: fingerprint: %w", source, err)
		result.Duration = time.Since(start)
		return result
	}
	result.Fingerprint = fingerprint

	parsed := document.Parse(string(data))
	hashes := aggregator.HashSet{}
	byElement := map[string]aggregator.HashSet{}
	for _, algo := range algos {
		sets, err := s.aggregator.AggregateByElement(parsed, algo)
		if err != nil {
			result.Err = fmt.Errorf("%s: %w", source, err)
			result.Duration = time.Since(start)
			return result
		}
		for name, set := range sets {
			if existing, ok := byElement[name]; ok {
				set = existing.Union(set)
			}
			byElement[name] = set
			hashes = hashes.Union(set)
		}
	}

	result.Hashes = hashes
	result.ByElement = byElement
	result.Duration = time.Since(start)
	s.metadataSink.RecordDocument(
		source,
		joinAlgorithms(algos),
		len(s.extractor.ExtractAll(parsed.Root)),
		hashes.Len(),
		result.Duration,
	)
	return result
}

func joinAlgorithms(algos []digest.Algorithm) string {
	names := make([]string, len(algos))
	for i, a := range algos {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}
