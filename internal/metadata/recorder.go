package metadata

import (
	"context"
	"log/slog"
	"time"
)

/*
Metadata Collected
- Document sources and fingerprints
- Inline element and hash counts
- Structural diagnostics
- Written report paths

Metadata is write-only.
No component may read metadata to influence hashing decisions.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordDocument(
		source string,
		algorithm string,
		inlineElements int,
		hashes int,
		duration time.Duration,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

/*
Recorder emits structured events through a slog.Logger.
It must not:
- perform I/O decisions
- affect control flow
Events are recorded synchronously in the order they are received by a single
goroutine; no global ordering across goroutines is guaranteed.
*/
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder returns a Recorder writing to logger, or to slog.Default() when logger is nil.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	args := []slog.Attr{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("details", details),
	}
	args = append(args, toSlogAttrs(attrs)...)
	r.logger.LogAttrs(context.Background(), slog.LevelError, "operation failed", args...)
}

func (r *Recorder) RecordDocument(
	source string,
	algorithm string,
	inlineElements int,
	hashes int,
	duration time.Duration,
) {
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, "document hashed",
		slog.String(string(AttrSource), source),
		slog.String(string(AttrAlgorithm), algorithm),
		slog.Int("inline_elements", inlineElements),
		slog.Int("hashes", hashes),
		slog.Duration("duration", duration),
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	args := []slog.Attr{
		slog.String("kind", string(kind)),
		slog.String("path", path),
	}
	args = append(args, toSlogAttrs(attrs)...)
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, "artifact written", args...)
}

func toSlogAttrs(attrs []Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.String(string(a.Key), a.Value))
	}
	return out
}

// NoopSink implements MetadataSink but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink,
// which keeps metadata orthogonal to the pipeline.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordDocument(
	source string,
	algorithm string,
	inlineElements int,
	hashes int,
	duration time.Duration,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

var (
	_ MetadataSink = (*Recorder)(nil)
	_ MetadataSink = (*NoopSink)(nil)
)
