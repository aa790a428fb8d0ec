package scheduler_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/metadata"
)

// recordingSink is a test double that captures document and error events
type recordingSink struct {
	metadata.NoopSink
	mu        sync.Mutex
	documents []string
	errors    []metadata.ErrorCause
}

func (r *recordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, cause)
}

func (r *recordingSink) RecordDocument(
	source string,
	algorithm string,
	inlineElements int,
	hashes int,
	duration time.Duration,
) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, source)
}

// writeDocument writes content to a file under dir and returns its path.
func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const validDocument = `<!doctype html><html><head><script>console.log("in head")</script>` +
	`<style> a { color: red } </style></head><body><script>console.log("in body")</script></body></html>`

const fragmentDocument = `<body><script>console.log("in body")</script></body>`
