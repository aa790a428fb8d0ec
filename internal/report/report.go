package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/config"
	"github.com/rohmanhakim/csp-hasher/internal/policy"
	"github.com/rohmanhakim/csp-hasher/internal/scheduler"
)

/*
Responsibilities
- Render an execution in the configured output format

Formats
- list: the union of every document's expressions, one per line, sorted
- directive: a Content-Security-Policy value per document
- json: a manifest with one entry per document, failures included

Failed documents appear only in the json manifest; callers report them
separately for the other formats.
*/

// Manifest is the json report.
type Manifest struct {
	Documents []ManifestEntry `json:"documents"`
}

type ManifestEntry struct {
	Source      string                        `json:"source"`
	Fingerprint string                        `json:"fingerprint,omitempty"`
	Algorithms  []string                      `json:"algorithms"`
	Hashes      aggregator.HashSet            `json:"hashes"`
	Directives  map[string]aggregator.HashSet `json:"directives,omitempty"`
	Error       string                        `json:"error,omitempty"`
}

// Render writes execution to w in format.
func Render(w io.Writer, format config.OutputFormat, execution scheduler.Execution) error {
	switch format {
	case config.FormatList:
		return renderList(w, execution)
	case config.FormatDirective:
		return renderDirective(w, execution)
	case config.FormatJSON:
		return renderJSON(w, execution)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderList(w io.Writer, execution scheduler.Execution) error {
	all := aggregator.NewHashSet()
	for _, r := range execution.Results {
		if !r.Failed() {
			all = all.Union(r.Hashes)
		}
	}
	for _, expr := range all.Sorted() {
		if _, err := fmt.Fprintln(w, expr); err != nil {
			return err
		}
	}
	return nil
}

func renderDirective(w io.Writer, execution scheduler.Execution) error {
	var succeeded []scheduler.DocumentResult
	for _, r := range execution.Results {
		if !r.Failed() {
			succeeded = append(succeeded, r)
		}
	}

	var b strings.Builder
	for i, r := range succeeded {
		if len(execution.Results) > 1 {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "# %s\n", r.Source)
		}
		b.WriteString(policy.Header(policy.ByDirective(r.ByElement)))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, execution scheduler.Execution) error {
	manifest := NewManifest(execution)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(manifest)
}

// NewManifest converts execution into its json representation.
func NewManifest(execution scheduler.Execution) Manifest {
	manifest := Manifest{
		Documents: make([]ManifestEntry, 0, len(execution.Results)),
	}
	for _, r := range execution.Results {
		entry := ManifestEntry{
			Source:      r.Source,
			Fingerprint: r.Fingerprint,
			Algorithms:  make([]string, 0, len(r.Algorithms)),
		}
		for _, a := range r.Algorithms {
			entry.Algorithms = append(entry.Algorithms, a.String())
		}
		if r.Failed() {
			entry.Error = r.Err.Error()
		} else {
			entry.Hashes = r.Hashes
			entry.Directives = policy.ByDirective(r.ByElement)
		}
		manifest.Documents = append(manifest.Documents, entry)
	}
	return manifest
}
