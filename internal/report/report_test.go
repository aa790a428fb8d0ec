package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/config"
	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/internal/report"
	"github.com/rohmanhakim/csp-hasher/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func succeeded(source string, scripts, styles []digest.HashExpression) scheduler.DocumentResult {
	byElement := map[string]aggregator.HashSet{
		"script": aggregator.NewHashSet(scripts...),
		"style":  aggregator.NewHashSet(styles...),
	}
	return scheduler.DocumentResult{
		Source:      source,
		Fingerprint: "fp-" + source,
		Algorithms:  []digest.Algorithm{digest.SHA256},
		Hashes:      byElement["script"].Union(byElement["style"]),
		ByElement:   byElement,
	}
}

func failed(source string) scheduler.DocumentResult {
	return scheduler.DocumentResult{
		Source:     source,
		Algorithms: []digest.Algorithm{digest.SHA256},
		Err:        errors.New(source + ": missing DOCTYPE"),
	}
}

func TestRender_List(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{
		succeeded("b.html", []digest.HashExpression{"sha256-b", "sha256-shared"}, nil),
		failed("broken.html"),
		succeeded("a.html", []digest.HashExpression{"sha256-shared"}, []digest.HashExpression{"sha256-a"}),
	}}
	var buf bytes.Buffer

	err := report.Render(&buf, config.FormatList, execution)

	require.NoError(t, err)
	assert.Equal(t, "sha256-a\nsha256-b\nsha256-shared\n", buf.String())
}

func TestRender_ListEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := report.Render(&buf, config.FormatList, scheduler.Execution{})

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestRender_DirectiveSingleDocument(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{
		succeeded("index.html",
			[]digest.HashExpression{"sha256-y", "sha256-x"},
			[]digest.HashExpression{"sha256-s"}),
	}}
	var buf bytes.Buffer

	err := report.Render(&buf, config.FormatDirective, execution)

	require.NoError(t, err)
	assert.Equal(t, "script-src 'sha256-x' 'sha256-y'; style-src 'sha256-s'\n", buf.String())
}

func TestRender_DirectiveMultipleDocuments(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{
		succeeded("a.html", []digest.HashExpression{"sha256-x"}, nil),
		failed("broken.html"),
		succeeded("b.html", nil, []digest.HashExpression{"sha256-s"}),
	}}
	var buf bytes.Buffer

	err := report.Render(&buf, config.FormatDirective, execution)

	require.NoError(t, err)
	assert.Equal(t,
		"# a.html\nscript-src 'sha256-x'\n\n# b.html\nstyle-src 'sha256-s'\n",
		buf.String())
}

func TestRender_JSON(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{
		succeeded("index.html", []digest.HashExpression{"sha256-x"}, []digest.HashExpression{"sha256-s"}),
		failed("broken.html"),
	}}
	var buf bytes.Buffer

	err := report.Render(&buf, config.FormatJSON, execution)
	require.NoError(t, err)

	var manifest report.Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &manifest))
	require.Len(t, manifest.Documents, 2)

	ok := manifest.Documents[0]
	assert.Equal(t, "index.html", ok.Source)
	assert.Equal(t, "fp-index.html", ok.Fingerprint)
	assert.Equal(t, []string{"sha256"}, ok.Algorithms)
	assert.Equal(t, []string{"sha256-s", "sha256-x"}, ok.Hashes.Strings())
	assert.Equal(t, []string{"sha256-x"}, ok.Directives["script-src"].Strings())
	assert.Equal(t, []string{"sha256-s"}, ok.Directives["style-src"].Strings())
	assert.Empty(t, ok.Error)

	bad := manifest.Documents[1]
	assert.Equal(t, "broken.html", bad.Source)
	assert.Equal(t, "broken.html: missing DOCTYPE", bad.Error)
	assert.Equal(t, 0, bad.Hashes.Len())
	assert.Empty(t, bad.Directives)
}

func TestRender_JSONFailedEntryHasEmptyHashes(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{failed("broken.html")}}
	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, config.FormatJSON, execution))

	assert.Contains(t, buf.String(), `"hashes": []`)
	assert.NotContains(t, buf.String(), `"fingerprint"`)
	assert.NotContains(t, buf.String(), `"directives"`)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := report.Render(&bytes.Buffer{}, config.OutputFormat("yaml"), scheduler.Execution{})

	assert.Error(t, err)
}

func TestNewManifest_PreservesOrder(t *testing.T) {
	execution := scheduler.Execution{Results: []scheduler.DocumentResult{
		failed("c.html"),
		succeeded("a.html", nil, nil),
		succeeded("b.html", nil, nil),
	}}

	manifest := report.NewManifest(execution)

	require.Len(t, manifest.Documents, 3)
	assert.Equal(t, "c.html", manifest.Documents[0].Source)
	assert.Equal(t, "a.html", manifest.Documents[1].Source)
	assert.Equal(t, "b.html", manifest.Documents[2].Source)
}
