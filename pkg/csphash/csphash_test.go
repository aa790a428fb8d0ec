package csphash_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rohmanhakim/csp-hasher/pkg/csphash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTMLDocument_TitleOnly(t *testing.T) {
	for _, algo := range []csphash.Algorithm{csphash.SHA256, csphash.SHA384, csphash.SHA512} {
		t.Run(algo.String(), func(t *testing.T) {
			set, err := csphash.FromHTMLDocument(loadFixture(t, "title_only.html"), algo)

			require.NoError(t, err)
			assert.Equal(t, 0, set.Len())
		})
	}
}

func TestFromHTMLDocumentSHA256_ScriptsInHeadAndBody(t *testing.T) {
	set, err := csphash.FromHTMLDocumentSHA256(loadFixture(t, "scripts_head_body.html"))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"sha256-3oUpClVK/cNQB5x9TStM+xLiHETuIGGp2vGZRQdvHX0=",
		"sha256-vjwjwnBndhWG+ZN6vpRKSmbicObZIQarx7RgSb3DmA8=",
	}, set.Strings())
}

func TestFromHTMLDocumentSHA384_ScriptsInHeadAndBody(t *testing.T) {
	set, err := csphash.FromHTMLDocumentSHA384(loadFixture(t, "scripts_head_body.html"))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"sha384-8wiu0e3/t6a55K7REGqooaRsccJwaR4CH2UgjuPia5OjmnWavbRbuAk4NL+WJ07o",
		"sha384-DSCsjoY4lRFgW2ltWTCEhMG+WSglTblYcvUcCd/X4ua88hLymWLjdMdNAEXJF1R9",
	}, set.Strings())
}

func TestFromHTMLDocument_SingleStyle(t *testing.T) {
	tests := []struct {
		algo csphash.Algorithm
		want string
	}{
		{csphash.SHA256, "sha256-4+QNL+2odf47+35bV9by29lQ0daJMNTQRSLy7iRe3uI="},
		{csphash.SHA384, "sha384-q+dup7GU5E/f0Nb7a1Xj1WIe0Yhtb8iQInMzw5FsuSlkFlHlChWN+ilLp31g0KcO"},
		{csphash.SHA512, "sha512-lA20ljhGIJnrixItSdCCwVAevb36sandZl+ZxeZy/3uYnpf1muzLWuZhh5xpFb4m+4X37ky63z/1pM9X2L3ppw=="},
	}

	for _, tt := range tests {
		t.Run(tt.algo.String(), func(t *testing.T) {
			set, err := csphash.FromHTMLDocument(loadFixture(t, "single_style.html"), tt.algo)

			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, set.Strings())
		})
	}
}

func TestFromHTMLDocumentSHA256_StylesAndScripts(t *testing.T) {
	set, err := csphash.FromHTMLDocumentSHA256(loadFixture(t, "styles_and_scripts.html"))

	require.NoError(t, err)
	assert.Equal(t, 4, set.Len())
	for _, want := range []csphash.HashExpression{
		"sha256-4+QNL+2odf47+35bV9by29lQ0daJMNTQRSLy7iRe3uI=",
		"sha256-3oUpClVK/cNQB5x9TStM+xLiHETuIGGp2vGZRQdvHX0=",
		"sha256-vjwjwnBndhWG+ZN6vpRKSmbicObZIQarx7RgSb3DmA8=",
		"sha256-n1Yam9K1WJihP5yKcNNfCE/P1LaxJQmuUucwWsXrHWg=",
	} {
		assert.True(t, set.Contains(want), "missing %s", want)
	}
}

func TestFromHTMLDocument_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
	}{
		{"malformed head tag", "malformed_head_tag.html"},
		{"body fragment", "body_fragment.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := csphash.FromHTMLDocumentSHA256(loadFixture(t, tt.fixture))

			require.Error(t, err)
			assert.Nil(t, set)

			var structureErr *csphash.DocumentStructureError
			require.True(t, errors.As(err, &structureErr))
			assert.NotEmpty(t, structureErr.Message)
			assert.Positive(t, structureErr.Diagnostic.Line)
		})
	}
}

func TestFromHTMLDocument_EmptyElements(t *testing.T) {
	set, err := csphash.FromHTMLDocumentSHA512(`<!doctype html><head><script></script><style></style></head>`)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"sha512-z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg/SpIdNs6c5H0NE8XYXysP+DGNKHfuwvY7kxvUdBeoGlODJ6+SfaPg==",
	}, set.Strings())
}

func TestFromHTMLDocument_ConcurrentCalls(t *testing.T) {
	input := loadFixture(t, "styles_and_scripts.html")
	want, err := csphash.FromHTMLDocumentSHA256(input)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]csphash.HashSet, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = csphash.FromHTMLDocumentSHA256(input)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, want.Equal(got))
	}
}

func TestParseAlgorithm(t *testing.T) {
	algo, err := csphash.ParseAlgorithm("SHA-384")
	require.NoError(t, err)
	assert.Equal(t, csphash.SHA384, algo)

	_, err = csphash.ParseAlgorithm("md5")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "md5"))
}

func TestFromHTMLDocument_UnknownAlgorithm(t *testing.T) {
	var set csphash.HashSet
	var err error
	require.NotPanics(t, func() {
		set, err = csphash.FromHTMLDocument("<!doctype html><script>x()</script>", csphash.Algorithm(0))
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, csphash.ErrUnknownAlgorithm))
	assert.Nil(t, set)
}
