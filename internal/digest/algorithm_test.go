package digest_test

import (
	"encoding/json"
	"testing"

	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  digest.Algorithm
	}{
		{"sha256", digest.SHA256},
		{"SHA256", digest.SHA256},
		{"sha-256", digest.SHA256},
		{"SHA-384", digest.SHA384},
		{" sha512 ", digest.SHA512},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := digest.ParseAlgorithm(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAlgorithm_Unknown(t *testing.T) {
	for _, input := range []string{"", "md5", "sha1", "blake3", "sha-224"} {
		t.Run(input, func(t *testing.T) {
			_, err := digest.ParseAlgorithm(input)
			assert.ErrorIs(t, err, digest.ErrUnknownAlgorithm)
		})
	}
}

func TestAlgorithm_String(t *testing.T) {
	assert.Equal(t, "sha256", digest.SHA256.String())
	assert.Equal(t, "sha384", digest.SHA384.String())
	assert.Equal(t, "sha512", digest.SHA512.String())
	assert.Equal(t, "Algorithm(0)", digest.Algorithm(0).String())
}

func TestAlgorithm_Valid(t *testing.T) {
	for _, a := range digest.Algorithms() {
		assert.True(t, a.Valid(), a.String())
	}
	assert.False(t, digest.Algorithm(0).Valid())
	assert.False(t, digest.Algorithm(9).Valid())
}

func TestAlgorithm_TextRoundTrip(t *testing.T) {
	var decoded struct {
		Algorithms []digest.Algorithm `json:"algorithms"`
	}
	err := json.Unmarshal([]byte(`{"algorithms":["SHA-256","sha512"]}`), &decoded)
	require.NoError(t, err)
	assert.Equal(t, []digest.Algorithm{digest.SHA256, digest.SHA512}, decoded.Algorithms)

	encoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"algorithms":["sha256","sha512"]}`, string(encoded))

	_, err = json.Marshal(digest.Algorithm(0))
	assert.Error(t, err)
}
