package digest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rohmanhakim/csp-hasher/pkg/hashutil"
)

// Algorithm selects the hash function of a CSP hash-source expression.
// The zero value is not a valid algorithm.
type Algorithm uint8

const (
	SHA256 Algorithm = iota + 1
	SHA384
	SHA512
)

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithms returns every supported algorithm, weakest first.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, SHA384, SHA512}
}

// ParseAlgorithm accepts the CSP token ("sha256") or the hyphenated
// spelling ("SHA-256"), case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	token := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	for _, a := range Algorithms() {
		if a.String() == token {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want sha256, sha384 or sha512)", ErrUnknownAlgorithm, s)
}

// String returns the CSP algorithm token.
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

func (a Algorithm) Valid() bool {
	return a >= SHA256 && a <= SHA512
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Algorithm) hashAlgo() hashutil.HashAlgo {
	switch a {
	case SHA256:
		return hashutil.HashAlgoSHA256
	case SHA384:
		return hashutil.HashAlgoSHA384
	case SHA512:
		return hashutil.HashAlgoSHA512
	default:
		return ""
	}
}
