/*
Responsibilities
- Hash the raw bytes of inline content
- Render the digest as a CSP hash-source expression

Expressions take the form <algorithm>-<base64>, using the standard padded
base64 alphabet that CSP requires for hash sources. Content is hashed exactly
as given: no trimming, no newline or whitespace normalization.
*/
package digest

import (
	"encoding/base64"
	"strings"

	"github.com/rohmanhakim/csp-hasher/pkg/hashutil"
)

// HashExpression is a CSP hash-source expression such as "sha256-<base64>".
type HashExpression string

// Encode returns the hash expression of content under algo. It is
// deterministic and never fails for a valid Algorithm; it panics on an
// invalid one, which is a programming error.
func Encode(content string, algo Algorithm) HashExpression {
	sum, err := hashutil.Sum([]byte(content), algo.hashAlgo())
	if err != nil {
		panic("digest: invalid algorithm " + algo.String())
	}
	return HashExpression(algo.String() + "-" + base64.StdEncoding.EncodeToString(sum))
}

func (h HashExpression) String() string {
	return string(h)
}

// Quoted returns the expression in single quotes, as it appears in a directive.
func (h HashExpression) Quoted() string {
	return "'" + string(h) + "'"
}

// Algorithm reports the algorithm named by the expression prefix.
func (h HashExpression) Algorithm() (Algorithm, error) {
	prefix, _, _ := strings.Cut(string(h), "-")
	return ParseAlgorithm(prefix)
}
