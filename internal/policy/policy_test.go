package policy_test

import (
	"testing"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestDirective(t *testing.T) {
	set := aggregator.NewHashSet("sha256-b", "sha256-a")

	assert.Equal(t, "script-src 'sha256-a' 'sha256-b'", policy.Directive(policy.ScriptSrc, set))
}

func TestDirective_EmptySet(t *testing.T) {
	assert.Equal(t, "style-src", policy.Directive(policy.StyleSrc, aggregator.NewHashSet()))
}

func TestHeader_Order(t *testing.T) {
	sets := map[string]aggregator.HashSet{
		"style-src":  aggregator.NewHashSet("sha256-s"),
		"script-src": aggregator.NewHashSet("sha256-x"),
		"img-src":    aggregator.NewHashSet("sha256-i"),
	}

	assert.Equal(t,
		"script-src 'sha256-x'; style-src 'sha256-s'; img-src 'sha256-i'",
		policy.Header(sets),
	)
}

func TestHeader_SkipsEmptySets(t *testing.T) {
	sets := map[string]aggregator.HashSet{
		"script-src": aggregator.NewHashSet(),
		"style-src":  aggregator.NewHashSet("sha256-s"),
	}

	assert.Equal(t, "style-src 'sha256-s'", policy.Header(sets))
	assert.Equal(t, "", policy.Header(nil))
}

func TestByDirective(t *testing.T) {
	byElement := map[string]aggregator.HashSet{
		"script": aggregator.NewHashSet("sha256-x"),
		"style":  aggregator.NewHashSet("sha256-s"),
		"div":    aggregator.NewHashSet("sha256-ignored"),
	}

	got := policy.ByDirective(byElement)

	assert.Len(t, got, 2)
	assert.Equal(t, []string{"sha256-x"}, got[policy.ScriptSrc].Strings())
	assert.Equal(t, []string{"sha256-s"}, got[policy.StyleSrc].Strings())
}
