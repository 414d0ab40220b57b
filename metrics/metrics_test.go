package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatListsEveryCounter(t *testing.T) {
	before := Snapshot()["cache_hits"]
	IncrCacheHit()

	out := Format()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(order))
	assert.Equal(t, before+1, Snapshot()["cache_hits"])
	assert.Contains(t, out, "provider_calls ")
}
