package agentcli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_NoExamples(t *testing.T) {
	assert.Equal(t, "do the thing", buildPrompt("do the thing", nil))
}

func TestBuildPrompt_FoldsExamples(t *testing.T) {
	got := buildPrompt("do the thing", []string{"first example", "second example"})

	assert.True(t, strings.HasSuffix(got, "do the thing"))
	assert.Contains(t, got, "Example 1:\nfirst example")
	assert.Contains(t, got, "Example 2:\nsecond example")
	assert.Less(t, strings.Index(got, "first example"), strings.Index(got, "do the thing"))
}
