package runcli

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_GreenCommand(t *testing.T) {
	r := Runner{Command: "echo ok"}

	result, err := r.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "ok", result.Detail)
}

func TestRun_RedCommandIsResultNotError(t *testing.T) {
	r := Runner{Command: "echo 'test failed' && exit 1"}

	result, err := r.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail, "test failed")
}

func TestRun_EmptyCommandIsError(t *testing.T) {
	r := Runner{Command: "  "}

	_, err := r.Run(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestRun_RunsInWorkdir(t *testing.T) {
	dir := t.TempDir()
	r := Runner{Command: "pwd"}

	result, err := r.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.True(t, strings.HasSuffix(result.Detail, strings.TrimPrefix(dir, "/private")) ||
		strings.HasSuffix(result.Detail, dir))
}

func TestClip_KeepsTail(t *testing.T) {
	long := strings.Repeat("x", maxDetailBytes) + "tail"
	assert.Equal(t, maxDetailBytes, len(clip(long)))
	assert.True(t, strings.HasSuffix(clip(long), "tail"))
}

func TestClip_NeverSplitsRunes(t *testing.T) {
	// Three-byte runes and a limit that is not a multiple of three, so
	// the byte-offset cut always lands mid-rune
	long := strings.Repeat("テスト失敗", 1200)
	require.Greater(t, len(long), maxDetailBytes)

	clipped := clip(long)
	assert.True(t, utf8.ValidString(clipped))
	assert.LessOrEqual(t, len(clipped), maxDetailBytes)
	assert.True(t, strings.HasSuffix(clipped, "テスト失敗"))
}
