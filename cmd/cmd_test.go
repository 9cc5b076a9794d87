package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aiquiz/internal/store"
)

func TestResolveDBPathPrefersFlag(t *testing.T) {
	t.Setenv("AIQUIZ_DB", filepath.Join(t.TempDir(), "env.db"))

	c := &cobra.Command{}
	c.Flags().String("db", "", "")
	want := filepath.Join(t.TempDir(), "nested", "flag.db")
	require.NoError(t, c.Flags().Set("db", want))

	got, err := resolveDBPath(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.DirExists(t, filepath.Dir(want))
}

func TestResolveDBPathFallsBackToEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("AIQUIZ_DB", want)

	c := &cobra.Command{}
	c.Flags().String("db", "", "")

	got, err := resolveDBPath(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEventResult(t *testing.T) {
	ok := store.LLMRequestEvent{LLMRequestEventData: store.LLMRequestEventData{Success: true}}
	assert.Equal(t, "✓", eventResult(ok))

	failed := store.LLMRequestEvent{LLMRequestEventData: store.LLMRequestEventData{
		ErrorMessage: "rate limited by upstream provider, retry later",
	}}
	got := eventResult(failed)
	assert.True(t, strings.HasPrefix(got, "✗ rate limited"), got)
	assert.LessOrEqual(t, len([]rune(got)), 22)
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "Nutrition", truncate("Nutrition", 32))
	assert.Equal(t, "Café", truncate("Café au lait", 4))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", formatCost(0.0042))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
