package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopics(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeTopics(t, map[string]string{
		"patterns.md":  "# Patterns\n",
		"tokens.txt":   "token rules\n",
		"ignored.json": "{}",
	})

	m, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"patterns", "tokens"}, m.Names())

	topic, ok := m.Get("patterns")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Ext)
	assert.Equal(t, "# Patterns\n", topic.Content)

	_, ok = m.Get("ignored")
	assert.False(t, ok)
}

func TestLoadMissingDir(t *testing.T) {
	m, err := Load("/does/not/exist", nil)
	require.NoError(t, err)
	assert.Empty(t, m.Names())
}

func TestAttachReplacesHelp(t *testing.T) {
	dir := writeTopics(t, map[string]string{"patterns.txt": "content"})
	m, err := Load(dir, PlainRenderer{})
	require.NoError(t, err)

	rootCmd := &cobra.Command{Use: "pathforge"}
	m.Attach(rootCmd)

	var help *cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			help = cmd
		}
	}
	require.NotNil(t, help)
}

func TestPlainRenderer(t *testing.T) {
	assert.Equal(t, "x", PlainRenderer{}.Render("x", ".md"))
}

func TestGlamourRendererPassesThroughText(t *testing.T) {
	assert.Equal(t, "x", GlamourRenderer{}.Render("x", ".txt"))
}
