package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/config"
)

func newFlagCmd() *cobra.Command {
	c := &cobra.Command{Use: "t"}
	c.Flags().String("db", "", "")
	c.Flags().String("lang", "python", "")
	return c
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	c := newFlagCmd()
	require.NoError(t, c.Flags().Set("db", filepath.Join(dir, "flag", "a.db")))
	p, err := resolveDBPath(c, &config.Config{DB: filepath.Join(dir, "cfg.db")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag", "a.db"), p)
	assert.DirExists(t, filepath.Join(dir, "flag"))

	p, err = resolveDBPath(newFlagCmd(), &config.Config{DB: filepath.Join(dir, "cfg", "b.db")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cfg", "b.db"), p)

	t.Setenv("SENSEI_DB", filepath.Join(dir, "env.db"))
	p, err = resolveDBPath(newFlagCmd(), &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.db"), p)
}

func TestReadSolutionLanguage(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(js, []byte("console.log(1)"), 0o644))
	txt := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(txt, []byte("print(1)"), 0o644))

	code, lang, err := readSolution(newFlagCmd(), js)
	require.NoError(t, err)
	assert.Equal(t, "javascript", lang)
	assert.Equal(t, "console.log(1)", code)

	// Unknown extensions fall back to the flag default.
	_, lang, err = readSolution(newFlagCmd(), txt)
	require.NoError(t, err)
	assert.Equal(t, "python", lang)

	c := newFlagCmd()
	require.NoError(t, c.Flags().Set("lang", "ruby"))
	_, _, err = readSolution(c, js)
	assert.ErrorContains(t, err, "unsupported language")

	_, _, err = readSolution(newFlagCmd(), filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), bar(1))
	half := bar(0.5)
	assert.Equal(t, barWidth, utf8.RuneCountInString(half))
	assert.Equal(t, barWidth/2, strings.Count(half, "█"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestAnswerText(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "b", answerText(opts, 1))
	assert.Equal(t, "(no answer)", answerText(opts, -1))
	assert.Equal(t, "(no answer)", answerText(opts, 2))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "1 2⏎3", oneLine("1 2\n3\n"))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login"}, {"signup"}, {"logout"}, {"whoami"},
		{"skill", "list"}, {"skill", "create"}, {"skill", "delete"},
		{"doc", "list"}, {"doc", "upload"}, {"doc", "delete"}, {"doc", "watch"},
		{"roadmap", "show"}, {"roadmap", "generate"},
		{"chat"}, {"quiz", "take"}, {"quiz", "history"},
		{"coding", "show"}, {"coding", "generate"}, {"coding", "submit"}, {"coding", "run"},
		{"analytics"}, {"requests", "list"}, {"requests", "view"}, {"requests", "stats"},
		{"version"}, {"update"},
	} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}
