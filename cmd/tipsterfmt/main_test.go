package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsterFmt/internal/config"
	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/seed"
	"tipsterFmt/internal/verify"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWith(t, config.Default(), args...)
}

func executeWith(t *testing.T, c *config.Config, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	c.Log.Directory = filepath.Join(dir, "logs")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, config.SaveConfig(path, c))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestWorkflow(t *testing.T) {
	book := filepath.Join(t.TempDir(), "book.xlsx")

	out, err := execute(t, "seed", book)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed workbook written")

	_, err = execute(t, "seed", book)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "verify", book)
	assert.ErrorIs(t, err, verify.ErrMismatch)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "expected Mis_Picks_Dashboard")

	out, err = execute(t, "style", book, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	_, err = execute(t, "verify", book)
	assert.Error(t, err)

	out, err = execute(t, "style", book)
	require.NoError(t, err)
	assert.Contains(t, out, "book.backup.xlsx")

	_, err = execute(t, "verify", book, "--dropdowns")
	require.NoError(t, err)

	out, err = execute(t, "propagate", book, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"written": 0`)

	out, err = execute(t, "simulate", book, "--mine", "ANA")
	require.NoError(t, err)
	assert.Contains(t, out, "Manolo, ANA")

	out, err = execute(t, "inspect", book, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "sheet: Mis_Picks_Dashboard")
}

func TestMissingArguments(t *testing.T) {
	for _, name := range []string{"style", "propagate", "simulate", "seed"} {
		out, err := execute(t, name)
		assert.Error(t, err, name)
		assert.Contains(t, out, "Usage:", name)
	}
	_, err := execute(t, "explain", "book.xlsx")
	assert.Error(t, err)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := execute(t, "verify", "book.xlsx", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "style", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorContains(t, err, "file not found")
}

func TestInspect_AllCandidates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "EXCEL-V12-FINAL.xlsx")
	second := filepath.Join(dir, "template-picks-and-tipsters.xlsx")
	absent := filepath.Join(dir, "gone.xlsx")
	require.NoError(t, seed.Write(first))
	require.NoError(t, seed.Write(second))

	c := config.Default()
	c.Files.Candidates = []string{first, absent, second}
	out, err := executeWith(t, c, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "file not found: "+absent)
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)

	out, err = executeWith(t, c, "inspect", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "file: "))

	c = config.Default()
	c.Files.Candidates = []string{absent}
	_, err = executeWith(t, c, "inspect")
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}
