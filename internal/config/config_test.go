package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written to disk")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfig_FillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[style]
font_family = "Calibri"

[simulate]
my_tipster = "ANA"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Calibri", cfg.Style.FontFamily)
	assert.Equal(t, "ANA", cfg.Simulate.MyTipster)
	assert.Equal(t, "PETER", cfg.Simulate.TipsterTipster)
	assert.Equal(t, ".backup.xlsx", cfg.Files.BackupSuffix)
	assert.Equal(t, []string{"EXCEL-V12-FINAL.xlsx", "template-picks-and-tipsters.xlsx"}, cfg.Files.Candidates)
	assert.Equal(t, 60, cfg.Explain.TimeoutSeconds)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[style\nfont_family ="), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
