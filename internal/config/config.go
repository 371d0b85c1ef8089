package config

import (
	"fmt"
	"os"
	"path/filepath"

	"tipsterFmt/internal/logger"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "configs/config.toml"

type Config struct {
	Files    FilesConfig    `toml:"files"`
	Style    StyleConfig    `toml:"style"`
	Simulate SimulateConfig `toml:"simulate"`
	Explain  ExplainConfig  `toml:"explain"`
	Log      LogConfig      `toml:"log"`
}

type FilesConfig struct {
	// Candidates are tried in order when a command gets no file argument.
	Candidates       []string `toml:"candidates"`
	BackupSuffix     string   `toml:"backup_suffix"`
	TimestampBackups bool     `toml:"timestamp_backups"`
}

type StyleConfig struct {
	FontFamily string `toml:"font_family"`
}

type SimulateConfig struct {
	MyTipster      string `toml:"my_tipster"`
	TipsterTipster string `toml:"tipster_tipster"`
	CopySuffix     string `toml:"copy_suffix"`
}

type ExplainConfig struct {
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
}

// Default returns the configuration written when no config file exists.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Candidates: []string{
				"EXCEL-V12-FINAL.xlsx",
				"template-picks-and-tipsters.xlsx",
			},
			BackupSuffix:     ".backup.xlsx",
			TimestampBackups: false,
		},
		Style: StyleConfig{
			FontFamily: "Arial",
		},
		Simulate: SimulateConfig{
			MyTipster:      "JOHN",
			TipsterTipster: "PETER",
			CopySuffix:     "-simulated",
		},
		Explain: ExplainConfig{
			Model:          "gemini-2.0-flash-exp",
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Directory: "logs",
		},
	}
}

// LoadConfig loads configuration from the specified config file path,
// creating it with defaults when it does not exist yet.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	config.fillDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if len(c.Files.Candidates) == 0 {
		c.Files.Candidates = def.Files.Candidates
	}
	if c.Files.BackupSuffix == "" {
		c.Files.BackupSuffix = def.Files.BackupSuffix
	}
	if c.Style.FontFamily == "" {
		c.Style.FontFamily = def.Style.FontFamily
	}
	if c.Simulate.MyTipster == "" {
		c.Simulate.MyTipster = def.Simulate.MyTipster
	}
	if c.Simulate.TipsterTipster == "" {
		c.Simulate.TipsterTipster = def.Simulate.TipsterTipster
	}
	if c.Simulate.CopySuffix == "" {
		c.Simulate.CopySuffix = def.Simulate.CopySuffix
	}
	if c.Explain.Model == "" {
		c.Explain.Model = def.Explain.Model
	}
	if c.Explain.TimeoutSeconds == 0 {
		c.Explain.TimeoutSeconds = def.Explain.TimeoutSeconds
	}
	if c.Log.Directory == "" {
		c.Log.Directory = def.Log.Directory
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
