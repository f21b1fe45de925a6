/*
Package config manages TOML config for Synonymy.

Values not present in the file keep their defaults. A file that fails to
decode as a whole is parsed section by section, so one bad value does not
discard the rest. Deployment secrets are read from the environment (and an
optional .env file) after the file is loaded.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/synonymy/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL = "SYNONYMY_API_URL"
	EnvAPIKey = "SYNONYMY_API_KEY"
)

// Config holds the entire config structure
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Trigger  TriggerConfig  `toml:"trigger"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Synonyms SynonymsConfig `toml:"synonyms"`
	Store    StoreConfig    `toml:"store"`
}

// AnalysisConfig has the scoring thresholds.
type AnalysisConfig struct {
	MinOccurrences int     `toml:"min_occurrences"`
	MinMultiplier  int     `toml:"min_multiplier"`
	MaxResults     int     `toml:"max_results"`
	ZipfConstant   float64 `toml:"zipf_constant"`
	MinWordLength  int     `toml:"min_word_length"`
}

// TriggerConfig controls when a refinement run fires.
type TriggerConfig struct {
	DebounceMs int `toml:"debounce_ms"`
	MinWords   int `toml:"min_words"`
}

// CorpusConfig holds frequency corpus loading options.
type CorpusConfig struct {
	MaxWords  int `toml:"max_words"`
	ChunkSize int `toml:"chunk_size"`
}

// SynonymsConfig describes the remote synonym service.
type SynonymsConfig struct {
	Endpoint          string  `toml:"endpoint"`
	APIKey            string  `toml:"-"`
	TimeoutMs         int     `toml:"timeout_ms"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// StoreConfig holds the text store location. Empty means the config dir.
type StoreConfig struct {
	Dir        string `toml:"dir"`
	SyncWrites bool   `toml:"sync_writes"`
}

// Debounce returns the debounce window as a duration.
func (t TriggerConfig) Debounce() time.Duration {
	return time.Duration(t.DebounceMs) * time.Millisecond
}

// Timeout returns the lookup timeout as a duration.
func (s SynonymsConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinOccurrences: 3,
			MinMultiplier:  5,
			MaxResults:     10,
			ZipfConstant:   0.0714,
			MinWordLength:  3,
		},
		Trigger: TriggerConfig{
			DebounceMs: 1000,
			MinWords:   200,
		},
		Corpus: CorpusConfig{
			MaxWords:  0,
			ChunkSize: 10000,
		},
		Synonyms: SynonymsConfig{
			Endpoint:          "http://localhost:5000",
			TimeoutMs:         10000,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Store: StoreConfig{
			SyncWrites: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return withEnv(DefaultConfig()), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return withEnv(DefaultConfig()), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return withEnv(config), nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return withEnv(DefaultConfig()), nil
	}
	return withEnv(config), nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "analysis"); ok {
		extractAnalysisConfig(section, &config.Analysis)
	}
	if section, ok := utils.ExtractSection(tempConfig, "trigger"); ok {
		extractTriggerConfig(section, &config.Trigger)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "synonyms"); ok {
		extractSynonymsConfig(section, &config.Synonyms)
	}
	if section, ok := utils.ExtractSection(tempConfig, "store"); ok {
		if val, ok := utils.ExtractString(section, "dir"); ok {
			config.Store.Dir = val
		}
		if val, ok := utils.ExtractBool(section, "sync_writes"); ok {
			config.Store.SyncWrites = val
		}
	}
	config.sanitize()
	return config, nil
}

func extractAnalysisConfig(data map[string]any, analysis *AnalysisConfig) {
	if val, ok := utils.ExtractInt64(data, "min_occurrences"); ok {
		analysis.MinOccurrences = val
	}
	if val, ok := utils.ExtractInt64(data, "min_multiplier"); ok {
		analysis.MinMultiplier = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		analysis.MaxResults = val
	}
	if val, ok := utils.ExtractFloat(data, "zipf_constant"); ok {
		analysis.ZipfConstant = val
	}
	if val, ok := utils.ExtractInt64(data, "min_word_length"); ok {
		analysis.MinWordLength = val
	}
}

func extractTriggerConfig(data map[string]any, trigger *TriggerConfig) {
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		trigger.DebounceMs = val
	}
	if val, ok := utils.ExtractInt64(data, "min_words"); ok {
		trigger.MinWords = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		corpus.MaxWords = val
	}
	if val, ok := utils.ExtractInt64(data, "chunk_size"); ok {
		corpus.ChunkSize = val
	}
}

func extractSynonymsConfig(data map[string]any, synonyms *SynonymsConfig) {
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		synonyms.Endpoint = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		synonyms.TimeoutMs = val
	}
	if val, ok := utils.ExtractFloat(data, "requests_per_second"); ok {
		synonyms.RequestsPerSecond = val
	}
	if val, ok := utils.ExtractInt64(data, "burst"); ok {
		synonyms.Burst = val
	}
}

// sanitize replaces values that would break the pipeline with defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Analysis.MinOccurrences < 1 {
		log.Warnf("analysis.min_occurrences must be >= 1, using %d", def.Analysis.MinOccurrences)
		c.Analysis.MinOccurrences = def.Analysis.MinOccurrences
	}
	if c.Analysis.MaxResults < 1 {
		log.Warnf("analysis.max_results must be >= 1, using %d", def.Analysis.MaxResults)
		c.Analysis.MaxResults = def.Analysis.MaxResults
	}
	if c.Analysis.ZipfConstant <= 0 {
		log.Warnf("analysis.zipf_constant must be > 0, using %v", def.Analysis.ZipfConstant)
		c.Analysis.ZipfConstant = def.Analysis.ZipfConstant
	}
	if c.Trigger.DebounceMs < 0 {
		c.Trigger.DebounceMs = def.Trigger.DebounceMs
	}
	if c.Corpus.ChunkSize < 1 {
		c.Corpus.ChunkSize = def.Corpus.ChunkSize
	}
	if c.Synonyms.Burst < 1 {
		c.Synonyms.Burst = def.Synonyms.Burst
	}
}

// withEnv applies .env and process environment overrides.
func withEnv(c *Config) *Config {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	c.ApplyEnv()
	return c
}

// ApplyEnv overrides the synonym endpoint and API key from the environment.
func (c *Config) ApplyEnv() {
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.Synonyms.Endpoint = url
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Synonyms.APIKey = key
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
