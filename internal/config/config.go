package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DotDir is the directory under the project root that holds the settings
// file and the databases.
const DotDir = ".sectionpaths"

// Settings represents the complete sectionpaths configuration
type Settings struct {
	Version int `json:"version" mapstructure:"version"`

	// Bundles maps a content bundle to the vocabulary and reference field
	// that drive alias generation for it.
	Bundles map[string]BundleConfig `json:"bundles" mapstructure:"bundles"`

	// GenerateNodeAliasIfTermEmpty controls whether nodes without a term
	// reference still get a bare "/<title-slug>" alias. It also decides
	// whether deleting a term replaces the aliases of its nodes or just
	// removes them.
	GenerateNodeAliasIfTermEmpty bool `json:"generateNodeAliasIfTermEmpty" mapstructure:"generateNodeAliasIfTermEmpty"`

	// UseBatchForTermOperations routes term delete cascades through the
	// batch engine instead of processing them inline.
	UseBatchForTermOperations bool `json:"useBatchForTermOperations" mapstructure:"useBatchForTermOperations"`

	// EnableEventLogging emits an operation record to the log for every
	// alias insert/update/delete.
	EnableEventLogging bool `json:"enableEventLogging" mapstructure:"enableEventLogging"`

	// SilentMessages suppresses user-facing status messages.
	SilentMessages bool `json:"silentMessages" mapstructure:"silentMessages"`

	// MaxSlugLength bounds each slug segment of a generated alias.
	MaxSlugLength int `json:"maxSlugLength" mapstructure:"maxSlugLength"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// BundleConfig binds a content bundle to a vocabulary and the entity
// reference field pointing at it.
type BundleConfig struct {
	Vocabulary string `json:"vocabulary" mapstructure:"vocabulary"`
	Field      string `json:"field" mapstructure:"field"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Version: 1,
		Bundles: map[string]BundleConfig{},
		GenerateNodeAliasIfTermEmpty: false,
		UseBatchForTermOperations:    false,
		EnableEventLogging:           true,
		SilentMessages:               false,
		MaxSlugLength:                128,
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadSettings loads configuration from <root>/.sectionpaths/config.json
func LoadSettings(root string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("maxSlugLength", 128)
	v.SetDefault("enableEventLogging", true)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, DotDir))

	if err := v.ReadInConfig(); err != nil {
		// A missing settings file means defaults: nothing configured yet.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <root>/.sectionpaths/config.json
func (s *Settings) Save(root string) error {
	dir := filepath.Join(root, DotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (s *Settings) Validate() error {
	if s.Version != 1 {
		return &SettingsError{Field: "version", Message: "unsupported config version"}
	}
	for bundle, bc := range s.Bundles {
		if bc.Vocabulary == "" {
			return &SettingsError{Field: "bundles." + bundle + ".vocabulary", Message: "vocabulary is required"}
		}
		if bc.Field == "" {
			return &SettingsError{Field: "bundles." + bundle + ".field", Message: "field is required"}
		}
	}
	if s.MaxSlugLength <= 0 {
		return &SettingsError{Field: "maxSlugLength", Message: "must be positive"}
	}
	return nil
}

// ConfiguredVocabularies returns the bundle -> vocabulary mapping for every
// bundle with a non-empty vocabulary.
func (s *Settings) ConfiguredVocabularies() map[string]string {
	out := make(map[string]string, len(s.Bundles))
	for bundle, bc := range s.Bundles {
		if bc.Vocabulary != "" {
			out[bundle] = bc.Vocabulary
		}
	}
	return out
}

// BundleFor returns the bundle configuration for a bundle name, or false
// when the bundle is not managed.
func (s *Settings) BundleFor(bundle string) (BundleConfig, bool) {
	bc, ok := s.Bundles[bundle]
	return bc, ok
}

// ManagesVocabulary reports whether any configured bundle uses the
// given vocabulary.
func (s *Settings) ManagesVocabulary(vocabulary string) bool {
	for _, bc := range s.Bundles {
		if bc.Vocabulary == vocabulary {
			return true
		}
	}
	return false
}

// SettingsError represents a configuration error
type SettingsError struct {
	Field   string
	Message string
}

func (e *SettingsError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
