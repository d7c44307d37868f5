package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if len(cfg.Bundles) != 0 {
		t.Errorf("expected no bundles by default, got %d", len(cfg.Bundles))
	}
	if !cfg.EnableEventLogging {
		t.Error("event logging should default to enabled")
	}
	if cfg.MaxSlugLength != 128 {
		t.Errorf("MaxSlugLength = %d, want 128", cfg.MaxSlugLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	cfg, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("missing file should yield defaults, got version %d", cfg.Version)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultSettings()
	cfg.Bundles = map[string]BundleConfig{
		"article": {Vocabulary: "category", Field: "field_section"},
	}
	cfg.GenerateNodeAliasIfTermEmpty = true
	cfg.UseBatchForTermOperations = true

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, DotDir, "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadSettings(root)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	bc, ok := loaded.BundleFor("article")
	if !ok {
		t.Fatal("article bundle missing after round trip")
	}
	if bc.Vocabulary != "category" || bc.Field != "field_section" {
		t.Errorf("bundle = %+v", bc)
	}
	if !loaded.GenerateNodeAliasIfTermEmpty || !loaded.UseBatchForTermOperations {
		t.Error("behavior flags lost in round trip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {
			s.Bundles = map[string]BundleConfig{"article": {Vocabulary: "category", Field: "field_section"}}
		}, false},
		{"missing vocabulary", func(s *Settings) {
			s.Bundles = map[string]BundleConfig{"article": {Field: "field_section"}}
		}, true},
		{"missing field", func(s *Settings) {
			s.Bundles = map[string]BundleConfig{"article": {Vocabulary: "category"}}
		}, true},
		{"bad version", func(s *Settings) { s.Version = 2 }, true},
		{"bad slug length", func(s *Settings) { s.MaxSlugLength = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSettings()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfiguredVocabularies(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Bundles = map[string]BundleConfig{
		"article": {Vocabulary: "category", Field: "field_section"},
		"page":    {Vocabulary: "", Field: "field_section"},
	}

	vocabs := cfg.ConfiguredVocabularies()
	if len(vocabs) != 1 || vocabs["article"] != "category" {
		t.Errorf("ConfiguredVocabularies() = %v", vocabs)
	}
	if !cfg.ManagesVocabulary("category") {
		t.Error("category should be managed")
	}
	if cfg.ManagesVocabulary("tags") {
		t.Error("tags should not be managed")
	}
}
