package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pokedata/internal/pipeline"
)

// DefaultManifestName is the manifest file looked up when none is given.
const DefaultManifestName = "pokedata"

// LoadManifest reads a run manifest into a pipeline configuration. With an
// empty path it looks for pokedata.yaml in the working directory and in
// $HOME/.pokedata; a missing manifest yields the defaults. Scalar keys can be
// overridden with POKEDATA_* environment variables.
func LoadManifest(path string) (pipeline.Config, error) {
	v := viper.New()

	defaults := pipeline.DefaultConfig()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("dpi", defaults.DPI)
	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("sheet_name", defaults.SheetName)
	v.SetDefault("sheet_url", "")

	v.SetEnvPrefix("POKEDATA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultManifestName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pokedata")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return pipeline.Config{}, fmt.Errorf("error reading manifest: %w", err)
		}
	}

	var cfg pipeline.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return pipeline.Config{}, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return cfg, nil
}

// ExampleManifest returns a manifest listing the guides the project was
// started with.
func ExampleManifest() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Languages = []string{"eng"}
	cfg.Documents = []pipeline.Document{
		{Path: "(Prima 2005) - Pokemon Emerald.pdf", GameTitle: "Pokémon Emerald", Region: "Hoenn"},
		{Path: "(Prima 2010) - Pokemon HeartGold & SoulSilver - Johto.pdf", GameTitle: "Pokémon HeartGold & SoulSilver", Region: "Johto"},
		{Path: "Pokémon FireRed Version and LeafGreen Version (Prima Official Game Guide - 2004).pdf", GameTitle: "Pokémon FireRed/LeafGreen", Region: "Kanto"},
	}
	return cfg
}

// WriteManifest writes cfg as a YAML manifest to path. It refuses to
// overwrite an existing file unless force is set.
func WriteManifest(path string, cfg pipeline.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("manifest %s: %w", path, os.ErrExist)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	header := []byte(`# pokedata run manifest
# engine: tesseract | vision | documentai | textlayer
# Google engines read credentials from GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
