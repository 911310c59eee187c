package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedata/internal/config"
	"pokedata/internal/ocr"
	"pokedata/internal/pipeline"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POKEAPI_BASE_URL", "")
	t.Setenv("POKEAPI_RATE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPIBaseURL)
	assert.Equal(t, 5.0, cfg.PokeAPIRate)
	assert.Equal(t, "info", cfg.GetLoggerConfig().Level)
}

func TestLoad_RejectsBadRate(t *testing.T) {
	t.Setenv("POKEAPI_RATE", "fast")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("POKEAPI_RATE", "-1")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	manifest := `
output: out/guides.csv
dpi: 200
engine: vision
languages: [en]
documents:
  - path: emerald.pdf
    game_title: Pokémon Emerald
    region: Hoenn
  - path: hgss.pdf
    game_title: Pokémon HeartGold & SoulSilver
    region: Johto
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	cfg, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "out/guides.csv", cfg.Output)
	assert.Equal(t, 200, cfg.DPI)
	assert.Equal(t, ocr.EngineVision, cfg.Engine)
	assert.Equal(t, []string{"en"}, cfg.Languages)
	assert.Equal(t, []pipeline.Document{
		{Path: "emerald.pdf", GameTitle: "Pokémon Emerald", Region: "Hoenn"},
		{Path: "hgss.pdf", GameTitle: "Pokémon HeartGold & SoulSilver", Region: "Johto"},
	}, cfg.Documents)
	assert.Equal(t, "Guide", cfg.SheetName)
}

func TestLoadManifest_DefaultsAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  - path: a.pdf\n"), 0o644))
	t.Setenv("POKEDATA_OUTPUT", "from-env.csv")

	cfg, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Output)
	assert.Equal(t, ocr.DefaultDPI, cfg.DPI)
	assert.Equal(t, ocr.EngineTesseract, cfg.Engine)
	require.NoError(t, cfg.Validate())
}

func TestLoadManifest_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents: [unclosed"), 0o644))

	_, err := config.LoadManifest(path)
	assert.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokedata.yaml")
	example := config.ExampleManifest()

	require.NoError(t, config.WriteManifest(path, example, false))
	assert.Error(t, config.WriteManifest(path, example, false), "existing manifest must not be overwritten")
	require.NoError(t, config.WriteManifest(path, example, true))

	cfg, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, example.Documents, cfg.Documents)
	assert.Equal(t, example.Output, cfg.Output)
	require.NoError(t, cfg.Validate())
}
