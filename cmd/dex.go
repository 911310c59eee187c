package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pokedata/internal/dex"
	"pokedata/internal/logger"
	"pokedata/internal/pokeapi"
	"pokedata/pkg/models"
)

const defaultDexFile = "all_pokemon_data.csv"

var dexCmd = &cobra.Command{
	Use:   "dex",
	Short: "Build and browse the offline Pokédex",
}

var dexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export PokeAPI species data with sprites to CSV",
	Long: `Fetch species from PokeAPI and write the offline reference CSV
(name, id, types, stats, abilities, image_base64). Requests are paced by
POKEAPI_RATE (requests per second). Species that fail to load are skipped.`,
	Example: `  # Every species
  pokedata dex export

  # A few species, without sprites
  pokedata dex export --names pikachu,eevee --no-sprites -o starters.csv`,
	Args: cobra.NoArgs,
	RunE: runDexExport,
}

var dexShowCmd = &cobra.Command{
	Use:   "show <name-or-id>",
	Short: "Show one Pokémon from the reference CSV",
	Example: `  pokedata dex show pikachu
  pokedata dex show 25 --sprite pikachu.png --scale 4`,
	Args: cobra.ExactArgs(1),
	RunE: runDexShow,
}

var dexViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the reference CSV interactively",
	Args:  cobra.NoArgs,
	RunE:  runDexView,
}

func init() {
	rootCmd.AddCommand(dexCmd)
	dexCmd.AddCommand(dexExportCmd, dexShowCmd, dexViewCmd)

	dexExportCmd.Flags().StringP("output", "o", defaultDexFile, "Output CSV path")
	dexExportCmd.Flags().Int("limit", pokeapi.DefaultListLimit, "Number of species to list")
	dexExportCmd.Flags().Int("offset", 0, "First species to list")
	dexExportCmd.Flags().StringSlice("names", nil, "Export only these names or dex numbers")
	dexExportCmd.Flags().Bool("no-sprites", false, "Do not download sprites")

	dexShowCmd.Flags().StringP("data", "d", defaultDexFile, "Reference CSV")
	dexShowCmd.Flags().String("sprite", "", "Write the sprite as PNG to this path")
	dexShowCmd.Flags().Int("scale", dex.DefaultSpriteScale, "Sprite enlargement factor")

	dexViewCmd.Flags().StringP("data", "d", defaultDexFile, "Reference CSV")
	dexViewCmd.Flags().Bool("team", false, "Enable the team builder")
}

func runDexExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("dex")

	envCfg, err := loadEnvConfig(log)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	names, _ := cmd.Flags().GetStringSlice("names")
	noSprites, _ := cmd.Flags().GetBool("no-sprites")

	ctx, cancel := createContext(0, log)
	defer cancel()

	client := pokeapi.NewClient(envCfg.PokeAPIBaseURL, envCfg.PokeAPIRate)
	result, err := dex.Export(ctx, client, dex.ExportOptions{
		Names:       names,
		Limit:       limit,
		Offset:      offset,
		SkipSprites: noSprites,
	})
	if err != nil {
		log.Error().Err(err).Msg("Export failed")
		return err
	}

	if err := writeDexFile(output, result.Pokemon); err != nil {
		log.Error().Err(err).Str("output", output).Msg("Failed to write reference CSV")
		return err
	}

	fmt.Printf("Exported %d Pokémon to %s\n", len(result.Pokemon), output)
	if len(result.Failed) > 0 {
		fmt.Printf("  %d failed: %v\n", len(result.Failed), result.Failed)
	}
	return nil
}

func runDexShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("dex")

	dataPath, _ := cmd.Flags().GetString("data")
	spritePath, _ := cmd.Flags().GetString("sprite")
	scale, _ := cmd.Flags().GetInt("scale")

	records, err := loadDexFile(dataPath, log)
	if err != nil {
		return err
	}

	p, ok := dex.Find(records, args[0])
	if !ok {
		return fmt.Errorf("pokémon %q not found in %s", args[0], dataPath)
	}
	fmt.Println(dex.Describe(*p))

	if spritePath != "" {
		f, err := os.Create(spritePath)
		if err != nil {
			return fmt.Errorf("failed to create sprite file: %w", err)
		}
		if err := dex.WriteSprite(f, *p, scale); err != nil {
			f.Close()
			os.Remove(spritePath)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write sprite file: %w", err)
		}
		fmt.Printf("Sprite written to %s\n", spritePath)
	}
	return nil
}

func runDexView(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("dex")

	dataPath, _ := cmd.Flags().GetString("data")
	withTeam, _ := cmd.Flags().GetBool("team")

	records, err := loadDexFile(dataPath, log)
	if err != nil {
		return err
	}

	viewer := &dex.Viewer{Records: records}
	if withTeam {
		viewer.Team = &dex.Team{}
	}

	return viewer.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func loadDexFile(path string, log zerolog.Logger) ([]models.Pokemon, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reference CSV %s not found, run 'pokedata dex export' first", path)
		}
		return nil, fmt.Errorf("failed to open reference CSV: %w", err)
	}
	defer f.Close()

	records, err := dex.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Debug().Str("file", path).Int("records", len(records)).Msg("Loaded reference CSV")
	return records, nil
}

func writeDexFile(path string, pokemon []models.Pokemon) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := dex.Write(f, pokemon); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
