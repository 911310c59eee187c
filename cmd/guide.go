package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pokedata/internal/config"
	"pokedata/internal/logger"
	"pokedata/internal/ocr"
	"pokedata/internal/ocr/tesseract"
	"pokedata/internal/pipeline"
	"pokedata/internal/raster"
	"pokedata/internal/sheets"
	"pokedata/internal/textlayer"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Extract structured data from Pokémon strategy-guide PDFs",
}

var guideExtractCmd = &cobra.Command{
	Use:   "extract [pdf[:game-title[:region]] ...]",
	Short: "OCR strategy guides into the guide dataset CSV",
	Long: `Render every page of each guide PDF, recognize its text, split the text at
"Gym Battle N" / "Before Gym" headings and write one CSV row per section with
the wild Pokémon, gym leader and team found in it.

Documents come from the run manifest (--config, default ./pokedata.yaml) or
from the arguments. Flags override manifest values.

Engines:
  tesseract   local Tesseract OCR (default, needs pdftoppm)
  vision      Google Cloud Vision (needs pdftoppm and Google credentials)
  documentai  Google Document AI (needs pdftoppm, GOOGLE_CLOUD_PROJECT and
              DOCUMENT_AI_PROCESSOR_ID)
  textlayer   embedded PDF text, no OCR`,
	Example: `  # Run the documents listed in ./pokedata.yaml
  pokedata guide extract

  # Single guide with title and region
  pokedata guide extract "emerald.pdf:Pokémon Emerald:Hoenn" -o emerald.csv

  # Use Google Cloud Vision and mirror the rows into a Google Sheet
  pokedata guide extract --engine vision --sheet-url https://docs.google.com/spreadsheets/d/ID`,
	RunE: runGuideExtract,
}

var guideInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter run manifest",
	Args:  cobra.NoArgs,
	RunE:  runGuideInit,
}

func init() {
	rootCmd.AddCommand(guideCmd)
	guideCmd.AddCommand(guideExtractCmd, guideInitCmd)

	guideExtractCmd.Flags().StringP("config", "c", "", "Run manifest (default: ./pokedata.yaml if present)")
	guideExtractCmd.Flags().StringP("output", "o", pipeline.DefaultOutput, "Output CSV path")
	guideExtractCmd.Flags().Int("dpi", ocr.DefaultDPI, "Rasterization resolution")
	guideExtractCmd.Flags().StringP("engine", "e", ocr.EngineTesseract, "Text engine: tesseract, vision, documentai, textlayer")
	guideExtractCmd.Flags().StringSlice("lang", nil, "OCR language hints, e.g. eng or en")
	guideExtractCmd.Flags().String("sheet-url", "", "Also append the rows to this Google Sheet")
	guideExtractCmd.Flags().String("sheet-name", "Guide", "Worksheet name for --sheet-url")
	guideExtractCmd.Flags().String("pdftoppm", "", "Path to the pdftoppm binary")
	guideExtractCmd.Flags().Duration("timeout", 0, "Abort the run after this duration (0: no limit)")

	guideInitCmd.Flags().StringP("output", "o", config.DefaultManifestName+".yaml", "Manifest path")
	guideInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing manifest")
}

func runGuideExtract(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()
	log := logger.WithRequestID(runID).With().Str("component", "guide").Logger()

	envCfg, err := loadEnvConfig(log)
	if err != nil {
		return err
	}

	manifestPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadManifest(manifestPath)
	if err != nil {
		log.Error().Err(err).Str("manifest", manifestPath).Msg("Failed to load run manifest")
		return err
	}
	if err := applyExtractFlags(cmd, &cfg, args); err != nil {
		return err
	}
	if cfg.SheetURL == "" && envCfg.GoogleSheetURL != "" {
		cfg.SheetURL = envCfg.GoogleSheetURL
		if !cmd.Flags().Changed("sheet-name") {
			cfg.SheetName = envCfg.GoogleSheetWorksheet
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := createContext(timeout, log)
	defer cancel()
	ctx = log.WithContext(ctx)

	log.Info().
		Int("documents", len(cfg.Documents)).
		Str("engine", cfg.Engine).
		Int("dpi", cfg.DPI).
		Str("output", cfg.Output).
		Msg("Starting guide extraction")

	pdftoppm, _ := cmd.Flags().GetString("pdftoppm")
	if pdftoppm == "" {
		pdftoppm = envCfg.PdftoppmPath
	}
	source, closeSource, err := createTextSource(ctx, cfg, envCfg, pdftoppm, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			log.Warn().Err(err).Msg("Failed to close text engine")
		}
	}()

	result, err := pipeline.New(source).Run(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("extraction canceled, no output written: %w", err)
		}
		return err
	}

	fmt.Printf("Wrote %d rows from %d document(s) to %s in %s\n",
		len(result.Rows), result.Processed, cfg.Output, result.Duration.Round(time.Millisecond))
	for _, skipped := range result.Skipped {
		fmt.Printf("  skipped %s: %v\n", skipped.Path, skipped.Err)
	}

	if cfg.SheetURL != "" {
		if err := exportToSheet(ctx, cfg, result, log); err != nil {
			return fmt.Errorf("dataset written to %s but sheet export failed: %w", cfg.Output, err)
		}
	}
	return nil
}

// applyExtractFlags overlays explicitly set flags and document arguments on
// the manifest configuration.
func applyExtractFlags(cmd *cobra.Command, cfg *pipeline.Config, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("output") || cfg.Output == "" {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("dpi") {
		cfg.DPI, _ = flags.GetInt("dpi")
	}
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("lang") {
		cfg.Languages, _ = flags.GetStringSlice("lang")
	}
	if flags.Changed("sheet-url") {
		cfg.SheetURL, _ = flags.GetString("sheet-url")
	}
	if flags.Changed("sheet-name") {
		cfg.SheetName, _ = flags.GetString("sheet-name")
	}

	if len(args) > 0 {
		cfg.Documents = nil
		for _, arg := range args {
			doc, err := parseDocumentArg(arg)
			if err != nil {
				return err
			}
			cfg.Documents = append(cfg.Documents, doc)
		}
	}
	return nil
}

// parseDocumentArg parses "path[:game title[:region]]". A path ending in
// ".pdf" may itself contain colons ("C:\guides\emerald.pdf:Pokémon Emerald").
func parseDocumentArg(arg string) (pipeline.Document, error) {
	path, rest, hasMeta := arg, "", false
	if end := pdfPathEnd(arg); end >= 0 {
		if end < len(arg) {
			path, rest, hasMeta = arg[:end], arg[end+1:], true
		}
	} else if i := strings.Index(arg, ":"); i >= 0 {
		path, rest, hasMeta = arg[:i], arg[i+1:], true
	}

	doc := pipeline.Document{Path: strings.TrimSpace(path)}
	if doc.Path == "" {
		return pipeline.Document{}, fmt.Errorf("%w: empty document path in %q", pipeline.ErrInvalidConfig, arg)
	}
	if hasMeta {
		parts := strings.SplitN(rest, ":", 2)
		doc.GameTitle = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			doc.Region = strings.TrimSpace(parts[1])
		}
	}
	return doc, nil
}

// pdfPathEnd returns the offset just past the first ".pdf" (any case) that
// ends arg or is followed by a colon, or -1.
func pdfPathEnd(arg string) int {
	const ext = ".pdf"
	for i := 0; i+len(ext) <= len(arg); i++ {
		end := i + len(ext)
		if strings.EqualFold(arg[i:end], ext) && (end == len(arg) || arg[end] == ':') {
			return end
		}
	}
	return -1
}

// createTextSource builds the page text source for the configured engine.
// The returned function releases the engine.
func createTextSource(ctx context.Context, cfg pipeline.Config, envCfg *config.Config, pdftoppm string, log zerolog.Logger) (pipeline.TextSource, func() error, error) {
	if cfg.Engine == ocr.EngineTextLayer {
		return textlayer.New(), func() error { return nil }, nil
	}

	recognizer, err := createRecognizer(ctx, cfg, envCfg, log)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewOCRSource(raster.NewPdftoppm(pdftoppm), recognizer, cfg.DPI), recognizer.Close, nil
}

// createRecognizer creates and configures the OCR engine
func createRecognizer(ctx context.Context, cfg pipeline.Config, envCfg *config.Config, log zerolog.Logger) (ocr.Recognizer, error) {
	switch cfg.Engine {
	case ocr.EngineTesseract:
		return tesseract.New(cfg.Languages...), nil

	case ocr.EngineVision, ocr.EngineDocumentAI:
		hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""
		if !hasCredentials {
			log.Error().Str("engine", cfg.Engine).Msg("Google Cloud credentials not configured")
			return nil, fmt.Errorf("%w: set GOOGLE_APPLICATION_CREDENTIALS to a service account JSON file or GOOGLE_CREDENTIALS to its contents", ocr.ErrMissingCredentials)
		}

		var (
			recognizer ocr.Recognizer
			err        error
		)
		if cfg.Engine == ocr.EngineVision {
			recognizer, err = ocr.NewVisionRecognizer(ctx, cfg.Languages)
		} else {
			recognizer, err = ocr.NewDocumentAIRecognizer(ctx, envCfg.GetDocumentAIConfig())
		}
		if err != nil {
			log.Error().Err(err).Str("engine", cfg.Engine).Msg("Failed to create OCR engine")
			return nil, err
		}
		return recognizer, nil
	}
	return nil, fmt.Errorf("%w: %q", ocr.ErrUnknownEngine, cfg.Engine)
}

func exportToSheet(ctx context.Context, cfg pipeline.Config, result *pipeline.Result, log zerolog.Logger) error {
	service, err := sheets.NewSheetsService(ctx, cfg.SheetURL)
	if err != nil {
		return err
	}
	appended, err := service.WriteRows(ctx, result.Rows, cfg.SheetName)
	if err != nil {
		return err
	}
	log.Info().
		Str("sheet", cfg.SheetName).
		Int("rows", appended).
		Int("already_present", len(result.Rows)-appended).
		Msg("Rows mirrored to Google Sheet")
	fmt.Printf("Appended %d of %d rows to sheet %q\n", appended, len(result.Rows), cfg.SheetName)
	return nil
}

func runGuideInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("guide")

	path, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteManifest(path, config.ExampleManifest(), force); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}

	log.Info().Str("manifest", path).Msg("Run manifest written")
	fmt.Printf("Wrote run manifest to %s\n", path)
	return nil
}
