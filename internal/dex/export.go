package dex

import (
	"context"
	"fmt"

	"pokedata/internal/logger"
	"pokedata/internal/pokeapi"
	"pokedata/pkg/models"
)

// Source is the species data the export reads from. *pokeapi.Client
// implements it.
type Source interface {
	List(ctx context.Context, limit, offset int) ([]pokeapi.NamedResource, error)
	Pokemon(ctx context.Context, nameOrID string) (*models.Pokemon, error)
	PokemonByURL(ctx context.Context, detailURL string) (*models.Pokemon, error)
	Sprite(ctx context.Context, spriteURL string) ([]byte, error)
}

// ExportOptions selects the species to export.
type ExportOptions struct {
	// Names, when set, are fetched instead of the species index.
	Names []string

	Limit  int
	Offset int

	// SkipSprites leaves image_base64 empty.
	SkipSprites bool
}

// ExportResult is the outcome of Export.
type ExportResult struct {
	Pokemon []models.Pokemon
	Failed  []string
}

// Export fetches the selected species in index order. A species whose data
// cannot be fetched is logged and left out; a sprite that cannot be fetched
// leaves the species without image. Only a failing index request or
// cancellation aborts the export.
func Export(ctx context.Context, src Source, opts ExportOptions) (*ExportResult, error) {
	const op = "Export"
	log := logger.WithComponent("dex")

	type target struct{ name, url string }
	var targets []target

	if len(opts.Names) > 0 {
		for _, n := range opts.Names {
			targets = append(targets, target{name: n})
		}
	} else {
		limit := opts.Limit
		if limit <= 0 {
			limit = pokeapi.DefaultListLimit
		}
		index, err := src.List(ctx, limit, opts.Offset)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to list species: %w", op, err)
		}
		for _, r := range index {
			targets = append(targets, target{name: r.Name, url: r.URL})
		}
		log.Info().Int("species", len(targets)).Msg("Fetched species index")
	}

	result := &ExportResult{}
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Debug().
			Str("name", t.name).
			Int("index", i+1).
			Int("total", len(targets)).
			Msg("Fetching species")

		var (
			p   *models.Pokemon
			err error
		)
		if t.url != "" {
			p, err = src.PokemonByURL(ctx, t.url)
		} else {
			p, err = src.Pokemon(ctx, t.name)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			}
			log.Warn().Err(err).Str("name", t.name).Msg("Skipping species")
			result.Failed = append(result.Failed, t.name)
			continue
		}

		if !opts.SkipSprites && p.SpriteURL != "" {
			sprite, err := src.Sprite(ctx, p.SpriteURL)
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("%s: %w", op, ctx.Err())
				}
				log.Warn().Err(err).Str("name", p.Name).Msg("Failed to fetch sprite")
			} else {
				p.Sprite = sprite
			}
		}

		result.Pokemon = append(result.Pokemon, *p)
	}

	log.Info().
		Int("exported", len(result.Pokemon)).
		Int("failed", len(result.Failed)).
		Msg("Export finished")

	return result, nil
}
