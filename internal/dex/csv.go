// Package dex builds and browses the offline Pokémon reference dataset: a
// CSV of PokeAPI species data with each sprite embedded as base64 PNG.
package dex

import (
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pokedata/pkg/models"
)

// Columns is the header of the reference CSV.
var Columns = []string{"name", "id", "types", "stats", "abilities", "image_base64"}

const listSeparator = ", "

var ErrMalformedRecord = errors.New("malformed reference record")

// Write writes the header and one record per species.
func Write(w io.Writer, pokemon []models.Pokemon) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range pokemon {
		if err := cw.Write(record(p)); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(p models.Pokemon) []string {
	return []string{
		p.Name,
		strconv.Itoa(p.ID),
		strings.Join(p.Types, listSeparator),
		FormatStats(p.Stats),
		strings.Join(p.Abilities, listSeparator),
		base64.StdEncoding.EncodeToString(p.Sprite),
	}
}

// Read parses a reference CSV. Columns are matched by header name, so
// extra or reordered columns are tolerated; name and id are required.
func Read(r io.Reader) ([]models.Pokemon, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{"name", "id"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedRecord, required)
		}
	}

	field := func(rec []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var pokemon []models.Pokemon
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(field(rec, "id")))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: id %q", line, ErrMalformedRecord, field(rec, "id"))
		}
		stats, err := ParseStats(field(rec, "stats"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sprite, err := base64.StdEncoding.DecodeString(field(rec, "image_base64"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: image_base64: %v", line, ErrMalformedRecord, err)
		}
		if len(sprite) == 0 {
			sprite = nil
		}

		pokemon = append(pokemon, models.Pokemon{
			ID:        id,
			Name:      field(rec, "name"),
			Types:     splitList(field(rec, "types")),
			Stats:     stats,
			Abilities: splitList(field(rec, "abilities")),
			Sprite:    sprite,
		})
	}
	return pokemon, nil
}

// FormatStats renders stats as "name:base" pairs joined by ", ".
func FormatStats(stats []models.Stat) string {
	parts := make([]string, len(stats))
	for i, s := range stats {
		parts[i] = s.Name + ":" + strconv.Itoa(s.Base)
	}
	return strings.Join(parts, listSeparator)
}

// ParseStats is the inverse of FormatStats.
func ParseStats(s string) ([]models.Stat, error) {
	var stats []models.Stat
	for _, part := range splitList(s) {
		name, base, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: stat %q", ErrMalformedRecord, part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(base))
		if err != nil {
			return nil, fmt.Errorf("%w: stat %q", ErrMalformedRecord, part)
		}
		stats = append(stats, models.Stat{Name: strings.TrimSpace(name), Base: n})
	}
	return stats, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
