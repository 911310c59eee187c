package dex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pokedata/pkg/models"
)

// MaxTeamSize is the number of slots in a team.
const MaxTeamSize = 6

var ErrTeamFull = errors.New("team is full")

var statAbbreviations = strings.NewReplacer("special-attack", "SA", "special-defense", "SD")

// Find returns the first species whose name equals term ignoring case, or
// whose dex number is exactly term.
func Find(pokemon []models.Pokemon, term string) (*models.Pokemon, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}
	for i := range pokemon {
		p := &pokemon[i]
		if strings.EqualFold(p.Name, term) || strconv.Itoa(p.ID) == term {
			return p, true
		}
	}
	return nil, false
}

// Describe renders the info panel of a species.
func Describe(p models.Pokemon) string {
	return fmt.Sprintf("Name: %s  ID: %d\nTypes: %s\nStats: %s\nAbilities: %s",
		p.Name,
		p.ID,
		strings.Join(p.Types, listSeparator),
		statAbbreviations.Replace(FormatStats(p.Stats)),
		strings.Join(p.Abilities, listSeparator),
	)
}

// Team is an ordered party of up to MaxTeamSize species. Duplicates are
// allowed.
type Team struct {
	members []models.Pokemon
}

// Add appends p, or returns ErrTeamFull.
func (t *Team) Add(p models.Pokemon) error {
	if len(t.members) >= MaxTeamSize {
		return ErrTeamFull
	}
	t.members = append(t.members, p)
	return nil
}

// Members returns a copy of the team in insertion order.
func (t *Team) Members() []models.Pokemon {
	return append([]models.Pokemon(nil), t.members...)
}

func (t *Team) Len() int { return len(t.members) }

func (t *Team) String() string {
	var b strings.Builder
	b.WriteString("Team:\n")
	for _, p := range t.members {
		fmt.Fprintf(&b, "%s (ID: %d)\nTypes: %s\nStats: %s\n\n",
			p.Name, p.ID,
			strings.Join(p.Types, listSeparator),
			statAbbreviations.Replace(FormatStats(p.Stats)))
	}
	return b.String()
}
