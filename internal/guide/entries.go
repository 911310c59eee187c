package guide

import (
	"fmt"
	"regexp"
	"strings"
)

// Species names are letters, apostrophes, hyphens and horizontal blanks.
// Digits and line breaks end a name.
const namePattern = `([a-z'’\- \t]+)`

var (
	wildPattern = regexp.MustCompile(
		`(?i)` + namePattern + `\s*\(lv\.?\s*([\d\-]+)\s*,\s*([^)]+)\)`,
	)

	// HP, Atk, Def and Spd must appear in this order.
	teamPattern = regexp.MustCompile(
		`(?i)` + namePattern + `\s*\(lv\.?\s*(\d+)\s*:\s*hp\s*(\d+),\s*atk\s*(\d+),\s*def\s*(\d+),\s*spd\s*(\d+)\)`,
	)
)

// WildEncounter is one wild Pokémon listed in a segment.
type WildEncounter struct {
	Name       string
	LevelRange string
	Location   string
}

// String renders the entry as "Name (Lv.Range, Location)".
func (w WildEncounter) String() string {
	return fmt.Sprintf("%s (Lv.%s, %s)", w.Name, w.LevelRange, w.Location)
}

// TeamMember is one Pokémon on a gym leader or champion team. Numeric fields
// hold the captured digits verbatim.
type TeamMember struct {
	Pokemon string
	Level   string
	HP      string
	Attack  string
	Defense string
	Speed   string
}

// String renders the entry as "Pokemon (Lv.Level: HP h, Atk a, Def d, Spd s)".
func (t TeamMember) String() string {
	return fmt.Sprintf("%s (Lv.%s: HP %s, Atk %s, Def %s, Spd %s)",
		t.Pokemon, t.Level, t.HP, t.Attack, t.Defense, t.Speed)
}

// ParseWildEncounters returns every wild encounter entry in body, in the
// order they appear. Identical entries are kept.
func ParseWildEncounters(body string) []WildEncounter {
	var entries []WildEncounter
	for _, m := range wildPattern.FindAllStringSubmatch(body, -1) {
		entries = append(entries, WildEncounter{
			Name:       strings.TrimSpace(m[1]),
			LevelRange: strings.TrimSpace(m[2]),
			Location:   strings.TrimSpace(m[3]),
		})
	}
	return entries
}

// ParseTeam returns every gym team entry in body, in the order they appear.
// Entries whose stats are not in HP, Atk, Def, Spd order are skipped.
func ParseTeam(body string) []TeamMember {
	var team []TeamMember
	for _, m := range teamPattern.FindAllStringSubmatch(body, -1) {
		team = append(team, TeamMember{
			Pokemon: strings.TrimSpace(m[1]),
			Level:   m[2],
			HP:      m[3],
			Attack:  m[4],
			Defense: m[5],
			Speed:   m[6],
		})
	}
	return team
}
