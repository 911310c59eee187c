package guide

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownLeader is the leader label used when a heading names nobody.
const UnknownLeader = "Unknown"

// noteLines is how many body lines go into a row's note.
const noteLines = 3

var leaderKeyword = regexp.MustCompile(`(?i)before\s*gym(?:\s*battle)?|gym\s*battle\s*\d+`)

// Row is one export record. Every segment yields exactly one Row.
type Row struct {
	GameTitle   string
	Region      string
	Stage       string
	WildPokemon string
	Leader      string
	Team        string
	Notes       string
}

// Header is the fixed column header of the guide export.
var Header = []string{
	"Game Title",
	"Region",
	"Stage/Section",
	"Available Wild Pokémon",
	"Gym Leader/Champion",
	"Team Composition",
	"Additional Notes/Strategy",
}

// Record returns the row's fields in Header order.
func (r Row) Record() []string {
	return []string{r.GameTitle, r.Region, r.Stage, r.WildPokemon, r.Leader, r.Team, r.Notes}
}

// AssembleRow builds the export row for one parsed segment.
func AssembleRow(gameTitle, region string, seg Segment, wild []WildEncounter, team []TeamMember) Row {
	return Row{
		GameTitle:   gameTitle,
		Region:      region,
		Stage:       seg.Heading,
		WildPokemon: joinEntries(wild),
		Leader:      Leader(seg.Heading),
		Team:        joinEntries(team),
		Notes:       Note(seg.Heading, seg.Body),
	}
}

// BuildRows parses every segment of text and returns one row per segment.
func BuildRows(gameTitle, region, text string) []Row {
	segments := Split(text)
	rows := make([]Row, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, AssembleRow(gameTitle, region, seg,
			ParseWildEncounters(seg.Body), ParseTeam(seg.Body)))
	}
	return rows
}

// Leader returns the leader or champion named after the section keyword in
// heading, up to a colon or line break. It returns UnknownLeader when the
// heading has no such name.
func Leader(heading string) string {
	loc := leaderKeyword.FindStringIndex(heading)
	if loc == nil {
		return UnknownLeader
	}
	name := heading[loc[1]:]
	if i := strings.IndexAny(name, ":\n"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownLeader
	}
	return name
}

// Note summarizes a segment by its heading and the first lines of its body.
func Note(heading, body string) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) > noteLines {
		lines = lines[:noteLines]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return fmt.Sprintf("Segment starting with '%s'; %s", heading, strings.Join(lines, " "))
}

func joinEntries[T fmt.Stringer](entries []T) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}
