package dex

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pokedata/pkg/models"
)

// DefaultSpriteScale is the enlargement used when the viewer saves sprites.
const DefaultSpriteScale = 3

const viewerHelp = `Type a name or dex number to look up a Pokémon.
  :add            add the shown Pokémon to the team
  :team           show the team
  :sprite <file>  save the shown sprite as PNG
  :help           show this help
  :quit           leave`

// Viewer is the interactive lookup loop. The team builder is enabled when
// Team is non-nil.
type Viewer struct {
	Records []models.Pokemon
	Team    *Team

	current *models.Pokemon
}

// Current returns the species shown last, if any.
func (v *Viewer) Current() (*models.Pokemon, bool) {
	return v.current, v.current != nil
}

// Handle executes one input line and returns the text to show. quit
// reports whether the viewer should stop.
func (v *Viewer) Handle(line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")

	switch cmd {
	case "":
		return "", false
	case ":quit", ":q", ":exit":
		return "", true
	case ":help", ":h":
		return viewerHelp, false
	case ":team":
		if v.Team == nil {
			return "Team builder is off; start the viewer with --team.", false
		}
		if v.Team.Len() == 0 {
			return "Team is empty.", false
		}
		return strings.TrimRight(v.Team.String(), "\n"), false
	case ":add":
		if v.Team == nil {
			return "Team builder is off; start the viewer with --team.", false
		}
		if v.current == nil {
			return "Look up a Pokémon first.", false
		}
		if err := v.Team.Add(*v.current); errors.Is(err, ErrTeamFull) {
			return fmt.Sprintf("You can only have %d Pokémon in a team!", MaxTeamSize), false
		}
		return fmt.Sprintf("Added %s to the team (%d/%d).", v.current.Name, v.Team.Len(), MaxTeamSize), false
	case ":sprite":
		return v.saveSprite(strings.TrimSpace(arg)), false
	}

	p, ok := Find(v.Records, line)
	if !ok {
		return fmt.Sprintf("Pokémon %q not found.", line), false
	}
	v.current = p
	return Describe(*p), false
}

func (v *Viewer) saveSprite(path string) string {
	if v.current == nil {
		return "Look up a Pokémon first."
	}
	if path == "" {
		path = v.current.Name + ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Sprintf("Cannot save sprite: %v", err)
	}
	if err := WriteSprite(f, *v.current, DefaultSpriteScale); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Sprintf("Cannot save sprite: %v", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Sprintf("Cannot save sprite: %v", err)
	}
	return fmt.Sprintf("Saved sprite to %s.", path)
}

// Run reads commands from in until :quit, end of input or cancellation,
// writing responses to out.
func (v *Viewer) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Loaded %d Pokémon. Type :help for commands.\n", len(v.Records))

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text, quit := v.Handle(scanner.Text())
		if quit {
			return nil
		}
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
}
