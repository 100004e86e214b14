package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/drgrpg/engine"
	"github.com/nathoo/drgrpg/engine/save"
)

// SaveGame writes the player's record to <dir>/<name>.json.
func SaveGame(ctx context.Context, records engine.Store, playerID int, dir, name string) error {
	rec, err := records.Load(ctx, playerID)
	if err != nil {
		return err
	}
	data, err := save.Save(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644)
}

// LoadGame replaces the player's record with the one saved as name.
func LoadGame(ctx context.Context, records engine.Store, playerID int, dir, name string) error {
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return err
	}
	rec, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	rec.ID = playerID
	return records.Save(ctx, rec)
}

// MetaHelp lists the slash commands both terminal clients accept.
func MetaHelp() []string {
	return []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump the player's stats",
		"  /trace        Toggle debug trace output",
		"",
	}
}

// HelpText is the full help screen as plain lines.
func HelpText() []string {
	out := MetaHelp()
	for _, l := range helpLines() {
		out = append(out, l.Text)
	}
	return out
}

// StateLines describes the session for /state.
func (s *Session) StateLines() []string {
	var parts []string
	for _, k := range sortedNames(s.stats) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.stats[k]))
	}
	return []string{
		fmt.Sprintf("Player: %d %s", s.PlayerID, s.name),
		fmt.Sprintf("Location: %s", s.RoomTitle()),
		fmt.Sprintf("In battle: %v", s.inBattle),
		"Stats: " + strings.Join(parts, " "),
	}
}

// TraceLine summarises the battle state after a turn.
func (s *Session) TraceLine() string {
	var names []string
	for _, e := range s.enemies {
		names = append(names, fmt.Sprintf("%s(%d/%d)", e.Name, e.HP, e.MaxHP))
	}
	return fmt.Sprintf("[trace] room=%q battle=%v enemies=%v", s.RoomTitle(), s.inBattle, names)
}

// Exits lists the exit links of the room last shown.
func (s *Session) Exits() []string {
	if s.room == nil {
		return nil
	}
	links := make([]string, 0, len(s.room.Exits))
	for _, e := range s.room.Exits {
		links = append(links, e.Link)
	}
	return links
}
