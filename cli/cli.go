// Package cli provides the plain terminal client: line input, rendered
// turn output, and meta-command dispatch. It drives the engine in-process.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/drgrpg/engine"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *Session
	Records   engine.Store // player records, for /save and /load
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI for one player.
func New(t Turner, records engine.Store, playerID int) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Session: NewSession(t, playerID),
		Records: records,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".drgrpg", "saves"),
	}
}

// Run starts the game loop: the first turn, then prompt, input, dispatch,
// output until input ends or the player quits.
func (c *CLI) Run(ctx context.Context) error {
	lines, err := c.Session.Start(ctx)
	if err != nil {
		return err
	}
	c.printLines(lines)

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return nil
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		lines, err := c.Session.Do(ctx, input)
		if err != nil {
			if errors.Is(err, engine.ErrPlayerNotFound) {
				return err
			}
			c.printSystem(fmt.Sprintf("Turn failed: %v", err))
			continue
		}
		c.printLines(lines)
		if c.Trace {
			c.printSystem(c.Session.TraceLine())
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(ctx, arg)

	case "/load":
		c.cmdLoad(ctx, arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(ctx context.Context, name string) {
	if name == "" {
		name = "quicksave"
	}
	if err := SaveGame(ctx, c.Records, c.Session.PlayerID, c.SaveDir, name); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

// cmdLoad replaces the player's record with a saved one and replays the
// first turn so the whole view refreshes.
func (c *CLI) cmdLoad(ctx context.Context, name string) {
	if name == "" {
		name = "quicksave"
	}
	if err := LoadGame(ctx, c.Records, c.Session.PlayerID, c.SaveDir, name); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game loaded from %s.", name))

	lines, err := c.Session.Start(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printLines(lines)
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpText() {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	for _, line := range c.Session.StateLines() {
		c.printSystem(line)
	}
}

func (c *CLI) printLines(lines []Line) {
	for _, l := range lines {
		switch l.Kind {
		case KindNotification:
			c.printLine("* " + l.Text)
		case KindError:
			c.printLine("! " + l.Text)
		case KindSystem:
			c.printSystem(l.Text)
		case KindRoom:
			c.printLine("")
			c.printLine("== " + l.Text + " ==")
		default:
			c.printLine(l.Text)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
