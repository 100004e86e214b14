package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nathoo/drgrpg/cli"
	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/engine/player"
	"github.com/nathoo/drgrpg/store"
	"github.com/nathoo/drgrpg/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game in this terminal",
	Long: `Runs turns in-process against the configured world and store.
Uses the full-screen interface on a terminal and plain text otherwise.
The player record is created on first play if it does not exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("player")
		name, _ := cmd.Flags().GetString("name")
		plain, _ := cmd.Flags().GetBool("plain")
		trace, _ := cmd.Flags().GetBool("trace")
		script, _ := cmd.Flags().GetString("script")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		eng, err := a.engine()
		if err != nil {
			return err
		}
		// The terminal is the interface; turns are never throttled locally
		// and engine logs would tear the screen.
		eng.Throttle = 0
		eng.Log = zap.NewNop()

		ctx := cmd.Context()
		if err := ensurePlayer(ctx, a, id, name); err != nil {
			return err
		}

		if script != "" {
			f, err := os.Open(script)
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()
			c := cli.New(eng, a.players, id)
			c.In = f
			c.EchoInput = true
			c.Trace = trace
			return c.Run(ctx)
		}

		if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
			c := cli.New(eng, a.players, id)
			c.Trace = trace
			return c.Run(ctx)
		}
		return tui.Run(ctx, eng, a.players, id)
	},
}

func init() {
	playCmd.Flags().Int("player", 1, "player id")
	playCmd.Flags().String("name", "Adventurer", "name for a new player")
	playCmd.Flags().Bool("plain", false, "plain line-based output")
	playCmd.Flags().Bool("trace", false, "print battle state after each turn")
	playCmd.Flags().String("script", "", "read commands from a file (implies --plain)")
	rootCmd.AddCommand(playCmd)
}

// ensurePlayer creates the record for id in the start room if it is missing.
func ensurePlayer(ctx context.Context, a *app, id int, name string) error {
	_, err := a.players.Load(ctx, id)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return createPlayer(ctx, a, id, name)
}

func createPlayer(ctx context.Context, a *app, id int, name string) error {
	room, ok := a.world.Catalog.IDOf(content.KindRoom, a.cfg.StartRoom)
	if !ok {
		return fmt.Errorf("start room %q is not in the world", a.cfg.StartRoom)
	}
	return a.players.Create(ctx, player.NewRecord(id, name, room))
}
