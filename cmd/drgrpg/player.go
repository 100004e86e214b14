package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/drgrpg/store"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage player records",
}

var playerCreateCmd = &cobra.Command{
	Use:   "create <id> <name>",
	Short: "Create a player in the start room",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("player id must be a positive integer, got %q", args[0])
		}
		name := strings.Join(args[1:], " ")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := createPlayer(cmd.Context(), a, id, name); err != nil {
			if errors.Is(err, store.ErrExists) {
				return fmt.Errorf("player %d already exists", id)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created player %d (%s) in %s.\n", id, name, a.cfg.StartRoom)
		return nil
	},
}

func init() {
	playerCmd.AddCommand(playerCreateCmd)
	rootCmd.AddCommand(playerCmd)
}
