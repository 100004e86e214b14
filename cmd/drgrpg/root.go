package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nathoo/drgrpg/config"
	"github.com/nathoo/drgrpg/engine"
	"github.com/nathoo/drgrpg/loader"
	"github.com/nathoo/drgrpg/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "drgrpg",
	Short:         "A turn-based text RPG engine",
	SilenceUsage:  true,
	Long: `drgrpg resolves one player's turn at a time against a world written
in Lua and YAML: movement, room objects, equipment, skills, and combat.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./drgrpg.yaml)")
	rootCmd.PersistentFlags().String("content", "", "world directory (overrides content_dir)")
	rootCmd.PersistentFlags().String("store", "", "store driver: file, sqlite, or memory (overrides store.driver)")
}

// app is everything a command needs: settings, a logger, the compiled
// world, and the player store.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	world   *loader.Result
	players store.Store
}

// setup reads configuration, builds the logger, loads the world, and
// opens the store. Load warnings are logged, not fatal.
func setup(cmd *cobra.Command) (*app, error) {
	v := viper.New()
	if err := v.BindPFlag("content_dir", cmd.Flags().Lookup("content")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("store.driver", cmd.Flags().Lookup("store")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	world, err := loader.Load(cfg.ContentDir, cfg.StartRoom)
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	for _, w := range world.Warnings {
		log.Warn("world", zap.String("warning", w))
	}

	players, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, world: world, players: players}, nil
}

// engine wires the configured hooks, messages, and throttle into a new
// engine over the loaded world.
func (a *app) engine() (*engine.Engine, error) {
	hooks, err := a.cfg.CombatHooks()
	if err != nil {
		return nil, fmt.Errorf("compiling hooks: %w", err)
	}
	eng := engine.New(a.world.Catalog, a.players)
	eng.Hooks = hooks
	eng.Messages = a.cfg.PlayerMessages()
	eng.Throttle = a.cfg.Throttle
	eng.StartRoom = a.cfg.StartRoom
	eng.Log = a.log
	return eng, nil
}

func (a *app) close() {
	if err := a.players.Close(); err != nil {
		a.log.Error("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}
