// Package config loads server settings with viper and builds the zap
// logger every command shares.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/drgrpg/engine/combat"
	"github.com/nathoo/drgrpg/engine/formula"
	"github.com/nathoo/drgrpg/engine/player"
)

// EnvPrefix prefixes environment overrides: DRGRPG_STORE_DRIVER=sqlite.
const EnvPrefix = "DRGRPG"

// Config is the full server configuration.
type Config struct {
	Listen     string        `mapstructure:"listen"`
	ContentDir string        `mapstructure:"content_dir"`
	StartRoom  string        `mapstructure:"start_room"`
	Throttle   time.Duration `mapstructure:"throttle"`
	Store      Store         `mapstructure:"store"`
	Log        Log           `mapstructure:"log"`
	Hooks      Hooks         `mapstructure:"hooks"`
	Messages   Messages      `mapstructure:"messages"`
}

type Store struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Hooks are CEL expressions adjusting attack power. Empty means unchanged.
type Hooks struct {
	PlayerSkillPower  string `mapstructure:"player_skill_power"`
	PlayerAttackPower string `mapstructure:"player_attack_power"`
	EnemyAttackPower  string `mapstructure:"enemy_attack_power"`
}

// Messages override notification texts. Empty keeps the stock wording.
type Messages struct {
	GuildJoined   string `mapstructure:"guild_joined"`
	GuildRejoined string `mapstructure:"guild_rejoined"`
	GuildLeft     string `mapstructure:"guild_left"`
	GuildAdvanced string `mapstructure:"guild_advanced"`
	SkillLearned  string `mapstructure:"skill_learned"`
	Achievement   string `mapstructure:"achievement"`
	NeedGold      string `mapstructure:"need_gold"`
	Purchased     string `mapstructure:"purchased"`
	InvalidItem   string `mapstructure:"invalid_item"`
}

// SetDefaults registers every key so environment overrides resolve even
// without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("content_dir", "./world")
	v.SetDefault("start_room", player.DefaultStartRoom)
	v.SetDefault("throttle", "3s")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "./data")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("hooks.player_skill_power", "")
	v.SetDefault("hooks.player_attack_power", "")
	v.SetDefault("hooks.enemy_attack_power", "")
	for _, k := range []string{"guild_joined", "guild_rejoined", "guild_left", "guild_advanced",
		"skill_learned", "achievement", "need_gold", "purchased", "invalid_item"} {
		v.SetDefault("messages."+k, "")
	}
}

// Load reads configuration from file (if given or found) and environment.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("drgrpg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if c.Throttle < 0 {
		return Config{}, fmt.Errorf("throttle must not be negative, got %s", c.Throttle)
	}
	return c, nil
}

// PlayerMessages returns the notification texts with defaults filled in.
func (c Config) PlayerMessages() player.Messages {
	m := c.Messages
	return player.Messages{
		GuildJoined:   m.GuildJoined,
		GuildRejoined: m.GuildRejoined,
		GuildLeft:     m.GuildLeft,
		GuildAdvanced: m.GuildAdvanced,
		SkillLearned:  m.SkillLearned,
		Achievement:   m.Achievement,
		NeedGold:      m.NeedGold,
		Purchased:     m.Purchased,
		InvalidItem:   m.InvalidItem,
	}.WithDefaults()
}

// CombatHooks compiles the configured power hooks.
func (c Config) CombatHooks() (combat.Hooks, error) {
	set, err := formula.CompileSet(c.Hooks.PlayerSkillPower, c.Hooks.PlayerAttackPower, c.Hooks.EnemyAttackPower)
	if err != nil {
		return combat.Hooks{}, err
	}
	return set.Hooks(), nil
}

// NewLogger builds a JSON production logger, or a colored console logger
// in development.
func NewLogger(c Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var zc zap.Config
	if c.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
