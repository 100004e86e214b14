package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/drgrpg/engine/player"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Listen != ":8080" {
		t.Errorf("Listen = %q", c.Listen)
	}
	if c.ContentDir != "./world" {
		t.Errorf("ContentDir = %q", c.ContentDir)
	}
	if c.StartRoom != player.DefaultStartRoom {
		t.Errorf("StartRoom = %q", c.StartRoom)
	}
	if c.Throttle != 3*time.Second {
		t.Errorf("Throttle = %v", c.Throttle)
	}
	if c.Store != (Store{Driver: "file", Path: "./data"}) {
		t.Errorf("Store = %+v", c.Store)
	}
	if c.Log.Level != "info" {
		t.Errorf("Log.Level = %q", c.Log.Level)
	}
	if c.PlayerMessages() != player.DefaultMessages() {
		t.Errorf("messages = %+v", c.PlayerMessages())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "game.yaml")
	err := os.WriteFile(file, []byte(`
listen: ":9000"
throttle: 5s
store:
  driver: sqlite
  path: /tmp/players.db
hooks:
  enemy_attack_power: "power + round"
messages:
  need_gold: "Come back with %d gold."
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRGRPG_LISTEN", ":9100")
	t.Setenv("DRGRPG_LOG_LEVEL", "debug")

	c, err := Load(viper.New(), file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Listen != ":9100" {
		t.Errorf("Listen = %q, environment should win over file", c.Listen)
	}
	if c.Throttle != 5*time.Second {
		t.Errorf("Throttle = %v", c.Throttle)
	}
	if c.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q", c.Store.Driver)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", c.Log.Level)
	}

	msgs := c.PlayerMessages()
	if msgs.NeedGold != "Come back with %d gold." {
		t.Errorf("NeedGold = %q", msgs.NeedGold)
	}
	if msgs.Purchased != player.DefaultMessages().Purchased {
		t.Errorf("Purchased = %q, want default", msgs.Purchased)
	}

	hooks, err := c.CombatHooks()
	if err != nil {
		t.Fatalf("CombatHooks: %v", err)
	}
	if got := hooks.EnemyAttack(10, 2); got != 12 {
		t.Errorf("EnemyAttack(10, 2) = %d, want 12", got)
	}
	if got := hooks.PlayerAttack(10, 2); got != 10 {
		t.Errorf("PlayerAttack(10, 2) = %d, want 10", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing Explicit File", func(t *testing.T) {
		if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Negative Throttle", func(t *testing.T) {
		t.Setenv("DRGRPG_THROTTLE", "-1s")
		t.Chdir(t.TempDir())
		if _, err := Load(viper.New(), ""); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Bad Hook", func(t *testing.T) {
		c := Config{Hooks: Hooks{PlayerAttackPower: "power +"}}
		if _, err := c.CombatHooks(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(Log{Level: "warn"})
	if err != nil {
		t.Fatalf("NewLogger(warn): %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at warn")
	}

	log, err = NewLogger(Log{Level: "debug", Development: true})
	if err != nil {
		t.Fatalf("NewLogger(debug): %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled")
	}

	if _, err := NewLogger(Log{Level: "loud"}); err == nil {
		t.Error("unknown level should fail")
	}
}
