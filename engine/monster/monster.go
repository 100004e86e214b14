// Package monster implements battle monster instances.
package monster

import (
	"math"

	"github.com/nathoo/drgrpg/engine/delta"
	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/engine/stats"
	"github.com/nathoo/drgrpg/types"
)

// DefaultName is used for snapshots saved without a name.
const DefaultName = "Unknown Beast"

// Variance is the percentage a template stat may drift when rolled.
const Variance = 5

var specs = map[string]stats.Spec{
	"hp":          {Min: 0, Max: "max_hp"},
	"max_hp":      {Min: 1},
	"attack":      {Min: 1},
	"defense":     {Min: 0},
	"reward_gold": {Min: 0},
	"reward_exp":  {Min: 0},
}

// Reward is what the player earns for a defeat.
type Reward struct {
	XP   int
	Gold int
}

// View is the client-facing monster block.
type View struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// Monster is one combatant in a battle.
type Monster struct {
	name    string
	image   string
	stats   *stats.Block
	results delta.Payload
}

// FromTemplate rolls a fresh monster. Every stat drifts by up to ±5%;
// max_hp is the rolled hp.
func FromTemplate(def types.MonsterDef, r *rng.RNG) *Monster {
	m := newMonster(def.Name, def.Image)
	m.stats.Set("max_hp", roll(def.HP, specs["max_hp"].Min, r))
	m.stats.Set("hp", m.stats.Get("max_hp"))
	m.stats.Set("attack", roll(def.Attack, specs["attack"].Min, r))
	m.stats.Set("defense", roll(def.Defense, specs["defense"].Min, r))
	m.stats.Set("reward_gold", roll(def.RewardGold, specs["reward_gold"].Min, r))
	m.stats.Set("reward_exp", roll(def.RewardExp, specs["reward_exp"].Min, r))
	return m
}

// FromSnapshot rebuilds a monster saved mid-battle. Nothing is re-rolled.
func FromSnapshot(s types.MonsterSnapshot) *Monster {
	name := s.Name
	if name == "" {
		name = DefaultName
	}
	m := newMonster(name, s.Image)
	m.stats.Load(map[string]int{
		"hp":          s.HP,
		"max_hp":      s.MaxHP,
		"attack":      s.Attack,
		"defense":     s.Defense,
		"reward_gold": s.RewardGold,
		"reward_exp":  s.RewardExp,
	})
	return m
}

func newMonster(name, image string) *Monster {
	return &Monster{
		name:    name,
		image:   image,
		stats:   stats.New(specs),
		results: delta.Payload{},
	}
}

// roll varies value by ±Variance percent, never below floor.
func roll(value, floor int, r *rng.RNG) int {
	if value < floor {
		return floor
	}
	pct := float64(Variance) / 100
	lo := math.Max(float64(value)-float64(value)*pct, float64(floor))
	hi := math.Max(float64(value)+float64(value)*pct, float64(floor))
	return r.Between(int(lo), int(hi))
}

func (m *Monster) Name() string  { return m.name }
func (m *Monster) HP() int       { return m.stats.Get("hp") }
func (m *Monster) MaxHP() int    { return m.stats.Get("max_hp") }
func (m *Monster) Attack() int   { return m.stats.Get("attack") }
func (m *Monster) Defense() int  { return m.stats.Get("defense") }
func (m *Monster) Alive() bool   { return m.HP() > 0 }
func (m *Monster) Image() string { return m.image }

// TakeDamage lowers hp by dmg. Non-positive damage does nothing. The
// reward is returned only on the hit that takes hp to 0, so a defeated
// monster never pays out twice.
func (m *Monster) TakeDamage(dmg int) (Reward, bool) {
	if dmg <= 0 || !m.Alive() {
		return Reward{}, false
	}
	m.stats.Augment("hp", -dmg)
	if m.Alive() {
		return Reward{}, false
	}
	reward := Reward{XP: m.stats.Get("reward_exp"), Gold: m.stats.Get("reward_gold")}
	m.results.Add("monsterDefeated", []any{m.name, reward.XP, reward.Gold})
	return reward, true
}

// Results returns the messages buffered this turn.
func (m *Monster) Results() delta.Payload {
	return m.results
}

// View returns the client-facing block.
func (m *Monster) View() View {
	return View{Name: m.name, Image: m.image, HP: m.HP(), MaxHP: m.MaxHP()}
}

// Snapshot returns the persisted form.
func (m *Monster) Snapshot() types.MonsterSnapshot {
	return types.MonsterSnapshot{
		Name:       m.name,
		Image:      m.image,
		HP:         m.HP(),
		MaxHP:      m.MaxHP(),
		Attack:     m.Attack(),
		Defense:    m.Defense(),
		RewardGold: m.stats.Get("reward_gold"),
		RewardExp:  m.stats.Get("reward_exp"),
	}
}
