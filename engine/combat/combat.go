// Package combat resolves battles between a player and a group of
// monsters, one round per turn.
//
// A Combat is rebuilt every turn. When the player carries a saved battle
// the round counter continues from it (saved round + 1).
package combat

import (
	"fmt"

	"github.com/nathoo/drgrpg/engine/delta"
	"github.com/nathoo/drgrpg/engine/monster"
	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/types"
)

// Fighter is the player side of a battle.
type Fighter interface {
	Stat(name string) int
	Augment(name string, delta int) bool
	ActiveSkill() *types.ActiveSkill
	ClearActiveSkill()
	SavedBattle() *types.BattleSnapshot
	SaveBattle(types.BattleSnapshot)
	ClearBattle()
}

// Arena supplies monsters for a new battle.
type Arena interface {
	MaxMonsters() int
	MonsterCount() int
	RandomMonsters(n int, r *rng.RNG) []*monster.Monster
}

// PowerFunc adjusts an attack power for the given round.
type PowerFunc func(power, round int) int

// Hooks adjust attack power before defense is applied. Nil hooks leave
// power unchanged.
type Hooks struct {
	PlayerSkill  PowerFunc
	PlayerAttack PowerFunc
	EnemyAttack  PowerFunc
}

// Combat is one turn's view of a battle.
type Combat struct {
	fighter Fighter
	rng     *rng.RNG
	hooks   Hooks

	round   int
	enemies []*monster.Monster
	out     delta.Payload
}

// New prepares combat for the fighter, continuing any saved battle.
func New(f Fighter, r *rng.RNG, hooks Hooks) *Combat {
	c := &Combat{fighter: f, rng: r, hooks: hooks, round: 1, out: delta.Payload{}}
	if saved := f.SavedBattle(); saved != nil {
		c.round = 1
		if saved.Info.Round > 0 {
			c.round = saved.Info.Round + 1
		}
		for _, s := range saved.Enemies {
			c.enemies = append(c.enemies, monster.FromSnapshot(s))
		}
	}
	return c
}

// Round returns the current round number.
func (c *Combat) Round() int { return c.round }

// Enemies returns the monsters in list order.
func (c *Combat) Enemies() []*monster.Monster { return c.enemies }

// InitiateNewBattle rolls between 1 and the arena's maximum monsters and
// saves the battle at round 1. It fails when the arena has no monsters or
// allows none.
func (c *Combat) InitiateNewBattle(a Arena) (delta.Payload, bool) {
	if a.MonsterCount() == 0 || a.MaxMonsters() <= 0 {
		return nil, false
	}
	n := c.rng.Between(1, a.MaxMonsters())
	enemies := a.RandomMonsters(n, c.rng)
	if len(enemies) == 0 {
		return nil, false
	}
	c.round = 1
	c.enemies = enemies
	c.out = delta.Payload{}
	c.save()
	c.addBattleData()
	return c.out, true
}

// InitiateExistingBattle describes the saved battle without rolling
// anything.
func (c *Combat) InitiateExistingBattle() delta.Payload {
	out := delta.Payload{}
	out.Add("round", c.round)
	out.Add("enemies", c.views())
	return out
}

// ExecuteBattleTurn plays one round: the player strikes the first living
// monster, rewards are banked, then every living monster strikes back.
// Returns nil when there is nobody to fight.
func (c *Combat) ExecuteBattleTurn() delta.Payload {
	if len(c.enemies) == 0 {
		return nil
	}
	c.out = delta.Payload{}

	if target := c.target(); target != nil {
		c.playerStrikes(target)
	}

	for _, m := range c.enemies {
		if !m.Alive() {
			continue
		}
		if c.enemyStrikes(m) {
			c.lose(m.Name())
			return c.out
		}
	}

	c.endTurn()
	return c.out
}

// Flee abandons the battle.
func (c *Combat) Flee() delta.Payload {
	c.fighter.ClearBattle()
	out := delta.Payload{}
	out.Add("flee", 1)
	return out
}

func (c *Combat) target() *monster.Monster {
	for _, m := range c.enemies {
		if m.Alive() {
			return m
		}
	}
	return nil
}

func (c *Combat) playerStrikes(target *monster.Monster) {
	var dmg int
	skill := c.fighter.ActiveSkill()
	if skill != nil && skill.Name != "" && c.fighter.Stat("mp") >= skill.Cost {
		dmg = mitigate(apply(c.hooks.PlayerSkill, skill.Strength, c.round), target.Defense(), c.rng)
		c.credit(target.TakeDamage(dmg))
		c.out.Add("playerSkillUsed", fmt.Sprintf("You caused %d damage to %s with your %s skill.", dmg, target.Name(), skill.Name))
		c.fighter.Augment("mp", -skill.Cost)
		c.fighter.ClearActiveSkill()
		return
	}
	base := spread(c.fighter.Stat("attack"), 10, c.rng)
	dmg = mitigate(apply(c.hooks.PlayerAttack, base, c.round), target.Defense(), c.rng)
	c.credit(target.TakeDamage(dmg))
}

// credit banks a defeat reward right away, before any retaliation.
func (c *Combat) credit(r monster.Reward, defeated bool) {
	if !defeated {
		return
	}
	c.fighter.Augment("xp", r.XP)
	c.fighter.Augment("gold", r.Gold)
}

// enemyStrikes reports whether the hit took the fighter to 0 hp.
func (c *Combat) enemyStrikes(m *monster.Monster) bool {
	base := spread(m.Attack(), 15, c.rng)
	dmg := mitigate(apply(c.hooks.EnemyAttack, base, c.round), c.fighter.Stat("defense"), c.rng)
	if dmg <= 0 {
		return false
	}
	c.fighter.Augment("hp", -dmg)
	return c.fighter.Stat("hp") == 0
}

func (c *Combat) lose(killer string) {
	c.out.Add("results", c.results())
	c.out.Add("playerDefeated", killer)
	c.fighter.ClearBattle()
}

func (c *Combat) endTurn() {
	c.addBattleData()
	c.out.Add("results", c.results())
	if c.target() == nil {
		c.out.Add("endCombat", "y")
		c.fighter.ClearBattle()
		return
	}
	c.save()
}

func (c *Combat) addBattleData() {
	c.out.Add("round", c.round)
	c.out.Add("enemies", c.views())
}

func (c *Combat) results() []delta.Payload {
	var out []delta.Payload
	for _, m := range c.enemies {
		if r := m.Results(); len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}

func (c *Combat) views() []monster.View {
	views := make([]monster.View, 0, len(c.enemies))
	for _, m := range c.enemies {
		views = append(views, m.View())
	}
	return views
}

func (c *Combat) save() {
	snap := types.BattleSnapshot{Info: types.BattleInfo{Round: c.round}}
	for _, m := range c.enemies {
		snap.Enemies = append(snap.Enemies, m.Snapshot())
	}
	c.fighter.SaveBattle(snap)
}

func apply(h PowerFunc, power, round int) int {
	if h == nil {
		return power
	}
	return h(power, round)
}
