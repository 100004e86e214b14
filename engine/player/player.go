// Package player implements the persistent player entity: stats, items,
// quest progress, guilds, skills, achievements, and the turn-scoped dirty
// flags that decide what the client is sent.
package player

import (
	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/engine/stats"
	"github.com/nathoo/drgrpg/types"
)

// Defaults for a brand new player.
const (
	DefaultStartRoom = "New Player Arrival"
	StartingGold     = 100
)

// Slots lists the equipment slots in display order. An item's type names
// the slot it fits.
var Slots = []string{"back", "bodyarmor", "boots", "helmet", "leggings", "necklace", "shield", "weapon"}

var specs = map[string]stats.Spec{
	"hp":      {Min: 0, Max: "max_hp"},
	"max_hp":  {Min: 50},
	"mp":      {Min: 0, Max: "max_mp"},
	"max_mp":  {Min: 25},
	"str":     {Min: 1},
	"dex":     {Min: 1},
	"int":     {Min: 1},
	"attack":  {Min: 0},
	"defense": {Min: 0},
	"gold":    {Min: 0},
	"xp":      {Min: 0},
}

// Dirty flags mark what changed this turn. They are never persisted.
type Dirty struct {
	Stats      bool
	Skills     bool
	Items      bool
	Moved      bool
	QuestFlags bool
	Guild      bool
	Healed     bool
	Damaged    bool
}

// Deps are the collaborators a loaded player uses.
type Deps struct {
	Content  content.Lookup
	RNG      *rng.RNG
	Messages Messages
}

// Player is one account's game state for the duration of a turn.
type Player struct {
	id     int
	name   string
	avatar string

	stats        *stats.Block
	inventory    []types.ItemSnapshot
	equipment    map[string]*types.ItemSnapshot
	currentRoom  int
	questFlags   map[string]int
	currentGuild string
	guildLevels  map[string]types.GuildLevel
	skills       map[string]int
	achievements []int
	lastAccess   int64

	savedBattle *types.BattleSnapshot
	activeSkill *types.ActiveSkill

	Dirty           Dirty
	notifications   []types.Notification
	newAchievements []types.AchievementDef

	content content.Lookup
	rng     *rng.RNG
	msgs    Messages
}

// NewRecord returns the record for a player who has never played.
// Vitals are left unset so Load fills them at their maximums.
func NewRecord(id int, name string, startRoom int) types.PlayerRecord {
	return types.PlayerRecord{
		ID:          id,
		Name:        name,
		Stats:       map[string]int{"gold": StartingGold},
		CurrentRoom: startRoom,
	}
}

// Load builds a player from its persisted record.
func Load(rec types.PlayerRecord, deps Deps) *Player {
	p := &Player{
		id:           rec.ID,
		name:         rec.Name,
		avatar:       rec.Avatar,
		stats:        stats.New(specs),
		inventory:    append([]types.ItemSnapshot(nil), rec.Inventory...),
		equipment:    map[string]*types.ItemSnapshot{},
		currentRoom:  rec.CurrentRoom,
		questFlags:   copyInts(rec.QuestFlags),
		currentGuild: rec.CurrentGuild,
		guildLevels:  map[string]types.GuildLevel{},
		skills:       copyInts(rec.Skills),
		achievements: append([]int(nil), rec.Achievements...),
		lastAccess:   rec.LastAccess,
		content:      deps.Content,
		rng:          deps.RNG,
		msgs:         deps.Messages.WithDefaults(),
	}
	if p.rng == nil {
		p.rng = rng.New(0)
	}
	p.stats.Load(rec.Stats)
	if _, ok := rec.Stats["hp"]; !ok {
		p.stats.Set("hp", p.stats.Get("max_hp"))
	}
	if _, ok := rec.Stats["mp"]; !ok {
		p.stats.Set("mp", p.stats.Get("max_mp"))
	}
	for _, slot := range Slots {
		if it := rec.Equipment[slot]; it != nil {
			cp := *it
			p.equipment[slot] = &cp
		}
	}
	for name, gl := range rec.GuildLevels {
		p.guildLevels[name] = gl
	}
	if rec.SavedBattle != nil && len(rec.SavedBattle.Enemies) > 0 {
		snap := cloneBattle(*rec.SavedBattle)
		p.savedBattle = &snap
	}
	return p
}

// Record returns the canonical persisted state with last_access set to now.
func (p *Player) Record(now int64) types.PlayerRecord {
	rec := types.PlayerRecord{
		ID:           p.id,
		Name:         p.name,
		Avatar:       p.avatar,
		Stats:        p.stats.Values(),
		Inventory:    append([]types.ItemSnapshot{}, p.inventory...),
		Equipment:    p.Equipment(),
		CurrentRoom:  p.currentRoom,
		QuestFlags:   copyInts(p.questFlags),
		CurrentGuild: p.currentGuild,
		GuildLevels:  map[string]types.GuildLevel{},
		Skills:       copyInts(p.skills),
		Achievements: append([]int{}, p.achievements...),
		LastAccess:   now,
	}
	for name, gl := range p.guildLevels {
		rec.GuildLevels[name] = gl
	}
	if p.savedBattle != nil {
		snap := cloneBattle(*p.savedBattle)
		rec.SavedBattle = &snap
	}
	return rec
}

func (p *Player) ID() int           { return p.id }
func (p *Player) Name() string      { return p.name }
func (p *Player) Avatar() string    { return p.avatar }
func (p *Player) LastAccess() int64 { return p.lastAccess }
func (p *Player) CurrentRoom() int  { return p.currentRoom }

// Messages returns the notification templates in use.
func (p *Player) Messages() Messages { return p.msgs }

// Content returns the content lookup the player resolves against.
func (p *Player) Content() content.Lookup { return p.content }

// MoveTo changes the current room and marks the player as moved.
func (p *Player) MoveTo(roomID int) {
	p.currentRoom = roomID
	p.Dirty.Moved = true
}

// MarkAllChanged forces a full snapshot to the client.
func (p *Player) MarkAllChanged() {
	p.Dirty.Guild = true
	p.Dirty.Healed = true
	p.Dirty.Items = true
	p.Dirty.Moved = true
	p.Dirty.Skills = true
	p.Dirty.Stats = true
}

// Stat returns a stat value.
func (p *Player) Stat(name string) int {
	return p.stats.Get(name)
}

// Stats returns a copy of every stat.
func (p *Player) Stats() map[string]int {
	return p.stats.Values()
}

// Augment changes a stat. A drop in a bounded vital marks the player
// damaged, which suppresses natural healing this turn.
func (p *Player) Augment(name string, delta int) bool {
	ch, ok := p.stats.Augment(name, delta)
	if !ok {
		return false
	}
	if (name == "hp" || name == "mp") && ch.Decreased() {
		p.Dirty.Damaged = true
	}
	p.Dirty.Stats = true
	return true
}

// HealNaturally restores 1 hp and 1 mp when below maximum, unless the
// player already healed or took damage this turn.
func (p *Player) HealNaturally() {
	if p.Dirty.Healed || p.Dirty.Damaged {
		return
	}
	if p.Stat("hp") < p.Stat("max_hp") {
		p.Augment("hp", 1)
	}
	if p.Stat("mp") < p.Stat("max_mp") {
		p.Augment("mp", 1)
	}
	p.Dirty.Healed = true
}

// Notify queues a message for the client.
func (p *Player) Notify(kind, message string) {
	p.notifications = append(p.notifications, types.Notification{Type: kind, Message: message})
}

// Notifications returns the messages queued this turn.
func (p *Player) Notifications() []types.Notification {
	return p.notifications
}

// SavedBattle returns the battle that will be persisted, or nil.
func (p *Player) SavedBattle() *types.BattleSnapshot {
	return p.savedBattle
}

// InBattle reports whether a battle with enemies is saved.
func (p *Player) InBattle() bool {
	return p.savedBattle != nil && len(p.savedBattle.Enemies) > 0
}

// SaveBattle stores the battle snapshot for persistence.
func (p *Player) SaveBattle(snap types.BattleSnapshot) {
	s := cloneBattle(snap)
	p.savedBattle = &s
}

// ClearBattle ends any battle.
func (p *Player) ClearBattle() {
	p.savedBattle = nil
}

func cloneBattle(b types.BattleSnapshot) types.BattleSnapshot {
	b.Enemies = append([]types.MonsterSnapshot(nil), b.Enemies...)
	return b
}

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
