// Package types defines the shared data structures for the DRGRPG turn engine.
// This package holds only type definitions: no logic, no methods.
package types

// Action is one queued (name, argument) pair submitted with a turn.
// Arg is the decoded JSON argument: a string, a number, or a map for
// item snapshots.
type Action struct {
	Name string
	Arg  any
}

// Notification is a typed message for the player ("guild", "skill",
// "error", "goodNews", "achievement").
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ItemSnapshot is a value copy of an item carried in inventory, equipment,
// and the persisted record. Two snapshots are the same item only if every
// field matches.
type ItemSnapshot struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
}

// MonsterSnapshot is the persisted form of a monster inside a saved battle.
type MonsterSnapshot struct {
	Name       string `json:"name"`
	Image      string `json:"image"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"max_hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	RewardGold int    `json:"reward_gold"`
	RewardExp  int    `json:"reward_exp"`
}

// BattleInfo carries the round counter of a saved battle.
type BattleInfo struct {
	Round int `json:"round"`
}

// BattleSnapshot is the persisted state of an ongoing battle.
type BattleSnapshot struct {
	Info    BattleInfo        `json:"info"`
	Enemies []MonsterSnapshot `json:"enemies"`
}

// GuildLevel records a player's standing in one guild.
type GuildLevel struct {
	ID    int `json:"id"`
	Level int `json:"level"`
}

// ActiveSkill is a skill queued for the next combat round. Never persisted.
type ActiveSkill struct {
	Name     string `json:"name"`
	Effect   string `json:"effect"`
	Cost     int    `json:"cost"`
	Strength int    `json:"strength"`
}

// PlayerRecord is the canonical persisted player state.
type PlayerRecord struct {
	ID           int                      `json:"id"`
	Name         string                   `json:"name"`
	Avatar       string                   `json:"avatar,omitempty"`
	Stats        map[string]int           `json:"stats"`
	Inventory    []ItemSnapshot           `json:"inventory"`
	Equipment    map[string]*ItemSnapshot `json:"equipped_items"`
	CurrentRoom  int                      `json:"current_room"`
	QuestFlags   map[string]int           `json:"quest_flags"`
	CurrentGuild string                   `json:"current_guild,omitempty"`
	GuildLevels  map[string]GuildLevel    `json:"guild_levels"`
	Skills       map[string]int           `json:"skills"`
	Achievements []int                    `json:"achievements"`
	SavedBattle  *BattleSnapshot          `json:"saved_battle,omitempty"`
	LastAccess   int64                    `json:"last_access"` // unix seconds, 0 = never played
}

// Requirement is an authored gating condition on a room object or exit.
// Value uses the authored string forms ("flag=2", "Fighters=1", "12").
type Requirement struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	Match string `json:"match,omitempty" yaml:"match"` // "exact" or "minimum"
}

// ActionSpec is an authored object action. Type "multiple" carries a
// ';'-separated list of "type-value" pairs in Value.
type ActionSpec struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// ObjectDef is a room object the player can examine or act on.
type ObjectDef struct {
	Name        string
	Group       string // "examine", "action", "npc"
	Description string
	Action      ActionSpec
	Requires    Requirement
}

// ExitDef links a room to another room.
type ExitDef struct {
	Link     string
	RoomID   int
	Requires Requirement
}

// RoomDef is the authored template of a location.
type RoomDef struct {
	ID          int
	Title       string
	Description string
	Environment string
	Objects     []ObjectDef
	Exits       []ExitDef
	Monsters    []int // monster template ids
	MaxMonsters int
}

// MonsterDef is the authored template of a monster.
type MonsterDef struct {
	ID         int
	Name       string
	Image      string
	HP         int
	Attack     int
	Defense    int
	RewardGold int
	RewardExp  int
}

// ItemDef is the authored template of an item.
type ItemDef struct {
	ID          int
	Name        string
	Description string
	Type        string
	Attack      int
	Defense     int
}

// SkillDef is the authored template of a skill.
type SkillDef struct {
	ID          int
	Name        string
	Description string
	Effect      string
	Cost        int
	Strength    int
	Variability int // percent
}

// GuildDef is the authored template of a guild.
type GuildDef struct {
	ID          int
	Name        string
	Description string
}

// AchievementDef is the authored template of an achievement.
type AchievementDef struct {
	ID    int
	Title string
	Text  string
}
