// Package content resolves authored templates (rooms, monsters, items,
// skills, guilds, achievements) by id or title.
package content

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/types"
)

// Ref identifies a template either by numeric id or by title.
// A non-zero ID takes precedence.
type Ref struct {
	ID    int
	Title string
}

// ByID returns a Ref for a template id.
func ByID(id int) Ref { return Ref{ID: id} }

// ByTitle returns a Ref for a template title.
func ByTitle(title string) Ref { return Ref{Title: title} }

// ParseRef reads an authored reference: a positive integer is an id,
// anything else is a title.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return ByID(n)
	}
	return ByTitle(s)
}

// Lookup is the read-only content repository the engine consults.
// Every method reports false when the reference does not resolve.
type Lookup interface {
	Room(Ref) (types.RoomDef, bool)
	Monster(Ref) (types.MonsterDef, bool)
	Item(Ref) (types.ItemDef, bool)
	Skill(Ref) (types.SkillDef, bool)
	Guild(Ref) (types.GuildDef, bool)
	Achievement(id int) (types.AchievementDef, bool)
	Achievements() []types.AchievementDef
}

// Catalog is an in-memory Lookup built by the loader.
type Catalog struct {
	Rooms    map[int]types.RoomDef
	Monsters map[int]types.MonsterDef
	Items    map[int]types.ItemDef
	Skills   map[int]types.SkillDef
	Guilds   map[int]types.GuildDef
	Awards   map[int]types.AchievementDef

	titles map[string]map[string]int // kind -> lower(title) -> id
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Rooms:    map[int]types.RoomDef{},
		Monsters: map[int]types.MonsterDef{},
		Items:    map[int]types.ItemDef{},
		Skills:   map[int]types.SkillDef{},
		Guilds:   map[int]types.GuildDef{},
		Awards:   map[int]types.AchievementDef{},
		titles:   map[string]map[string]int{},
	}
}

// Kind names used for title indexing.
const (
	KindRoom        = "room"
	KindMonster     = "monster"
	KindItem        = "item"
	KindSkill       = "skill"
	KindGuild       = "guild"
	KindAchievement = "achievement"
)

// AddRoom registers a room template.
func (c *Catalog) AddRoom(r types.RoomDef) {
	c.Rooms[r.ID] = r
	c.index(KindRoom, r.Title, r.ID)
}

// AddMonster registers a monster template.
func (c *Catalog) AddMonster(m types.MonsterDef) {
	c.Monsters[m.ID] = m
	c.index(KindMonster, m.Name, m.ID)
}

// AddItem registers an item template.
func (c *Catalog) AddItem(it types.ItemDef) {
	c.Items[it.ID] = it
	c.index(KindItem, it.Name, it.ID)
}

// AddSkill registers a skill template.
func (c *Catalog) AddSkill(s types.SkillDef) {
	c.Skills[s.ID] = s
	c.index(KindSkill, s.Name, s.ID)
}

// AddGuild registers a guild template.
func (c *Catalog) AddGuild(g types.GuildDef) {
	c.Guilds[g.ID] = g
	c.index(KindGuild, g.Name, g.ID)
}

// AddAchievement registers an achievement template.
func (c *Catalog) AddAchievement(a types.AchievementDef) {
	c.Awards[a.ID] = a
	c.index(KindAchievement, a.Title, a.ID)
}

// IDOf returns the id registered for a title of the given kind.
// Titles compare case-insensitively.
func (c *Catalog) IDOf(kind, title string) (int, bool) {
	id, ok := c.titles[kind][strings.ToLower(strings.TrimSpace(title))]
	return id, ok
}

func (c *Catalog) index(kind, title string, id int) {
	if title == "" {
		return
	}
	if c.titles == nil {
		c.titles = map[string]map[string]int{}
	}
	if c.titles[kind] == nil {
		c.titles[kind] = map[string]int{}
	}
	key := strings.ToLower(strings.TrimSpace(title))
	// First registration of a title wins.
	if _, dup := c.titles[kind][key]; !dup {
		c.titles[kind][key] = id
	}
}

func (c *Catalog) resolve(kind string, ref Ref) int {
	if ref.ID > 0 {
		return ref.ID
	}
	id, _ := c.IDOf(kind, ref.Title)
	return id
}

func (c *Catalog) Room(ref Ref) (types.RoomDef, bool) {
	r, ok := c.Rooms[c.resolve(KindRoom, ref)]
	return r, ok
}

func (c *Catalog) Monster(ref Ref) (types.MonsterDef, bool) {
	m, ok := c.Monsters[c.resolve(KindMonster, ref)]
	return m, ok
}

func (c *Catalog) Item(ref Ref) (types.ItemDef, bool) {
	it, ok := c.Items[c.resolve(KindItem, ref)]
	return it, ok
}

func (c *Catalog) Skill(ref Ref) (types.SkillDef, bool) {
	s, ok := c.Skills[c.resolve(KindSkill, ref)]
	return s, ok
}

func (c *Catalog) Guild(ref Ref) (types.GuildDef, bool) {
	g, ok := c.Guilds[c.resolve(KindGuild, ref)]
	return g, ok
}

func (c *Catalog) Achievement(id int) (types.AchievementDef, bool) {
	a, ok := c.Awards[id]
	return a, ok
}

// Achievements returns every achievement ordered by id.
func (c *Catalog) Achievements() []types.AchievementDef {
	out := make([]types.AchievementDef, 0, len(c.Awards))
	for _, a := range c.Awards {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
