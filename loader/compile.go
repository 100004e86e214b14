// Package loader builds the content catalog from authored world files.
// Lua (.lua) and YAML (.yaml, .yml) files describe the same world shape;
// the Lua VM is discarded once the files have run.
package loader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

// world is the authored content before ids and references are resolved.
// References (exit targets, monsters, items, achievements) may be either a
// numeric id or a title.
type world struct {
	Rooms        []roomSpec        `yaml:"rooms"`
	Monsters     []monsterSpec     `yaml:"monsters"`
	Items        []itemSpec        `yaml:"items"`
	Skills       []skillSpec       `yaml:"skills"`
	Guilds       []guildSpec       `yaml:"guilds"`
	Achievements []achievementSpec `yaml:"achievements"`
}

type roomSpec struct {
	ID          int          `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Environment string       `yaml:"environment"`
	MaxMonsters int          `yaml:"max_monsters"`
	Monsters    []string     `yaml:"monsters"`
	Objects     []objectSpec `yaml:"objects"`
	Exits       []exitSpec   `yaml:"exits"`
}

type objectSpec struct {
	Name        string            `yaml:"name"`
	Group       string            `yaml:"group"`
	Description string            `yaml:"description"`
	Action      types.ActionSpec  `yaml:"action"`
	Requires    types.Requirement `yaml:"requires"`
}

type exitSpec struct {
	Link     string            `yaml:"link"`
	Room     string            `yaml:"room"`
	Requires types.Requirement `yaml:"requires"`
}

type monsterSpec struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	Image      string `yaml:"image"`
	HP         int    `yaml:"hp"`
	Attack     int    `yaml:"attack"`
	Defense    int    `yaml:"defense"`
	RewardGold int    `yaml:"reward_gold"`
	RewardExp  int    `yaml:"reward_exp"`
}

type itemSpec struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Attack      int    `yaml:"attack"`
	Defense     int    `yaml:"defense"`
}

type skillSpec struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Effect      string `yaml:"effect"`
	Cost        int    `yaml:"cost"`
	Strength    int    `yaml:"strength"`
	Variability int    `yaml:"variability"`
}

type guildSpec struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type achievementSpec struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// merge appends another file's definitions, keeping declaration order.
func (w *world) merge(o world) {
	w.Rooms = append(w.Rooms, o.Rooms...)
	w.Monsters = append(w.Monsters, o.Monsters...)
	w.Items = append(w.Items, o.Items...)
	w.Skills = append(w.Skills, o.Skills...)
	w.Guilds = append(w.Guilds, o.Guilds...)
	w.Achievements = append(w.Achievements, o.Achievements...)
}

// idAllocator hands out ids for one kind. Explicit ids are kept; the rest
// are numbered after the largest explicit id, in declaration order.
type idAllocator struct {
	next int
}

func newIDAllocator(explicit map[int]string) *idAllocator {
	a := &idAllocator{}
	for id := range explicit {
		if id > a.next {
			a.next = id
		}
	}
	return a
}

func (a *idAllocator) assign(id int) int {
	if id > 0 {
		return id
	}
	a.next++
	return a.next
}

// explicitIDs records every authored id of one kind, reporting duplicates
// and negative ids.
func explicitIDs(kind string, ids []int, titles []string, ve *ValidationError) map[int]string {
	seen := map[int]string{}
	for i, id := range ids {
		switch {
		case id < 0:
			ve.errorf("%s %q has negative id %d", kind, titles[i], id)
		case id == 0:
		case hasKey(seen, id):
			ve.errorf("duplicate %s id %d (%q and %q)", kind, id, seen[id], titles[i])
		default:
			seen[id] = titles[i]
		}
	}
	return seen
}

func hasKey(m map[int]string, k int) bool {
	_, ok := m[k]
	return ok
}

// compile resolves ids and references and fills a catalog. Unresolvable
// references are reported on ve; the affected exit, monster, or action
// value is left unresolved.
func compile(w world, ve *ValidationError) *content.Catalog {
	c := content.NewCatalog()

	monsters := allocate(content.KindMonster, w.Monsters, func(m monsterSpec) (int, string) { return m.ID, m.Name }, ve)
	for i, m := range w.Monsters {
		c.AddMonster(types.MonsterDef{
			ID:         monsters[i],
			Name:       m.Name,
			Image:      m.Image,
			HP:         m.HP,
			Attack:     m.Attack,
			Defense:    m.Defense,
			RewardGold: m.RewardGold,
			RewardExp:  m.RewardExp,
		})
	}

	items := allocate(content.KindItem, w.Items, func(it itemSpec) (int, string) { return it.ID, it.Name }, ve)
	for i, it := range w.Items {
		c.AddItem(types.ItemDef{
			ID:          items[i],
			Name:        it.Name,
			Description: it.Description,
			Type:        it.Type,
			Attack:      it.Attack,
			Defense:     it.Defense,
		})
	}

	skills := allocate(content.KindSkill, w.Skills, func(s skillSpec) (int, string) { return s.ID, s.Name }, ve)
	for i, s := range w.Skills {
		c.AddSkill(types.SkillDef{
			ID:          skills[i],
			Name:        s.Name,
			Description: s.Description,
			Effect:      s.Effect,
			Cost:        s.Cost,
			Strength:    s.Strength,
			Variability: s.Variability,
		})
	}

	guilds := allocate(content.KindGuild, w.Guilds, func(g guildSpec) (int, string) { return g.ID, g.Name }, ve)
	for i, g := range w.Guilds {
		c.AddGuild(types.GuildDef{ID: guilds[i], Name: g.Name, Description: g.Description})
	}

	awards := allocate(content.KindAchievement, w.Achievements, func(a achievementSpec) (int, string) { return a.ID, a.Title }, ve)
	for i, a := range w.Achievements {
		c.AddAchievement(types.AchievementDef{ID: awards[i], Title: a.Title, Text: a.Text})
	}

	// Rooms are indexed before any exit is resolved so exits may point
	// forward.
	rooms := allocate(content.KindRoom, w.Rooms, func(r roomSpec) (int, string) { return r.ID, r.Title }, ve)
	for i, r := range w.Rooms {
		c.AddRoom(types.RoomDef{ID: rooms[i], Title: r.Title})
	}
	for i, r := range w.Rooms {
		c.AddRoom(compileRoom(c, rooms[i], r, ve))
	}
	return c
}

// allocate assigns ids to one kind of definition and warns about titles that
// are declared twice.
func allocate[T any](kind string, specs []T, key func(T) (int, string), ve *ValidationError) []int {
	ids := make([]int, len(specs))
	titles := make([]string, len(specs))
	for i, s := range specs {
		ids[i], titles[i] = key(s)
		if strings.TrimSpace(titles[i]) == "" {
			ve.errorf("%s #%d has no title", kind, i+1)
		}
	}
	alloc := newIDAllocator(explicitIDs(kind, ids, titles, ve))
	seen := map[string]bool{}
	for i := range specs {
		ids[i] = alloc.assign(ids[i])
		t := strings.ToLower(strings.TrimSpace(titles[i]))
		if t != "" && seen[t] {
			ve.warnf("%s title %q is declared more than once; the first wins", kind, titles[i])
		}
		seen[t] = true
	}
	return ids
}

func compileRoom(c *content.Catalog, id int, r roomSpec, ve *ValidationError) types.RoomDef {
	def := types.RoomDef{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Environment: r.Environment,
		MaxMonsters: r.MaxMonsters,
	}
	for _, ref := range r.Monsters {
		mid, ok := resolve(c, content.KindMonster, ref)
		if !ok {
			ve.errorf("room %q references undefined monster %q", r.Title, ref)
			continue
		}
		def.Monsters = append(def.Monsters, mid)
	}
	for _, o := range r.Objects {
		def.Objects = append(def.Objects, types.ObjectDef{
			Name:        o.Name,
			Group:       o.Group,
			Description: o.Description,
			Action:      compileAction(c, r.Title, o.Name, o.Action, ve),
			Requires:    compileRequirement(c, o.Requires),
		})
	}
	for _, e := range r.Exits {
		to, ok := resolve(c, content.KindRoom, e.Room)
		if !ok {
			ve.errorf("room %q exit %q points to undefined room %q", r.Title, e.Link, e.Room)
		}
		def.Exits = append(def.Exits, types.ExitDef{
			Link:     e.Link,
			RoomID:   to,
			Requires: compileRequirement(c, e.Requires),
		})
	}
	return def
}

// resolve turns an authored id-or-title reference into an id registered
// in the catalog.
func resolve(c *content.Catalog, kind, ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}
	r := content.ParseRef(ref)
	if r.ID > 0 {
		if !exists(c, kind, r.ID) {
			return 0, false
		}
		return r.ID, true
	}
	return c.IDOf(kind, r.Title)
}

func exists(c *content.Catalog, kind string, id int) bool {
	var ok bool
	switch kind {
	case content.KindRoom:
		_, ok = c.Rooms[id]
	case content.KindMonster:
		_, ok = c.Monsters[id]
	case content.KindItem:
		_, ok = c.Items[id]
	case content.KindSkill:
		_, ok = c.Skills[id]
	case content.KindGuild:
		_, ok = c.Guilds[id]
	case content.KindAchievement:
		_, ok = c.Awards[id]
	}
	return ok
}

// compileRequirement rewrites an item title in a has_item requirement to
// its id. Anything else is kept as authored and checked by validate.
func compileRequirement(c *content.Catalog, req types.Requirement) types.Requirement {
	if strings.TrimSpace(req.Type) != "has_item" {
		return req
	}
	if id, ok := resolve(c, content.KindItem, req.Value); ok {
		req.Value = strconv.Itoa(id)
	}
	return req
}

// compileAction rewrites item and achievement titles in an object action
// to ids. A "multiple" action is rewritten step by step.
func compileAction(c *content.Catalog, room, object string, a types.ActionSpec, ve *ValidationError) types.ActionSpec {
	a.Type = strings.TrimSpace(a.Type)
	if a.Type != "multiple" {
		a.Value = compileStep(c, room, object, a.Type, strings.TrimSpace(a.Value), ve)
		return a
	}
	steps := strings.Split(a.Value, ";")
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		kind, arg, _ := strings.Cut(strings.TrimSpace(step), "-")
		kind = strings.TrimSpace(kind)
		if kind == "" {
			continue
		}
		out = append(out, kind+"-"+compileStep(c, room, object, kind, strings.TrimSpace(arg), ve))
	}
	a.Value = strings.Join(out, ";")
	return a
}

func compileStep(c *content.Catalog, room, object, kind, arg string, ve *ValidationError) string {
	where := fmt.Sprintf("room %q object %q", room, object)
	switch kind {
	case "give_item":
		id, ok := resolve(c, content.KindItem, arg)
		if !ok {
			ve.errorf("%s gives undefined item %q", where, arg)
			return arg
		}
		return strconv.Itoa(id)

	case "sell_to_player":
		// The price is numeric, so the last "for" separates it from a
		// title that may itself contain "for".
		i := strings.LastIndex(arg, "for")
		if i < 0 {
			ve.warnf("%s sell_to_player value %q is not <item>for<price>", where, arg)
			return arg
		}
		ref, price := strings.TrimSpace(arg[:i]), strings.TrimSpace(arg[i+3:])
		id, ok := resolve(c, content.KindItem, ref)
		if !ok {
			ve.errorf("%s sells undefined item %q", where, ref)
			return arg
		}
		return fmt.Sprintf("%dfor%s", id, price)

	case "award_achievement":
		id, ok := resolve(c, content.KindAchievement, arg)
		if !ok {
			ve.errorf("%s awards undefined achievement %q", where, arg)
			return arg
		}
		return strconv.Itoa(id)

	case "join_guild":
		if _, ok := resolve(c, content.KindGuild, arg); !ok {
			ve.errorf("%s joins undefined guild %q", where, arg)
		}
	case "teach_skill":
		if _, ok := resolve(c, content.KindSkill, arg); !ok {
			ve.errorf("%s teaches undefined skill %q", where, arg)
		}
	}
	return arg
}

// sortedWorldFiles returns the world files in load order: alphabetical,
// so numbering of titles without an explicit id is stable.
func sortedWorldFiles(files []string) []string {
	out := append([]string(nil), files...)
	sort.Strings(out)
	return out
}
