// Package room resolves what a player can see and do in a location:
// requirement-gated objects and exits, object actions, and the monsters
// that can be hunted there.
package room

import (
	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/engine/monster"
	"github.com/nathoo/drgrpg/engine/player"
	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/engine/rules"
	"github.com/nathoo/drgrpg/types"
)

// Room is a location as seen by one player during one turn.
type Room struct {
	def      types.RoomDef
	player   *player.Player
	content  content.Lookup
	monsters []types.MonsterDef

	notifications []types.Notification
}

// ObjectView is the client form of a visible object.
type ObjectView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Action      bool   `json:"action"`
	Group       string `json:"group"`
}

// ExitView is the client form of a visible exit.
type ExitView struct {
	Link   string `json:"link"`
	RoomID int    `json:"room_id"`
}

// Data is the client room block.
type Data struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Environment string       `json:"environment"`
	Monsters    int          `json:"monsters"`
	Objects     []ObjectView `json:"objects"`
	Exits       []ExitView   `json:"exits"`
}

// FromTemplateID loads a room by id for the player.
func FromTemplateID(l content.Lookup, id int, p *player.Player) (*Room, bool) {
	def, ok := l.Room(content.ByID(id))
	if !ok {
		return nil, false
	}
	return newRoom(l, def, p), true
}

// FromTitle loads a room by title for the player.
func FromTitle(l content.Lookup, title string, p *player.Player) (*Room, bool) {
	def, ok := l.Room(content.ByTitle(title))
	if !ok {
		return nil, false
	}
	return newRoom(l, def, p), true
}

func newRoom(l content.Lookup, def types.RoomDef, p *player.Player) *Room {
	r := &Room{def: def, player: p, content: l}
	for _, id := range def.Monsters {
		if m, ok := l.Monster(content.ByID(id)); ok {
			r.monsters = append(r.monsters, m)
		}
	}
	return r
}

func (r *Room) ID() int       { return r.def.ID }
func (r *Room) Title() string { return r.def.Title }

// MaxMonsters is the most monsters a battle here can start with.
func (r *Room) MaxMonsters() int { return r.def.MaxMonsters }

// MonsterCount is the number of monster templates that resolve.
func (r *Room) MonsterCount() int { return len(r.monsters) }

// RandomMonsters rolls n monsters, each drawn uniformly with replacement.
func (r *Room) RandomMonsters(n int, g *rng.RNG) []*monster.Monster {
	if len(r.monsters) == 0 {
		return nil
	}
	out := make([]*monster.Monster, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, monster.FromTemplate(r.monsters[g.Intn(len(r.monsters))], g))
	}
	return out
}

// allowed reports whether an authored requirement passes for the player.
// Malformed requirements never pass.
func (r *Room) allowed(def types.Requirement) bool {
	req, err := rules.Compile(def)
	if err != nil {
		return false
	}
	return rules.Check(req, r.player)
}

// VisibleObjects returns the objects the player can see. Objects without a
// name or description are skipped, and only the first visible object of
// each name is kept.
func (r *Room) VisibleObjects() []ObjectView {
	var out []ObjectView
	seen := map[string]bool{}
	for _, o := range r.def.Objects {
		if o.Name == "" || o.Description == "" || seen[o.Name] {
			continue
		}
		if !r.allowed(o.Requires) {
			continue
		}
		seen[o.Name] = true
		out = append(out, ObjectView{
			Name:        o.Name,
			Description: o.Description,
			Action:      o.Action.Type != "",
			Group:       o.Group,
		})
	}
	return out
}

// VisibleExits returns the exits the player can take, first visible exit
// per link.
func (r *Room) VisibleExits() []ExitView {
	var out []ExitView
	seen := map[string]bool{}
	for _, e := range r.def.Exits {
		if e.Link == "" || e.RoomID == 0 || seen[e.Link] {
			continue
		}
		if !r.allowed(e.Requires) {
			continue
		}
		seen[e.Link] = true
		out = append(out, ExitView{Link: e.Link, RoomID: e.RoomID})
	}
	return out
}

// HasExit scans every exit with the given link and returns the destination
// of the first one whose requirement passes.
func (r *Room) HasExit(link string) (int, bool) {
	for _, e := range r.def.Exits {
		if e.Link != link || e.RoomID == 0 {
			continue
		}
		if r.allowed(e.Requires) {
			return e.RoomID, true
		}
	}
	return 0, false
}

// Data returns the client room block for the player's current view.
func (r *Room) Data() Data {
	return Data{
		ID:          r.def.ID,
		Title:       r.def.Title,
		Description: r.def.Description,
		Environment: r.def.Environment,
		Monsters:    len(r.monsters),
		Objects:     r.VisibleObjects(),
		Exits:       r.VisibleExits(),
	}
}

// Notifications returns messages raised by object actions this turn.
func (r *Room) Notifications() []types.Notification {
	return r.notifications
}

func (r *Room) notify(kind, msg string) {
	r.notifications = append(r.notifications, types.Notification{Type: kind, Message: msg})
}
