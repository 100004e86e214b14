package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/drgrpg/engine"
	"github.com/nathoo/drgrpg/engine/delta"
	"github.com/nathoo/drgrpg/engine/monster"
	"github.com/nathoo/drgrpg/engine/parser"
	"github.com/nathoo/drgrpg/engine/player"
	"github.com/nathoo/drgrpg/engine/room"
	"github.com/nathoo/drgrpg/types"
)

// Turner resolves one turn.
type Turner interface {
	Turn(ctx context.Context, playerID int, actions []types.Action) (delta.Payload, error)
}

// Line kinds, used by the terminal UI for styling.
const (
	KindText         = "text"
	KindRoom         = "room"
	KindNotification = "notification"
	KindError        = "error"
	KindCombat       = "combat"
	KindSystem       = "system"
)

// Line is one rendered line of output.
type Line struct {
	Kind string
	Text string
}

// Session is a terminal player's view of the game. It keeps what the
// engine last reported so typed names can be matched to exits, objects,
// items, and skills, and so look/inventory/stats need no turn.
type Session struct {
	Engine   Turner
	PlayerID int

	name         string
	room         *room.Data
	stats        map[string]int
	skills       map[string]int
	inventory    []types.ItemSnapshot
	equipment    map[string]*types.ItemSnapshot
	guild        engine.GuildView
	achievements []player.AchievementView
	enemies      []monster.View
	inBattle     bool
}

// NewSession creates a session for one player.
func NewSession(t Turner, playerID int) *Session {
	return &Session{Engine: t, PlayerID: playerID}
}

// InBattle reports whether the last turn left the player fighting.
func (s *Session) InBattle() bool { return s.inBattle }

// Name is the player's name once the first turn has run.
func (s *Session) Name() string { return s.name }

// RoomTitle is the title of the room last shown, if any.
func (s *Session) RoomTitle() string {
	if s.room == nil {
		return ""
	}
	return s.room.Title
}

// Stat returns a stat from the last stat block.
func (s *Session) Stat(name string) int { return s.stats[name] }

// Guild returns the player's current guild.
func (s *Session) Guild() engine.GuildView { return s.guild }

// Start sends the first-turn marker and renders the full snapshot.
func (s *Session) Start(ctx context.Context) ([]Line, error) {
	return s.turn(ctx, types.Action{Name: "system", Arg: "first-turn"})
}

// Do runs one typed command. Commands that only read state are answered
// locally; the rest become a turn.
func (s *Session) Do(ctx context.Context, input string) ([]Line, error) {
	cmd := parser.Parse(input)
	switch cmd.Verb {
	case "":
		return nil, nil
	case "look":
		if s.room == nil {
			return s.turn(ctx)
		}
		return s.renderRoom(*s.room), nil
	case "examine":
		return s.examine(cmd.Object), nil
	case "inventory":
		return s.renderInventory(), nil
	case "stats":
		return s.renderStats(), nil
	case "awards":
		return s.renderAwards(), nil
	case "help":
		return helpLines(), nil
	case "wait":
		return s.turn(ctx)
	case "hunt":
		return s.turn(ctx, types.Action{Name: "combat", Arg: "hunt"})
	case "flee":
		return s.turn(ctx, types.Action{Name: "combat", Arg: "flee"})

	case "go":
		link, ok := s.matchExit(cmd.Object)
		if !ok {
			return say(KindError, "You can't go that way."), nil
		}
		return s.turn(ctx, types.Action{Name: "movePlayer", Arg: link})

	case "use":
		name, ok := s.matchObject(cmd.Object, true)
		if !ok {
			return say(KindError, "There is nothing like that to use here."), nil
		}
		return s.turn(ctx, types.Action{Name: "roomObjectAction", Arg: name})

	case "skill":
		name, ok := matchName(cmd.Object, sortedNames(s.skills))
		if !ok {
			return say(KindError, "You don't know that skill."), nil
		}
		return s.turn(ctx, types.Action{Name: "use_skill", Arg: name})

	case "equip", "drop":
		it, ok := matchItem(cmd.Object, s.inventory)
		if !ok {
			return say(KindError, "You aren't carrying that."), nil
		}
		action := "equip_item"
		if cmd.Verb == "drop" {
			action = "drop_item"
		}
		return s.turn(ctx, types.Action{Name: action, Arg: it})

	case "unequip":
		it, ok := matchItem(cmd.Object, s.equipped())
		if !ok {
			return say(KindError, "You aren't wearing that."), nil
		}
		return s.turn(ctx, types.Action{Name: "unequip_item", Arg: it})
	}
	return say(KindError, fmt.Sprintf("I don't know how to %q.", cmd.Verb)), nil
}

func (s *Session) turn(ctx context.Context, actions ...types.Action) ([]Line, error) {
	out, err := s.Engine.Turn(ctx, s.PlayerID, actions)
	if err != nil {
		return nil, err
	}
	return s.Apply(out), nil
}

// Apply folds a turn payload into the session and renders it.
func (s *Session) Apply(p delta.Payload) []Line {
	var lines []Line
	add := func(kind, text string) { lines = append(lines, Line{Kind: kind, Text: text}) }

	if p.Has("pause") && len(p) == 1 {
		add(KindSystem, "Slow down. Try again in a moment.")
		return lines
	}
	for _, v := range p["playerIdentity"] {
		if id, ok := v.(engine.Identity); ok {
			s.name = id.Name
			add(KindSystem, fmt.Sprintf("Welcome, %s.", id.Name))
		}
	}
	for _, v := range p["achievements"] {
		if all, ok := v.([]player.AchievementView); ok {
			s.achievements = all
		}
	}
	for _, v := range p["playerStats"] {
		if m, ok := v.(map[string]int); ok {
			s.stats = m
		}
	}
	for _, v := range p["playerSkills"] {
		if m, ok := v.(map[string]int); ok {
			s.skills = m
		}
	}
	if p.Has("clearInventory") {
		s.inventory = nil
	}
	for _, v := range p["playerInventory"] {
		if inv, ok := v.([]types.ItemSnapshot); ok {
			s.inventory = inv
		}
	}
	for _, v := range p["playerEquipment"] {
		if eq, ok := v.(map[string]*types.ItemSnapshot); ok {
			s.equipment = eq
		}
	}
	for _, v := range p["updatePlayerGuild"] {
		if g, ok := v.(engine.GuildView); ok {
			s.guild = g
		}
	}
	for _, v := range p["room"] {
		if d, ok := v.(room.Data); ok {
			s.room = &d
			lines = append(lines, s.renderRoom(d)...)
		}
	}
	for _, v := range p["roomUpdate"] {
		if d, ok := v.(room.Data); ok {
			s.room = &d
			add(KindRoom, "Something here has changed.")
			lines = append(lines, s.renderContents(d)...)
		}
	}
	for _, v := range p["notifications"] {
		if n, ok := v.(types.Notification); ok {
			kind := KindNotification
			if n.Type == "error" {
				kind = KindError
			}
			add(kind, n.Message)
		}
	}
	// New achievements are announced by their notification.
	for _, v := range p["newAchievement"] {
		if list, ok := v.([]player.AchievementView); ok {
			for _, a := range list {
				s.markEarned(a)
			}
		}
	}
	for _, v := range p["new_combat"] {
		if b, ok := v.(delta.Payload); ok {
			s.inBattle = true
			s.readEnemies(b)
			add(KindCombat, fmt.Sprintf("You are attacked by %s!", enemyList(s.enemies)))
		}
	}
	if p.Has("fleeCombat") {
		s.inBattle = false
		s.enemies = nil
		add(KindCombat, "You flee the battle.")
	}
	for _, v := range p["combat"] {
		if b, ok := v.(delta.Payload); ok {
			lines = append(lines, s.renderCombat(b)...)
		}
	}
	if p.Has("pause") {
		add(KindSystem, "The battle pauses while you get your bearings.")
	}
	return lines
}

func (s *Session) markEarned(a player.AchievementView) {
	for i := range s.achievements {
		if s.achievements[i].ID == a.ID {
			s.achievements[i] = a
			return
		}
	}
	s.achievements = append(s.achievements, a)
}

func (s *Session) readEnemies(b delta.Payload) {
	for _, v := range b["enemies"] {
		if views, ok := v.([]monster.View); ok {
			s.enemies = views
		}
	}
}

func (s *Session) renderCombat(b delta.Payload) []Line {
	var lines []Line
	add := func(text string) { lines = append(lines, Line{Kind: KindCombat, Text: text}) }

	s.readEnemies(b)
	for _, v := range b["playerSkillUsed"] {
		if msg, ok := v.(string); ok {
			add(msg)
		}
	}
	for _, v := range b["results"] {
		results, _ := v.([]delta.Payload)
		for _, r := range results {
			for _, d := range r["monsterDefeated"] {
				if f, ok := d.([]any); ok && len(f) == 3 {
					add(fmt.Sprintf("You defeated the %v! (+%v xp, +%v gold)", f[0], f[1], f[2]))
				}
			}
		}
	}
	for _, v := range b["playerDefeated"] {
		s.inBattle = false
		s.enemies = nil
		add(fmt.Sprintf("You were defeated by the %v.", v))
	}
	if b.Has("endCombat") {
		s.inBattle = false
		s.enemies = nil
		add("Victory!")
	}
	if s.inBattle && len(s.enemies) > 0 {
		var hp []string
		for _, e := range s.enemies {
			hp = append(hp, fmt.Sprintf("%s %d/%d", e.Name, e.HP, e.MaxHP))
		}
		add(fmt.Sprintf("Round %d. %s. You have %d/%d hp.", firstInt(b["round"]), strings.Join(hp, ", "), s.stats["hp"], s.stats["max_hp"]))
	}
	return lines
}

func (s *Session) renderRoom(d room.Data) []Line {
	lines := []Line{{Kind: KindRoom, Text: d.Title}}
	if d.Description != "" {
		lines = append(lines, Line{Kind: KindText, Text: d.Description})
	}
	return append(lines, s.renderContents(d)...)
}

func (s *Session) renderContents(d room.Data) []Line {
	var lines []Line
	if len(d.Objects) > 0 {
		var names []string
		for _, o := range d.Objects {
			names = append(names, o.Name)
		}
		lines = append(lines, Line{Kind: KindText, Text: "You see: " + strings.Join(names, ", ")})
	}
	if d.Monsters > 0 {
		lines = append(lines, Line{Kind: KindText, Text: "Something stirs here. You could hunt."})
	}
	var exits []string
	for _, e := range d.Exits {
		exits = append(exits, e.Link)
	}
	if len(exits) == 0 {
		exits = []string{"none"}
	}
	return append(lines, Line{Kind: KindText, Text: "Exits: " + strings.Join(exits, ", ")})
}

func (s *Session) examine(what string) []Line {
	if s.room == nil {
		return say(KindError, "You see nothing like that.")
	}
	name, ok := s.matchObject(what, false)
	if !ok {
		return say(KindError, "You see nothing like that.")
	}
	for _, o := range s.room.Objects {
		if o.Name == name {
			return say(KindText, o.Description)
		}
	}
	return nil
}

func (s *Session) renderInventory() []Line {
	var lines []Line
	if len(s.inventory) == 0 {
		lines = append(lines, Line{Kind: KindText, Text: "You are carrying nothing."})
	} else {
		lines = append(lines, Line{Kind: KindText, Text: "You are carrying:"})
		for _, it := range s.inventory {
			lines = append(lines, Line{Kind: KindText, Text: "  " + describeItem(it)})
		}
	}
	for _, slot := range player.Slots {
		if it := s.equipment[slot]; it != nil {
			lines = append(lines, Line{Kind: KindText, Text: fmt.Sprintf("  [%s] %s", slot, describeItem(*it))})
		}
	}
	return lines
}

func (s *Session) renderStats() []Line {
	st := s.stats
	lines := []Line{
		{Kind: KindText, Text: fmt.Sprintf("HP %d/%d  MP %d/%d", st["hp"], st["max_hp"], st["mp"], st["max_mp"])},
		{Kind: KindText, Text: fmt.Sprintf("Attack %d  Defense %d  Gold %d  XP %d", st["attack"], st["defense"], st["gold"], st["xp"])},
	}
	if s.guild.Name != "" {
		lines = append(lines, Line{Kind: KindText, Text: fmt.Sprintf("Guild: %s (level %d)", s.guild.Name, s.guild.Level)})
	}
	if len(s.skills) > 0 {
		var skills []string
		for _, name := range sortedNames(s.skills) {
			skills = append(skills, fmt.Sprintf("%s %d", name, s.skills[name]))
		}
		lines = append(lines, Line{Kind: KindText, Text: "Skills: " + strings.Join(skills, ", ")})
	}
	return lines
}

func (s *Session) renderAwards() []Line {
	if len(s.achievements) == 0 {
		return say(KindText, "There are no achievements to earn.")
	}
	var lines []Line
	for _, a := range s.achievements {
		mark := "[ ]"
		text := a.Title
		if a.Earned {
			mark = "[x]"
			text = a.Title + ": " + a.Text
		}
		lines = append(lines, Line{Kind: KindText, Text: mark + " " + text})
	}
	return lines
}

func (s *Session) matchExit(what string) (string, bool) {
	if s.room == nil {
		return "", false
	}
	var links []string
	for _, e := range s.room.Exits {
		links = append(links, e.Link)
	}
	return matchName(what, links)
}

// matchObject finds a visible object by name. actionable limits the
// search to objects that do something.
func (s *Session) matchObject(what string, actionable bool) (string, bool) {
	if s.room == nil {
		return "", false
	}
	var names []string
	for _, o := range s.room.Objects {
		if !actionable || o.Action {
			names = append(names, o.Name)
		}
	}
	return matchName(what, names)
}

func (s *Session) equipped() []types.ItemSnapshot {
	var out []types.ItemSnapshot
	for _, slot := range player.Slots {
		if it := s.equipment[slot]; it != nil {
			out = append(out, *it)
		}
	}
	return out
}

// matchName matches typed text to one of names: an exact
// case-insensitive match wins, otherwise a unique prefix.
func matchName(what string, names []string) (string, bool) {
	what = strings.ToLower(strings.TrimSpace(what))
	if what == "" {
		return "", false
	}
	var prefixed []string
	for _, n := range names {
		l := strings.ToLower(n)
		if l == what {
			return n, true
		}
		if strings.HasPrefix(l, what) {
			prefixed = append(prefixed, n)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	return "", false
}

func matchItem(what string, items []types.ItemSnapshot) (types.ItemSnapshot, bool) {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	name, ok := matchName(what, names)
	if !ok {
		return types.ItemSnapshot{}, false
	}
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return types.ItemSnapshot{}, false
}

func describeItem(it types.ItemSnapshot) string {
	return fmt.Sprintf("%s (%s, atk %d, def %d)", it.Name, it.Type, it.Attack, it.Defense)
}

func enemyList(enemies []monster.View) string {
	names := make([]string, 0, len(enemies))
	for _, e := range enemies {
		names = append(names, "a "+e.Name)
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func firstInt(vs []any) int {
	if len(vs) == 0 {
		return 0
	}
	n, _ := vs[0].(int)
	return n
}

func say(kind, text string) []Line {
	return []Line{{Kind: kind, Text: text}}
}

func helpLines() []Line {
	help := []string{
		"Game commands:",
		"  look (l)              Describe the room",
		"  examine <thing> (x)   Look closely at something",
		"  go <exit>             Move (or just type n/s/e/w/u/d)",
		"  use <thing>           Use, talk to, or buy from something",
		"  hunt                  Look for a fight",
		"  flee                  Run from a fight",
		"  skill <name>          Ready a skill for the next round",
		"  equip / unequip <item>",
		"  drop <item>",
		"  inventory (i), stats, awards",
		"  wait (z)              Let a turn pass",
		"  again (g)             Repeat your last command",
	}
	lines := make([]Line, 0, len(help))
	for _, h := range help {
		lines = append(lines, Line{Kind: KindText, Text: h})
	}
	return lines
}
