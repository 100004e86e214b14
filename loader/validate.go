package loader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/engine/rules"
	"github.com/nathoo/drgrpg/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known object action types.
var validActionTypes = map[string]bool{
	"damage_player":        true,
	"set_quest_flag":       true,
	"give_item":            true,
	"sell_to_player":       true,
	"award_achievement":    true,
	"join_guild":           true,
	"leave_guild":          true,
	"increase_guild_level": true,
	"teach_skill":          true,
	"multiple":             true,
}

// Known item types: one per equipment slot, plus Junk for items that only
// sit in the inventory.
var validItemTypes = map[string]bool{
	"back": true, "bodyarmor": true, "boots": true, "helmet": true,
	"leggings": true, "necklace": true, "shield": true, "weapon": true,
	"Junk": true,
}

// validate checks the compiled catalog for consistency. startRoom, when
// set, must name a defined room.
func validate(c *content.Catalog, startRoom string, ve *ValidationError) {
	if startRoom != "" {
		if _, ok := c.Room(content.ByTitle(startRoom)); !ok {
			ve.errorf("start room %q not found in defined rooms", startRoom)
		}
	}

	for _, id := range sortedKeys(c.Rooms) {
		r := c.Rooms[id]
		if len(r.Exits) == 0 {
			ve.warnf("room %q has no exits", r.Title)
		}
		if len(r.Monsters) > 0 && r.MaxMonsters <= 0 {
			ve.warnf("room %q lists monsters but max_monsters is %d; nothing can be hunted", r.Title, r.MaxMonsters)
		}
		for _, o := range r.Objects {
			if o.Name == "" || o.Description == "" {
				ve.warnf("room %q has an object without a name or description; it is never shown", r.Title)
			}
			validateRequirement(fmt.Sprintf("room %q object %q", r.Title, o.Name), o.Requires, ve)
			validateAction(fmt.Sprintf("room %q object %q", r.Title, o.Name), o.Action, ve)
		}
		for _, e := range r.Exits {
			if e.Link == "" {
				ve.errorf("room %q has an exit without a link", r.Title)
			}
			validateRequirement(fmt.Sprintf("room %q exit %q", r.Title, e.Link), e.Requires, ve)
		}
	}

	for _, id := range sortedKeys(c.Monsters) {
		m := c.Monsters[id]
		if m.HP <= 0 {
			ve.errorf("monster %q has hp %d; it would enter battle already dead", m.Name, m.HP)
		}
	}
	for _, id := range sortedKeys(c.Items) {
		it := c.Items[id]
		if !validItemTypes[it.Type] {
			ve.warnf("item %q has unknown type %q; it cannot be equipped", it.Name, it.Type)
		}
	}
	for _, id := range sortedKeys(c.Skills) {
		s := c.Skills[id]
		if s.Variability < 0 || s.Variability > 100 {
			ve.errorf("skill %q variability %d is outside 0..100", s.Name, s.Variability)
		}
	}
}

// validateRequirement reports requirements the engine could not compile.
// Such requirements never pass, so the object or exit stays hidden.
func validateRequirement(where string, req types.Requirement, ve *ValidationError) {
	if _, err := rules.Compile(req); err != nil {
		ve.warnf("%s requirement is malformed and will never pass: %v", where, err)
	}
	if m := strings.TrimSpace(req.Match); m != "" && m != "exact" && m != "minimum" {
		ve.warnf("%s requirement match %q is neither exact nor minimum", where, req.Match)
	}
}

func validateAction(where string, a types.ActionSpec, ve *ValidationError) {
	if a.Type == "" {
		return
	}
	if !validActionTypes[a.Type] {
		ve.errorf("%s has unknown action type %q", where, a.Type)
		return
	}
	if a.Type != "multiple" {
		validateStep(where, a.Type, a.Value, ve)
		return
	}
	for _, step := range strings.Split(a.Value, ";") {
		kind, arg, _ := strings.Cut(strings.TrimSpace(step), "-")
		kind = strings.TrimSpace(kind)
		if kind == "multiple" || !validActionTypes[kind] {
			ve.errorf("%s has unknown action step %q", where, kind)
			continue
		}
		validateStep(where, kind, strings.TrimSpace(arg), ve)
	}
}

// validateStep warns about values the engine would skip at run time.
func validateStep(where, kind, arg string, ve *ValidationError) {
	bad := false
	switch kind {
	case "damage_player":
		_, err := strconv.Atoi(arg)
		bad = err != nil
	case "set_quest_flag", "increase_guild_level":
		name, n, ok := strings.Cut(arg, "=")
		v, err := strconv.Atoi(strings.TrimSpace(n))
		bad = !ok || strings.TrimSpace(name) == "" || err != nil || v == 0
	case "sell_to_player":
		id, price, ok := strings.Cut(arg, "for")
		_, err1 := strconv.Atoi(strings.TrimSpace(id))
		n, err2 := strconv.Atoi(strings.TrimSpace(price))
		bad = !ok || err1 != nil || err2 != nil
		if !bad && n < 0 {
			ve.errorf("%s sells for a negative price %d", where, n)
		}
	case "award_achievement":
		_, err := strconv.Atoi(arg)
		bad = err != nil
	case "join_guild", "teach_skill", "give_item":
		bad = arg == ""
	}
	if bad {
		ve.warnf("%s %s value %q is malformed and will be skipped", where, kind, arg)
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
