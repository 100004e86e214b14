// Package entity builds item, skill, and guild values from templates or
// raw snapshots. Each constructor reports false instead of returning a
// half-filled value.
package entity

import (
	"math"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

// DefaultItemType is used for items authored without a type.
const DefaultItemType = "Junk"

// ItemFromTemplateID snapshots the item template with the given id.
func ItemFromTemplateID(l content.Lookup, id int) (types.ItemSnapshot, bool) {
	def, ok := l.Item(content.ByID(id))
	if !ok {
		return types.ItemSnapshot{}, false
	}
	return itemFromDef(def), true
}

// ItemFromTitle snapshots the item template with the given title.
func ItemFromTitle(l content.Lookup, title string) (types.ItemSnapshot, bool) {
	def, ok := l.Item(content.ByTitle(title))
	if !ok {
		return types.ItemSnapshot{}, false
	}
	return itemFromDef(def), true
}

// ItemFromRef snapshots an item named by an authored id-or-title string.
func ItemFromRef(l content.Lookup, ref string) (types.ItemSnapshot, bool) {
	r := content.ParseRef(ref)
	if r.ID > 0 {
		return ItemFromTemplateID(l, r.ID)
	}
	return ItemFromTitle(l, r.Title)
}

// ItemFromSnapshot rebuilds an item from decoded JSON fields. Numeric
// strings are accepted where numbers are expected. An id and a name are
// required.
func ItemFromSnapshot(fields map[string]any) (types.ItemSnapshot, bool) {
	id, ok := toInt(fields["id"])
	if !ok || id <= 0 {
		return types.ItemSnapshot{}, false
	}
	name, _ := fields["name"].(string)
	if name == "" {
		return types.ItemSnapshot{}, false
	}
	it := types.ItemSnapshot{ID: id, Name: name}
	it.Type, _ = fields["type"].(string)
	if it.Type == "" {
		it.Type = DefaultItemType
	}
	it.Attack, _ = toInt(fields["attack"])
	it.Defense, _ = toInt(fields["defense"])
	it.Attack = max(it.Attack, 0)
	it.Defense = max(it.Defense, 0)
	return it, true
}

func itemFromDef(def types.ItemDef) types.ItemSnapshot {
	typ := def.Type
	if typ == "" {
		typ = DefaultItemType
	}
	return types.ItemSnapshot{
		ID:      def.ID,
		Name:    def.Name,
		Type:    typ,
		Attack:  max(def.Attack, 0),
		Defense: max(def.Defense, 0),
	}
}

// SkillFromTemplateID resolves a skill by id.
func SkillFromTemplateID(l content.Lookup, id int) (types.SkillDef, bool) {
	return l.Skill(content.ByID(id))
}

// SkillFromTitle resolves a skill by name.
func SkillFromTitle(l content.Lookup, title string) (types.SkillDef, bool) {
	return l.Skill(content.ByTitle(title))
}

// SkillFromRef resolves a skill named by an authored id-or-title string.
func SkillFromRef(l content.Lookup, ref string) (types.SkillDef, bool) {
	return l.Skill(content.ParseRef(ref))
}

// GuildFromTemplateID resolves a guild by id.
func GuildFromTemplateID(l content.Lookup, id int) (types.GuildDef, bool) {
	return l.Guild(content.ByID(id))
}

// GuildFromTitle resolves a guild by name.
func GuildFromTitle(l content.Lookup, title string) (types.GuildDef, bool) {
	return l.Guild(content.ByTitle(title))
}

// GuildFromRef resolves a guild named by an authored id-or-title string.
func GuildFromRef(l content.Lookup, ref string) (types.GuildDef, bool) {
	return l.Guild(content.ParseRef(ref))
}

// toInt accepts JSON numbers, Go ints, and numeric strings.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
