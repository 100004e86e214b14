// Package rules implements the requirement predicates that gate room
// objects and exits.
//
// Requirement is a closed set: every variant lives in this package and
// implements Met. Authored requirements are compiled once with Compile.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/types"
)

// Subject is the player state a requirement is evaluated against.
type Subject interface {
	HasItem(id int) bool
	QuestFlag(name string) (int, bool)
	GuildLevel(name string) (int, bool)
	CurrentGuild() string
	SkillLevel(name string) (int, bool)
}

// Requirement is a predicate over a Subject.
type Requirement interface {
	Met(s Subject) bool
	requirement()
}

// HasItem passes when the item is equipped or carried.
type HasItem struct {
	ItemID int
}

// HasQuestFlag compares a quest flag against Value.
// Minimum: flag set and >= Value. Exact: flag == Value, or Value 0 and the
// flag absent.
type HasQuestFlag struct {
	Flag  string
	Value int
	Exact bool
}

// HasGuildLevel compares the recorded level in a guild.
// Level > 0 requires a recorded level (== for Exact, >= otherwise).
// Level <= 0 passes when the player has no recorded level below it.
type HasGuildLevel struct {
	Guild string
	Level int
	Exact bool
}

// InGuild passes when the player's current guild is (or is not) Guild.
type InGuild struct {
	Guild  string
	Member bool
}

// HasSkill passes when the skill is known at Level or higher.
// Level 0 inverts it: the skill must be unknown.
type HasSkill struct {
	Skill string
	Level int
}

func (HasItem) requirement()       {}
func (HasQuestFlag) requirement()  {}
func (HasGuildLevel) requirement() {}
func (InGuild) requirement()       {}
func (HasSkill) requirement()      {}

func (r HasItem) Met(s Subject) bool {
	return s.HasItem(r.ItemID)
}

func (r HasQuestFlag) Met(s Subject) bool {
	v, ok := s.QuestFlag(r.Flag)
	if r.Exact {
		if !ok {
			return r.Value == 0
		}
		return v == r.Value
	}
	return ok && v != 0 && v >= r.Value
}

func (r HasGuildLevel) Met(s Subject) bool {
	lvl, ok := s.GuildLevel(r.Guild)
	if r.Level > 0 {
		if !ok {
			return false
		}
		if r.Exact {
			return lvl == r.Level
		}
		return lvl >= r.Level
	}
	return !ok || lvl < r.Level
}

func (r InGuild) Met(s Subject) bool {
	in := s.CurrentGuild() == r.Guild
	return in == r.Member
}

func (r HasSkill) Met(s Subject) bool {
	lvl, ok := s.SkillLevel(r.Skill)
	if r.Level == 0 {
		return !ok
	}
	return ok && lvl >= r.Level
}

// Check evaluates r, treating a nil requirement as always met.
func Check(r Requirement, s Subject) bool {
	if r == nil {
		return true
	}
	return r.Met(s)
}

// Compile turns an authored requirement into a predicate. An empty type
// yields (nil, nil): no requirement.
func Compile(def types.Requirement) (Requirement, error) {
	kind := strings.TrimSpace(def.Type)
	if kind == "" || kind == "none" {
		return nil, nil
	}
	exact := strings.EqualFold(strings.TrimSpace(def.Match), "exact")

	switch kind {
	case "has_item":
		id, err := strconv.Atoi(strings.TrimSpace(def.Value))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("has_item: invalid item id %q", def.Value)
		}
		return HasItem{ItemID: id}, nil

	case "has_quest_flag":
		name, n, err := splitNamed(def.Value, 1)
		if err != nil {
			return nil, fmt.Errorf("has_quest_flag: %w", err)
		}
		return HasQuestFlag{Flag: name, Value: n, Exact: exact}, nil

	case "has_guild_level":
		name, n, err := splitNamed(def.Value, 1)
		if err != nil {
			return nil, fmt.Errorf("has_guild_level: %w", err)
		}
		return HasGuildLevel{Guild: name, Level: n, Exact: exact}, nil

	case "in_guild":
		name, n, err := splitNamed(def.Value, 1)
		if err != nil {
			return nil, fmt.Errorf("in_guild: %w", err)
		}
		return InGuild{Guild: name, Member: n != 0}, nil

	case "has_skill":
		name, n, err := splitNamed(def.Value, 1)
		if err != nil {
			return nil, fmt.Errorf("has_skill: %w", err)
		}
		return HasSkill{Skill: name, Level: n}, nil
	}
	return nil, fmt.Errorf("unknown requirement type %q", kind)
}

// splitNamed parses "name=n" or "name" (n = def).
func splitNamed(value string, def int) (string, int, error) {
	name, num, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("missing name in %q", value)
	}
	if !found {
		return name, def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return "", 0, fmt.Errorf("invalid number in %q", value)
	}
	return name, n, nil
}
