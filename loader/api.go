package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRequirementHelpers(L)
	registerActionHelpers(L)
}

// curried registers a constructor used as `Name "title" { ... }`.
func curried(L *lua.LState, name string, add func(title string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		title := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(title, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Room "title" { ... }
	curried(L, "Room", func(title string, tbl *lua.LTable) {
		coll.rooms = append(coll.rooms, rawDef{title: title, table: tbl})
	})
	// Monster "name" { ... }
	curried(L, "Monster", func(title string, tbl *lua.LTable) {
		coll.monsters = append(coll.monsters, rawDef{title: title, table: tbl})
	})
	// Item "name" { ... }
	curried(L, "Item", func(title string, tbl *lua.LTable) {
		coll.items = append(coll.items, rawDef{title: title, table: tbl})
	})
	// Skill "name" { ... }
	curried(L, "Skill", func(title string, tbl *lua.LTable) {
		coll.skills = append(coll.skills, rawDef{title: title, table: tbl})
	})
	// Guild "name" { ... }
	curried(L, "Guild", func(title string, tbl *lua.LTable) {
		coll.guilds = append(coll.guilds, rawDef{title: title, table: tbl})
	})
	// Achievement "title" { ... }
	curried(L, "Achievement", func(title string, tbl *lua.LTable) {
		coll.achievements = append(coll.achievements, rawDef{title: title, table: tbl})
	})
}

// spec builds the {type, value[, match]} table shared by requirements and
// actions.
func spec(L *lua.LState, kind, value string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(kind))
	tbl.RawSetString("value", lua.LString(value))
	return tbl
}

// refArg reads an id-or-title argument. Numbers are accepted as ids.
func refArg(L *lua.LState, n int) string {
	v := L.CheckAny(n)
	switch v.Type() {
	case lua.LTString, lua.LTNumber:
		return lua.LVAsString(v)
	}
	L.ArgError(n, "expected an id or a title")
	return ""
}

func registerRequirementHelpers(L *lua.LState) {
	// HasItem("Brass Key") or HasItem(12)
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "has_item", refArg(L, 1)))
		return 1
	}))

	// HasQuestFlag("blessed", 2); the level defaults to 1.
	L.SetGlobal("HasQuestFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		n := L.OptInt(2, 1)
		L.Push(spec(L, "has_quest_flag", fmt.Sprintf("%s=%d", flag, n)))
		return 1
	}))

	// HasGuildLevel("Fighters", 3)
	L.SetGlobal("HasGuildLevel", L.NewFunction(func(L *lua.LState) int {
		guild := L.CheckString(1)
		n := L.OptInt(2, 1)
		L.Push(spec(L, "has_guild_level", fmt.Sprintf("%s=%d", guild, n)))
		return 1
	}))

	// InGuild("Fighters")
	L.SetGlobal("InGuild", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "in_guild", L.CheckString(1)+"=1"))
		return 1
	}))

	// NotInGuild("Fighters")
	L.SetGlobal("NotInGuild", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "in_guild", L.CheckString(1)+"=0"))
		return 1
	}))

	// HasSkill("Fireball") or HasSkill("Fireball", 0) for "does not know".
	L.SetGlobal("HasSkill", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := name
		if L.GetTop() >= 2 {
			value = fmt.Sprintf("%s=%d", name, L.CheckInt(2))
		}
		L.Push(spec(L, "has_skill", value))
		return 1
	}))

	// Exact(requirement) switches a requirement to exact matching.
	L.SetGlobal("Exact", L.NewFunction(func(L *lua.LState) int {
		req := L.CheckTable(1)
		out := spec(L, getString(req, "type"), getString(req, "value"))
		out.RawSetString("match", lua.LString("exact"))
		L.Push(out)
		return 1
	}))
}

func registerActionHelpers(L *lua.LState) {
	// DamagePlayer(5)
	L.SetGlobal("DamagePlayer", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "damage_player", fmt.Sprint(L.CheckInt(1))))
		return 1
	}))

	// SetQuestFlag("blessed", 2)
	L.SetGlobal("SetQuestFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		n := L.OptInt(2, 1)
		L.Push(spec(L, "set_quest_flag", fmt.Sprintf("%s=%d", flag, n)))
		return 1
	}))

	// GiveItem("Brass Key")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "give_item", refArg(L, 1)))
		return 1
	}))

	// SellToPlayer("Short Sword", 50)
	L.SetGlobal("SellToPlayer", L.NewFunction(func(L *lua.LState) int {
		item := refArg(L, 1)
		price := L.CheckInt(2)
		L.Push(spec(L, "sell_to_player", fmt.Sprintf("%sfor%d", item, price)))
		return 1
	}))

	// AwardAchievement("Explorer")
	L.SetGlobal("AwardAchievement", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "award_achievement", refArg(L, 1)))
		return 1
	}))

	// JoinGuild("Fighters")
	L.SetGlobal("JoinGuild", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "join_guild", refArg(L, 1)))
		return 1
	}))

	// LeaveGuild()
	L.SetGlobal("LeaveGuild", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "leave_guild", ""))
		return 1
	}))

	// IncreaseGuildLevel("Fighters", 2)
	L.SetGlobal("IncreaseGuildLevel", L.NewFunction(func(L *lua.LState) int {
		guild := L.CheckString(1)
		n := L.CheckInt(2)
		L.Push(spec(L, "increase_guild_level", fmt.Sprintf("%s=%d", guild, n)))
		return 1
	}))

	// TeachSkill("Fireball")
	L.SetGlobal("TeachSkill", L.NewFunction(func(L *lua.LState) int {
		L.Push(spec(L, "teach_skill", refArg(L, 1)))
		return 1
	}))

	// Multiple(SetQuestFlag("a", 1), GiveItem("Key"), ...)
	L.SetGlobal("Multiple", L.NewFunction(func(L *lua.LState) int {
		var steps []string
		for i := 1; i <= L.GetTop(); i++ {
			step := L.CheckTable(i)
			kind := getString(step, "type")
			if kind == "multiple" {
				L.ArgError(i, "Multiple cannot be nested")
				return 0
			}
			steps = append(steps, kind+"-"+getString(step, "value"))
		}
		L.Push(spec(L, "multiple", strings.Join(steps, ";")))
		return 1
	}))
}
