package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

// rawDef holds a constructor's title and table before conversion.
type rawDef struct {
	title string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	rooms        []rawDef
	monsters     []rawDef
	items        []rawDef
	skills       []rawDef
	guilds       []rawDef
	achievements []rawDef
}

// Result is a loaded world.
type Result struct {
	Catalog  *content.Catalog
	Warnings []string
}

// Load reads every .lua, .yaml, and .yml file in dir, resolves references
// between them, and validates the result. startRoom, when set, must name
// a room in the world.
func Load(dir, startRoom string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".lua", ".yaml", ".yml":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no world files (.lua, .yaml) found in %s", dir)
	}

	var w world
	var vm *luaVM
	defer func() {
		if vm != nil {
			vm.close()
		}
	}()
	for _, f := range sortedWorldFiles(files) {
		path := filepath.Join(dir, f)
		if !strings.EqualFold(filepath.Ext(f), ".lua") {
			part, err := readYAML(path)
			if err != nil {
				return nil, err
			}
			w.merge(part)
			continue
		}
		if vm == nil {
			vm = newLuaVM()
		}
		part, err := vm.run(path)
		if err != nil {
			return nil, err
		}
		w.merge(part)
	}

	ve := &ValidationError{}
	c := compile(w, ve)
	validate(c, startRoom, ve)
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return &Result{Catalog: c, Warnings: ve.Warnings}, nil
}

// readYAML decodes one YAML world file. A file may hold several
// documents separated by "---".
func readYAML(path string) (world, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return world{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var w world
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var doc world
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return world{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		w.merge(doc)
	}
	return w, nil
}

// luaVM is one sandboxed Lua state shared by every Lua file of a world,
// so helpers defined in one file are visible to the files after it.
type luaVM struct {
	L    *lua.LState
	coll *collector
}

func newLuaVM() *luaVM {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return &luaVM{L: L, coll: coll}
}

// run executes one file and returns what it declared.
func (vm *luaVM) run(path string) (world, error) {
	if err := vm.L.DoFile(path); err != nil {
		return world{}, fmt.Errorf("executing %s: %w", filepath.Base(path), err)
	}
	w := vm.coll.world()
	*vm.coll = collector{}
	return w, nil
}

func (vm *luaVM) close() { vm.L.Close() }

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	// World files must declare the same world on every load.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// world converts the collected Lua tables.
func (c *collector) world() world {
	var w world
	for _, r := range c.rooms {
		w.Rooms = append(w.Rooms, luaRoom(r))
	}
	for _, r := range c.monsters {
		t := r.table
		w.Monsters = append(w.Monsters, monsterSpec{
			ID:         getInt(t, "id"),
			Name:       r.title,
			Image:      getString(t, "image"),
			HP:         getInt(t, "hp"),
			Attack:     getInt(t, "attack"),
			Defense:    getInt(t, "defense"),
			RewardGold: getInt(t, "reward_gold"),
			RewardExp:  getInt(t, "reward_exp"),
		})
	}
	for _, r := range c.items {
		t := r.table
		w.Items = append(w.Items, itemSpec{
			ID:          getInt(t, "id"),
			Name:        r.title,
			Description: getString(t, "description"),
			Type:        getString(t, "type"),
			Attack:      getInt(t, "attack"),
			Defense:     getInt(t, "defense"),
		})
	}
	for _, r := range c.skills {
		t := r.table
		w.Skills = append(w.Skills, skillSpec{
			ID:          getInt(t, "id"),
			Name:        r.title,
			Description: getString(t, "description"),
			Effect:      getString(t, "effect"),
			Cost:        getInt(t, "cost"),
			Strength:    getInt(t, "strength"),
			Variability: getInt(t, "variability"),
		})
	}
	for _, r := range c.guilds {
		w.Guilds = append(w.Guilds, guildSpec{
			ID:          getInt(r.table, "id"),
			Name:        r.title,
			Description: getString(r.table, "description"),
		})
	}
	for _, r := range c.achievements {
		w.Achievements = append(w.Achievements, achievementSpec{
			ID:    getInt(r.table, "id"),
			Title: r.title,
			Text:  getString(r.table, "text"),
		})
	}
	return w
}

func luaRoom(r rawDef) roomSpec {
	t := r.table
	room := roomSpec{
		ID:          getInt(t, "id"),
		Title:       r.title,
		Description: getString(t, "description"),
		Environment: getString(t, "environment"),
		MaxMonsters: getInt(t, "max_monsters"),
	}
	forEachIndexed(getTable(t, "monsters"), func(v lua.LValue) {
		if ref := luaRef(v); ref != "" {
			room.Monsters = append(room.Monsters, ref)
		}
	})
	forEachIndexed(getTable(t, "objects"), func(v lua.LValue) {
		o, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		room.Objects = append(room.Objects, objectSpec{
			Name:        getString(o, "name"),
			Group:       getString(o, "group"),
			Description: getString(o, "description"),
			Action:      specOf(getTable(o, "action")),
			Requires:    requirementOf(getTable(o, "requires")),
		})
	})
	forEachIndexed(getTable(t, "exits"), func(v lua.LValue) {
		e, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		room.Exits = append(room.Exits, exitSpec{
			Link:     getString(e, "link"),
			Room:     luaRef(e.RawGetString("room")),
			Requires: requirementOf(getTable(e, "requires")),
		})
	})
	return room
}

// specOf reads a {type, value} table built by a helper or written by hand.
func specOf(tbl *lua.LTable) types.ActionSpec {
	if tbl == nil {
		return types.ActionSpec{}
	}
	return types.ActionSpec{
		Type:  getString(tbl, "type"),
		Value: luaRef(tbl.RawGetString("value")),
	}
}

func requirementOf(tbl *lua.LTable) types.Requirement {
	if tbl == nil {
		return types.Requirement{}
	}
	s := specOf(tbl)
	return types.Requirement{Type: s.Type, Value: s.Value, Match: getString(tbl, "match")}
}

// forEachIndexed visits the array part of a table in order.
func forEachIndexed(tbl *lua.LTable, fn func(lua.LValue)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.Len(); i++ {
		fn(tbl.RawGetInt(i))
	}
}

// luaRef returns a string or number value as text, or "" otherwise.
func luaRef(v lua.LValue) string {
	switch v.Type() {
	case lua.LTString, lua.LTNumber:
		return lua.LVAsString(v)
	}
	return ""
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}
