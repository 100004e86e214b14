package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	vm := newLuaVM()
	return vm.L, vm.coll
}

// writeWorld writes files into a temp directory and returns it.
func writeWorld(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad_SampleWorld(t *testing.T) {
	res, err := Load(filepath.Join("..", "world"), "New Player Arrival")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %q", res.Warnings)
	}
	c := res.Catalog
	if len(c.Rooms) != 6 {
		t.Errorf("rooms = %d, want 6", len(c.Rooms))
	}
	chapel, ok := c.Room(content.ByTitle("Chapel"))
	if !ok || chapel.ID != 2 {
		t.Fatalf("chapel = %+v, %v", chapel, ok)
	}
	if got := chapel.Objects[0].Action.Value; got != "set_quest_flag-blessed=1;give_item-6;award_achievement-2" {
		t.Errorf("altar action = %q", got)
	}
}

func TestLoad_World(t *testing.T) {
	res, err := Load("testdata/world", "New Player Arrival")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c := res.Catalog

	if len(c.Rooms) != 3 {
		t.Fatalf("rooms = %d, want 3", len(c.Rooms))
	}
	field, ok := c.Room(content.ByTitle("Rat Field"))
	if !ok {
		t.Fatal("Rat Field not loaded")
	}
	if field.ID != 4 {
		t.Errorf("Rat Field id = %d, want 4 (after the largest explicit id)", field.ID)
	}
	if field.MaxMonsters != 2 || len(field.Monsters) != 2 || field.Monsters[0] != 100 || field.Monsters[1] != 101 {
		t.Errorf("Rat Field monsters = %v max %d", field.Monsters, field.MaxMonsters)
	}
	if wolf, ok := c.Monster(content.ByID(101)); !ok || wolf.Name != "Wolf" || wolf.HP != 20 {
		t.Errorf("wolf = %+v, %v", wolf, ok)
	}

	start := c.Rooms[1]
	if start.Environment != "town" || start.Description != "A quiet square." {
		t.Errorf("start room = %+v", start)
	}
	if len(start.Exits) != 2 {
		t.Fatalf("exits = %+v", start.Exits)
	}
	north := start.Exits[0]
	if north.Link != "North" || north.RoomID != 4 {
		t.Errorf("north exit = %+v", north)
	}
	if north.Requires != (types.Requirement{Type: "has_quest_flag", Value: "blessed=2"}) {
		t.Errorf("north requirement = %+v", north.Requires)
	}
	if start.Exits[1].RoomID != 3 {
		t.Errorf("east exit = %+v", start.Exits[1])
	}

	objects := map[string]types.ObjectDef{}
	for _, o := range start.Objects {
		objects[o.Name] = o
	}
	if got := objects["Shop"].Action; got != (types.ActionSpec{Type: "sell_to_player", Value: "1for50"}) {
		t.Errorf("shop action = %+v", got)
	}
	wantAltar := "set_quest_flag-blessed=2;give_item-2;award_achievement-30"
	if got := objects["Altar"].Action; got.Type != "multiple" || got.Value != wantAltar {
		t.Errorf("altar action = %+v, want value %q", got, wantAltar)
	}
	if got := objects["Shrine Door"].Requires; got.Type != "has_item" || got.Value != "2" {
		t.Errorf("door requirement = %+v", got)
	}
	if got := objects["Hall"].Requires; got.Type != "in_guild" || got.Value != "Fighters=0" {
		t.Errorf("hall requirement = %+v", got)
	}

	shrine := c.Rooms[3]
	if shrine.Objects[0].Requires.Match != "exact" {
		t.Errorf("trainer requirement = %+v", shrine.Objects[0].Requires)
	}

	if key, ok := c.Item(content.ByTitle("Brass Key")); !ok || key.ID != 2 || key.Type != "Junk" {
		t.Errorf("brass key = %+v, %v", key, ok)
	}
	if s, ok := c.Skill(content.ByTitle("Fireball")); !ok || s.Cost != 5 || s.Variability != 10 {
		t.Errorf("fireball = %+v, %v", s, ok)
	}
	if a, ok := c.Achievement(30); !ok || a.Title != "Pilgrim" {
		t.Errorf("achievement 30 = %+v, %v", a, ok)
	}

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], `"Broken" requirement is malformed`) {
		t.Errorf("warnings = %q", res.Warnings)
	}
}

func TestLoad_MissingStartRoom_Fails(t *testing.T) {
	_, err := Load("testdata/world", "Nowhere")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(ve.Errors) != 1 || !strings.Contains(ve.Errors[0], `start room "Nowhere"`) {
		t.Errorf("errors = %q", ve.Errors)
	}
}

func TestLoad_InvalidRefs_Fails(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": `
			Room "Hall" {
				monsters = { "Ghost" },
				objects = {
					{ name = "Chest", description = "Old.", action = GiveItem("Crown") },
					{ name = "Clerk", description = "Busy.", action = SellToPlayer(9, 10) },
				},
				exits = { { link = "Down", room = "Cellar" } },
			}
		`,
	})
	_, err := Load(dir, "")
	if err == nil {
		t.Fatal("expected error for invalid references")
	}
	for _, want := range []string{"undefined monster \"Ghost\"", "undefined item \"Crown\"", "undefined item \"9\"", "undefined room \"Cellar\""} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, expected %q", err.Error(), want)
		}
	}
}

func TestLoad_DuplicateIDs_Fails(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"a.yaml": "items:\n  - {id: 4, name: Cup, type: Junk}\n",
		"b.yaml": "items:\n  - {id: 4, name: Plate, type: Junk}\n",
	})
	_, err := Load(dir, "")
	if err == nil || !strings.Contains(err.Error(), "duplicate item id 4") {
		t.Errorf("err = %v, expected duplicate item id", err)
	}
}

func TestLoad_UnknownActionType_Fails(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"room.yaml": `
rooms:
  - title: Hall
    objects:
      - name: Lever
        description: Rusty.
        action: {type: open_door, value: "1"}
    exits:
      - {link: Out, room: Hall}
`,
	})
	_, err := Load(dir, "Hall")
	if err == nil || !strings.Contains(err.Error(), `unknown action type "open_door"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_UnknownYAMLField_Fails(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"room.yaml": "rooms:\n  - title: Hall\n    colour: red\n",
	})
	if _, err := Load(dir, ""); err == nil || !strings.Contains(err.Error(), "room.yaml") {
		t.Errorf("err = %v, want a parse error naming the file", err)
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	_, err := Load("testdata/lua_error", "")
	if err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Fatalf("err = %v, expected a Lua error naming the file", err)
	}
}

func TestLoad_NoWorldFiles_Fails(t *testing.T) {
	dir := writeWorld(t, map[string]string{"README.md": "# nothing"})
	if _, err := Load(dir, ""); err == nil {
		t.Fatal("expected error for an empty world directory")
	}
	if _, err := Load(filepath.Join(dir, "missing"), ""); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestLoad_LuaFilesShareState(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"a.lua": `function Cave(title, to) Room(title) { exits = { { link = "Out", room = to } } } end`,
		"b.lua": `Cave("Deep Cave", "Shallow Cave") Cave("Shallow Cave", "Deep Cave")`,
	})
	res, err := Load(dir, "Deep Cave")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	deep, _ := res.Catalog.Room(content.ByTitle("Deep Cave"))
	if deep.ID != 1 || deep.Exits[0].RoomID != 2 {
		t.Errorf("deep cave = %+v", deep)
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, code := range []string{
		`os.execute("echo pwned")`,
		`io.open("/etc/passwd")`,
		`dofile("x.lua")`,
		`require("os")`,
		`math.random()`,
	} {
		if err := L.DoString(code); err == nil {
			t.Errorf("%s: expected sandbox to block it", code)
		}
	}
}
