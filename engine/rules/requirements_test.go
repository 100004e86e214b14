package rules

import (
	"testing"

	"github.com/nathoo/drgrpg/types"
)

type fakeSubject struct {
	items  map[int]bool
	flags  map[string]int
	guilds map[string]int
	guild  string
	skills map[string]int
}

func (f fakeSubject) HasItem(id int) bool { return f.items[id] }
func (f fakeSubject) QuestFlag(name string) (int, bool) {
	v, ok := f.flags[name]
	return v, ok
}
func (f fakeSubject) GuildLevel(name string) (int, bool) {
	v, ok := f.guilds[name]
	return v, ok
}
func (f fakeSubject) CurrentGuild() string { return f.guild }
func (f fakeSubject) SkillLevel(name string) (int, bool) {
	v, ok := f.skills[name]
	return v, ok
}

func testSubject() fakeSubject {
	return fakeSubject{
		items:  map[int]bool{12: true},
		flags:  map[string]int{"met_king": 2},
		guilds: map[string]int{"Fighters": 3, "Thieves": 1},
		guild:  "Fighters",
		skills: map[string]int{"Fireball": 1},
	}
}

func TestCompileAndMet(t *testing.T) {
	s := testSubject()

	tests := []struct {
		name string
		def  types.Requirement
		want bool
	}{
		{"has_item: carried", types.Requirement{Type: "has_item", Value: "12"}, true},
		{"has_item: missing", types.Requirement{Type: "has_item", Value: "13"}, false},

		{"quest flag minimum met", types.Requirement{Type: "has_quest_flag", Value: "met_king=2"}, true},
		{"quest flag minimum below", types.Requirement{Type: "has_quest_flag", Value: "met_king=3"}, false},
		{"quest flag bare name means 1", types.Requirement{Type: "has_quest_flag", Value: "met_king"}, true},
		{"quest flag unset", types.Requirement{Type: "has_quest_flag", Value: "met_queen=1"}, false},
		{"quest flag exact equal", types.Requirement{Type: "has_quest_flag", Value: "met_king=2", Match: "exact"}, true},
		{"quest flag exact above", types.Requirement{Type: "has_quest_flag", Value: "met_king=1", Match: "exact"}, false},
		{"quest flag exact zero absent", types.Requirement{Type: "has_quest_flag", Value: "met_queen=0", Match: "exact"}, true},
		{"quest flag exact zero present", types.Requirement{Type: "has_quest_flag", Value: "met_king=0", Match: "exact"}, false},

		{"guild level minimum", types.Requirement{Type: "has_guild_level", Value: "Fighters=2"}, true},
		{"guild level exact", types.Requirement{Type: "has_guild_level", Value: "Fighters=3", Match: "exact"}, true},
		{"guild level exact mismatch", types.Requirement{Type: "has_guild_level", Value: "Fighters=2", Match: "exact"}, false},
		{"guild level never joined", types.Requirement{Type: "has_guild_level", Value: "Mages=1"}, false},
		{"guild level zero never joined", types.Requirement{Type: "has_guild_level", Value: "Mages=0"}, true},
		{"guild level zero joined", types.Requirement{Type: "has_guild_level", Value: "Thieves=0"}, false},

		{"in guild yes", types.Requirement{Type: "in_guild", Value: "Fighters=1"}, true},
		{"in guild no", types.Requirement{Type: "in_guild", Value: "Fighters=0"}, false},
		{"not in other guild", types.Requirement{Type: "in_guild", Value: "Thieves=0"}, true},

		{"has skill", types.Requirement{Type: "has_skill", Value: "Fireball"}, true},
		{"has skill level too high", types.Requirement{Type: "has_skill", Value: "Fireball=2"}, false},
		{"lacks skill", types.Requirement{Type: "has_skill", Value: "Heal=0"}, true},
		{"lacks skill but knows it", types.Requirement{Type: "has_skill", Value: "Fireball=0"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Compile(tt.def)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if got := Check(req, s); got != tt.want {
				t.Errorf("Met = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Empty(t *testing.T) {
	req, err := Compile(types.Requirement{})
	if err != nil || req != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", req, err)
	}
	if !Check(req, testSubject()) {
		t.Error("absent requirement must pass")
	}
}

func TestCompile_Malformed(t *testing.T) {
	bad := []types.Requirement{
		{Type: "has_item", Value: "sword"},
		{Type: "has_item", Value: "0"},
		{Type: "has_quest_flag", Value: "=3"},
		{Type: "has_guild_level", Value: "Fighters=high"},
		{Type: "has_pet", Value: "dog"},
	}
	for _, def := range bad {
		if _, err := Compile(def); err == nil {
			t.Errorf("expected error for %+v", def)
		}
	}
}
