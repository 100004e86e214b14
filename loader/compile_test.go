package loader

import (
	"testing"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

func TestRequirementHelpers(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tests := []struct {
		code string
		want types.Requirement
	}{
		{`return HasItem("Brass Key")`, types.Requirement{Type: "has_item", Value: "Brass Key"}},
		{`return HasItem(12)`, types.Requirement{Type: "has_item", Value: "12"}},
		{`return HasQuestFlag("blessed")`, types.Requirement{Type: "has_quest_flag", Value: "blessed=1"}},
		{`return Exact(HasQuestFlag("blessed", 0))`, types.Requirement{Type: "has_quest_flag", Value: "blessed=0", Match: "exact"}},
		{`return HasGuildLevel("Fighters", 3)`, types.Requirement{Type: "has_guild_level", Value: "Fighters=3"}},
		{`return InGuild("Fighters")`, types.Requirement{Type: "in_guild", Value: "Fighters=1"}},
		{`return NotInGuild("Fighters")`, types.Requirement{Type: "in_guild", Value: "Fighters=0"}},
		{`return HasSkill("Fireball")`, types.Requirement{Type: "has_skill", Value: "Fireball"}},
		{`return HasSkill("Fireball", 0)`, types.Requirement{Type: "has_skill", Value: "Fireball=0"}},
	}
	for _, tt := range tests {
		if err := L.DoString(tt.code); err != nil {
			t.Fatalf("%s: %v", tt.code, err)
		}
		got := requirementOf(L.CheckTable(-1))
		L.Pop(1)
		if got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.code, got, tt.want)
		}
	}
}

func TestActionHelpers(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tests := []struct {
		code string
		want types.ActionSpec
	}{
		{`return DamagePlayer(5)`, types.ActionSpec{Type: "damage_player", Value: "5"}},
		{`return SetQuestFlag("blessed", 2)`, types.ActionSpec{Type: "set_quest_flag", Value: "blessed=2"}},
		{`return GiveItem("Brass Key")`, types.ActionSpec{Type: "give_item", Value: "Brass Key"}},
		{`return SellToPlayer("Short Sword", 50)`, types.ActionSpec{Type: "sell_to_player", Value: "Short Swordfor50"}},
		{`return AwardAchievement(30)`, types.ActionSpec{Type: "award_achievement", Value: "30"}},
		{`return JoinGuild("Fighters")`, types.ActionSpec{Type: "join_guild", Value: "Fighters"}},
		{`return LeaveGuild()`, types.ActionSpec{Type: "leave_guild"}},
		{`return IncreaseGuildLevel("Fighters", 2)`, types.ActionSpec{Type: "increase_guild_level", Value: "Fighters=2"}},
		{`return TeachSkill("Fireball")`, types.ActionSpec{Type: "teach_skill", Value: "Fireball"}},
		{`return Multiple(DamagePlayer(1), LeaveGuild())`, types.ActionSpec{Type: "multiple", Value: "damage_player-1;leave_guild-"}},
	}
	for _, tt := range tests {
		if err := L.DoString(tt.code); err != nil {
			t.Fatalf("%s: %v", tt.code, err)
		}
		got := specOf(L.CheckTable(-1))
		L.Pop(1)
		if got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.code, got, tt.want)
		}
	}

	if err := L.DoString(`return Multiple(Multiple(LeaveGuild()))`); err == nil {
		t.Error("nested Multiple should fail")
	}
}

func TestConstructors_CollectInOrder(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Item "Cup" { type = "Junk" }
		Item "Plate" { id = 7, type = "Junk", defense = 1 }
		Guild "Mages" { description = "Robes." }
		Skill "Heal" { effect = "heal", cost = 3, strength = 10 }
		Achievement "Collector" { text = "You own a cup." }
	`); err != nil {
		t.Fatal(err)
	}

	w := coll.world()
	if len(w.Items) != 2 || w.Items[0].Name != "Cup" || w.Items[1].ID != 7 || w.Items[1].Defense != 1 {
		t.Errorf("items = %+v", w.Items)
	}
	if len(w.Guilds) != 1 || w.Guilds[0].Description != "Robes." {
		t.Errorf("guilds = %+v", w.Guilds)
	}
	if len(w.Skills) != 1 || w.Skills[0].Effect != "heal" || w.Skills[0].Strength != 10 {
		t.Errorf("skills = %+v", w.Skills)
	}
	if len(w.Achievements) != 1 || w.Achievements[0].Text != "You own a cup." {
		t.Errorf("achievements = %+v", w.Achievements)
	}
}

func TestCompile_AssignsIDsAfterExplicitOnes(t *testing.T) {
	w := world{Items: []itemSpec{
		{Name: "Cup"},
		{ID: 7, Name: "Plate"},
		{Name: "Bowl"},
	}}
	ve := &ValidationError{}
	c := compile(w, ve)
	if len(ve.Errors) != 0 {
		t.Fatalf("errors = %q", ve.Errors)
	}
	for title, want := range map[string]int{"Cup": 8, "Plate": 7, "Bowl": 9} {
		if id, _ := c.IDOf(content.KindItem, title); id != want {
			t.Errorf("%s id = %d, want %d", title, id, want)
		}
	}
}

func TestCompile_DuplicateTitleWarns(t *testing.T) {
	w := world{Guilds: []guildSpec{{Name: "Fighters"}, {Name: "fighters"}}}
	ve := &ValidationError{}
	c := compile(w, ve)
	if len(ve.Warnings) != 1 {
		t.Errorf("warnings = %q", ve.Warnings)
	}
	if g, _ := c.Guild(content.ByTitle("Fighters")); g.ID != 1 {
		t.Errorf("first declaration should win, got %+v", g)
	}
}

func TestCompile_SellTitleContainingFor(t *testing.T) {
	w := world{
		Items: []itemSpec{{ID: 3, Name: "Comfort Ring", Type: "necklace"}},
		Rooms: []roomSpec{{
			Title:   "Jeweller",
			Objects: []objectSpec{{Name: "Counter", Action: types.ActionSpec{Type: "sell_to_player", Value: "Comfort Ringfor12"}}},
		}},
	}
	ve := &ValidationError{}
	c := compile(w, ve)
	if len(ve.Errors) != 0 {
		t.Fatalf("errors = %q", ve.Errors)
	}
	if got := c.Rooms[1].Objects[0].Action.Value; got != "3for12" {
		t.Errorf("sell value = %q, want 3for12", got)
	}
}

func TestCompile_NumericRefsMustExist(t *testing.T) {
	w := world{Rooms: []roomSpec{{
		ID:    1,
		Title: "Hall",
		Exits: []exitSpec{{Link: "Self", Room: "1"}, {Link: "Void", Room: "9"}},
	}}}
	ve := &ValidationError{}
	c := compile(w, ve)
	if len(ve.Errors) != 1 {
		t.Fatalf("errors = %q, want one for the missing room 9", ve.Errors)
	}
	if exits := c.Rooms[1].Exits; exits[0].RoomID != 1 || exits[1].RoomID != 0 {
		t.Errorf("exits = %+v", exits)
	}
}
