package entity

import (
	"testing"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/types"
)

func testLookup() *content.Catalog {
	c := content.NewCatalog()
	c.AddItem(types.ItemDef{ID: 4, Name: "Short Sword", Type: "weapon", Attack: 5})
	c.AddItem(types.ItemDef{ID: 5, Name: "Pebble"})
	c.AddSkill(types.SkillDef{ID: 8, Name: "Fireball", Effect: "damage", Cost: 5, Strength: 10})
	c.AddGuild(types.GuildDef{ID: 9, Name: "Fighters"})
	return c
}

func TestItemFromTemplateID(t *testing.T) {
	it, ok := ItemFromTemplateID(testLookup(), 4)
	if !ok {
		t.Fatal("expected item 4")
	}
	want := types.ItemSnapshot{ID: 4, Name: "Short Sword", Type: "weapon", Attack: 5}
	if it != want {
		t.Errorf("got %+v, want %+v", it, want)
	}
	if _, ok := ItemFromTemplateID(testLookup(), 99); ok {
		t.Error("unknown id should fail")
	}
}

func TestItemFromTitle_DefaultType(t *testing.T) {
	it, ok := ItemFromTitle(testLookup(), "Pebble")
	if !ok {
		t.Fatal("expected Pebble")
	}
	if it.Type != DefaultItemType {
		t.Errorf("type = %q, want %q", it.Type, DefaultItemType)
	}
}

func TestItemFromRef(t *testing.T) {
	l := testLookup()
	if it, ok := ItemFromRef(l, "4"); !ok || it.Name != "Short Sword" {
		t.Errorf("numeric ref: %+v %v", it, ok)
	}
	if it, ok := ItemFromRef(l, "short sword"); !ok || it.ID != 4 {
		t.Errorf("title ref: %+v %v", it, ok)
	}
}

func TestItemFromSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   types.ItemSnapshot
		ok     bool
	}{
		{
			name:   "json numbers",
			fields: map[string]any{"id": float64(4), "name": "Short Sword", "type": "weapon", "attack": float64(5), "defense": float64(0)},
			want:   types.ItemSnapshot{ID: 4, Name: "Short Sword", Type: "weapon", Attack: 5},
			ok:     true,
		},
		{
			name:   "numeric strings",
			fields: map[string]any{"id": "4", "name": "Short Sword", "type": "weapon", "attack": "5", "defense": "0"},
			want:   types.ItemSnapshot{ID: 4, Name: "Short Sword", Type: "weapon", Attack: 5},
			ok:     true,
		},
		{
			name:   "negative stats floored",
			fields: map[string]any{"id": 2, "name": "Cursed Ring", "type": "necklace", "attack": -3},
			want:   types.ItemSnapshot{ID: 2, Name: "Cursed Ring", Type: "necklace"},
			ok:     true,
		},
		{
			name:   "missing name",
			fields: map[string]any{"id": 4},
			ok:     false,
		},
		{
			name:   "bad id",
			fields: map[string]any{"id": "four", "name": "x"},
			ok:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ItemFromSnapshot(tt.fields)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSkillAndGuildRefs(t *testing.T) {
	l := testLookup()
	if s, ok := SkillFromRef(l, "Fireball"); !ok || s.ID != 8 {
		t.Errorf("skill by title: %+v %v", s, ok)
	}
	if s, ok := SkillFromTemplateID(l, 8); !ok || s.Name != "Fireball" {
		t.Errorf("skill by id: %+v %v", s, ok)
	}
	if g, ok := GuildFromRef(l, "9"); !ok || g.Name != "Fighters" {
		t.Errorf("guild by id: %+v %v", g, ok)
	}
	if _, ok := GuildFromTitle(l, "Mages"); ok {
		t.Error("unknown guild should fail")
	}
}
