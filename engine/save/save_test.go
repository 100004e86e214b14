package save

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/drgrpg/types"
)

func TestRoundTrip(t *testing.T) {
	rec := types.PlayerRecord{
		ID:        9,
		Name:      "Ada",
		Avatar:    "ada.png",
		Stats:     map[string]int{"hp": 30, "max_hp": 50, "gold": 12},
		Inventory: []types.ItemSnapshot{{ID: 2, Name: "Brass Key", Type: "Junk"}},
		Equipment: map[string]*types.ItemSnapshot{
			"weapon": {ID: 1, Name: "Short Sword", Type: "weapon", Attack: 5},
			"shield": nil,
		},
		CurrentRoom:  4,
		QuestFlags:   map[string]int{"blessed": 2},
		CurrentGuild: "Fighters",
		GuildLevels:  map[string]types.GuildLevel{"Fighters": {ID: 20, Level: 3}},
		Skills:       map[string]int{"Fireball": 1},
		Achievements: []int{30},
		SavedBattle: &types.BattleSnapshot{
			Info:    types.BattleInfo{Round: 2},
			Enemies: []types.MonsterSnapshot{{Name: "Rat", HP: 4, MaxHP: 10, Attack: 2}},
		},
		LastAccess: 1700000000,
	}

	data, err := Save(rec)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, rec)
	}
}

func TestSave_Envelope(t *testing.T) {
	data, err := Save(types.PlayerRecord{ID: 1, Name: "Bo"})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["version"] != float64(Version) {
		t.Errorf("version = %v", raw["version"])
	}
	player, _ := raw["player"].(map[string]any)
	if _, ok := player["equipped_items"]; !ok {
		t.Errorf("player keys = %v", player)
	}
}

func TestLoad_NilMapsInitialized(t *testing.T) {
	rec, err := Load([]byte(`{"version":1,"player":{"id":3,"name":"Cy"}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Stats == nil || rec.Equipment == nil || rec.QuestFlags == nil ||
		rec.GuildLevels == nil || rec.Skills == nil {
		t.Error("maps should be non-nil after load")
	}
	if rec.Inventory == nil || rec.Achievements == nil {
		t.Error("slices should be non-nil after load")
	}
	if rec.SavedBattle != nil {
		t.Error("no battle should load as nil")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{not json`, "invalid"},
		{"future version", `{"version":99,"player":{}}`, "newer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
