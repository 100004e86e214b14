package monster

import (
	"testing"

	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/types"
)

func rat() types.MonsterDef {
	return types.MonsterDef{
		ID: 1, Name: "Rat", Image: "rat.png",
		HP: 100, Attack: 20, Defense: 10, RewardGold: 40, RewardExp: 60,
	}
}

func TestFromTemplate_VarianceBounds(t *testing.T) {
	r := rng.New(42)
	for i := 0; i < 200; i++ {
		m := FromTemplate(rat(), r)
		if m.HP() < 95 || m.HP() > 105 {
			t.Fatalf("hp %d outside [95,105]", m.HP())
		}
		if m.MaxHP() != m.HP() {
			t.Fatalf("max_hp %d should equal rolled hp %d", m.MaxHP(), m.HP())
		}
		if m.Attack() < 19 || m.Attack() > 21 {
			t.Fatalf("attack %d outside [19,21]", m.Attack())
		}
		if m.Defense() < 9 || m.Defense() > 10 {
			t.Fatalf("defense %d outside [9,10]", m.Defense())
		}
	}
}

func TestFromTemplate_MissingStatsUseFloors(t *testing.T) {
	m := FromTemplate(types.MonsterDef{Name: "Wisp"}, rng.New(1))

	if m.Attack() != 1 {
		t.Errorf("attack = %d, want floor 1", m.Attack())
	}
	if m.MaxHP() != 1 {
		t.Errorf("max_hp = %d, want floor 1", m.MaxHP())
	}
	if m.HP() != 1 || !m.Alive() {
		t.Errorf("hp = %d, want the max_hp floor so the monster can fight", m.HP())
	}
}

func TestFromSnapshot_NoVariance(t *testing.T) {
	snap := types.MonsterSnapshot{Name: "Rat", HP: 5, MaxHP: 5, Attack: 1, RewardGold: 2, RewardExp: 3}
	m := FromSnapshot(snap)

	if got := m.Snapshot(); got != snap {
		t.Errorf("snapshot round trip: got %+v, want %+v", got, snap)
	}
}

func TestFromSnapshot_DefaultName(t *testing.T) {
	m := FromSnapshot(types.MonsterSnapshot{HP: 3, MaxHP: 3})
	if m.Name() != DefaultName {
		t.Errorf("name = %q, want %q", m.Name(), DefaultName)
	}
}

func TestTakeDamage_RewardOnce(t *testing.T) {
	m := FromSnapshot(types.MonsterSnapshot{Name: "Rat", HP: 5, MaxHP: 5, Attack: 1, RewardGold: 2, RewardExp: 3})

	if _, ok := m.TakeDamage(3); ok {
		t.Fatal("non-lethal hit should not reward")
	}
	reward, ok := m.TakeDamage(10)
	if !ok {
		t.Fatal("lethal hit should reward")
	}
	if reward != (Reward{XP: 3, Gold: 2}) {
		t.Errorf("reward = %+v", reward)
	}
	if m.HP() != 0 {
		t.Errorf("hp = %d, want 0", m.HP())
	}
	if _, ok := m.TakeDamage(10); ok {
		t.Error("second lethal hit must not reward again")
	}
	if got := len(m.Results()["monsterDefeated"]); got != 1 {
		t.Errorf("expected 1 monsterDefeated result, got %d", got)
	}
}

func TestTakeDamage_NonPositiveIgnored(t *testing.T) {
	m := FromSnapshot(types.MonsterSnapshot{Name: "Rat", HP: 5, MaxHP: 5})

	m.TakeDamage(0)
	m.TakeDamage(-4)
	if m.HP() != 5 {
		t.Errorf("hp = %d, want 5", m.HP())
	}
}

func TestView(t *testing.T) {
	m := FromSnapshot(types.MonsterSnapshot{Name: "Rat", Image: "rat.png", HP: 4, MaxHP: 5})
	want := View{Name: "Rat", Image: "rat.png", HP: 4, MaxHP: 5}
	if got := m.View(); got != want {
		t.Errorf("view = %+v, want %+v", got, want)
	}
}
