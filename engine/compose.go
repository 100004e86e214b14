package engine

import (
	"fmt"
	"strconv"

	"github.com/nathoo/drgrpg/engine/entity"
	"github.com/nathoo/drgrpg/types"
)

// GuildView is the client guild block. Level is 0 outside a guild.
type GuildView struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// compose adds the blocks this turn's dirty flags call for. It never
// compares against earlier state.
func (t *turn) compose() {
	p := t.p
	out := t.out

	if p.Dirty.Stats {
		out.Add("playerStats", p.Stats())
	}
	if p.Dirty.Skills {
		out.Add("playerSkills", p.Skills())
	}
	if p.Dirty.Items {
		if inv := p.Inventory(); len(inv) > 0 {
			out.Add("playerInventory", inv)
		} else if !t.firstTurn {
			out.Add("clearInventory", "x")
		}
		if p.HasEquipment() {
			out.Add("playerEquipment", p.Equipment())
		}
	}

	// roomUpdate lets the client refresh exits and objects without leaving
	// whatever text the player is reading.
	if t.room != nil {
		if p.Dirty.Moved {
			out.Add("room", t.room.Data())
		} else if p.Dirty.QuestFlags {
			out.Add("roomUpdate", t.room.Data())
		}
	}

	if p.Dirty.Guild {
		out.Add("updatePlayerGuild", GuildView{Name: p.CurrentGuild(), Level: p.CurrentGuildLevel()})
	}

	for _, n := range p.Notifications() {
		out.Add("notifications", n)
	}
	if t.room != nil {
		for _, n := range t.room.Notifications() {
			out.Add("notifications", n)
		}
	}
	out.Add("newAchievement", p.NewAchievements())
}

// argString flattens an action argument. JSON numbers arrive as float64.
func argString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// itemArg reads an item snapshot argument.
func itemArg(v any) (types.ItemSnapshot, bool) {
	switch a := v.(type) {
	case types.ItemSnapshot:
		return a, a.ID > 0
	case *types.ItemSnapshot:
		if a == nil {
			return types.ItemSnapshot{}, false
		}
		return *a, a.ID > 0
	case map[string]any:
		return entity.ItemFromSnapshot(a)
	}
	return types.ItemSnapshot{}, false
}
