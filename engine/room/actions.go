package room

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/drgrpg/engine/entity"
	"github.com/nathoo/drgrpg/types"
)

// ProcessObjectAction runs the action of the first object with this name
// whose requirement passes. A "multiple" action runs each of its
// ';'-separated "type-value" steps in order; a malformed step is skipped
// without affecting its siblings.
func (r *Room) ProcessObjectAction(name string) bool {
	for _, o := range r.def.Objects {
		if o.Name != name || !r.allowed(o.Requires) {
			continue
		}
		spec := o.Action
		if spec.Type == "" {
			return false
		}
		if spec.Type == "multiple" {
			for _, step := range strings.Split(spec.Value, ";") {
				kind, arg, _ := strings.Cut(strings.TrimSpace(step), "-")
				r.apply(strings.TrimSpace(kind), strings.TrimSpace(arg))
			}
			return true
		}
		r.apply(spec.Type, strings.TrimSpace(spec.Value))
		return true
	}
	return false
}

// apply executes one action step against the player.
func (r *Room) apply(kind, arg string) {
	p := r.player
	switch kind {
	case "damage_player":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return
		}
		p.Augment("hp", -n)

	case "set_quest_flag":
		flag, value, ok := splitPair(arg, "=")
		if !ok {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n == 0 {
			return
		}
		p.SetQuestFlag(flag, n)

	case "give_item":
		it, ok := entity.ItemFromRef(r.content, arg)
		if !ok {
			return
		}
		p.GiveItem(it)

	case "sell_to_player":
		r.sell(arg)

	case "award_achievement":
		id, err := strconv.Atoi(arg)
		if err != nil {
			return
		}
		p.AwardAchievement(id)

	case "join_guild":
		if arg == "" {
			return
		}
		p.JoinGuild(arg)

	case "leave_guild":
		p.LeaveGuild()

	case "increase_guild_level":
		guild, level, ok := splitPair(arg, "=")
		if !ok {
			return
		}
		n, err := strconv.Atoi(level)
		if err != nil || n == 0 {
			return
		}
		p.IncreaseGuildLevel(guild, n)

	case "teach_skill":
		if arg == "" {
			return
		}
		p.AddSkill(arg)
	}
}

// sell handles "<item id>for<price>".
func (r *Room) sell(arg string) {
	idStr, priceStr, ok := splitPair(arg, "for")
	if !ok {
		return
	}
	id, err1 := strconv.Atoi(idStr)
	price, err2 := strconv.Atoi(priceStr)
	if err1 != nil || err2 != nil {
		return
	}
	p := r.player
	msgs := p.Messages()
	if p.Stat("gold") < price {
		r.notify("error", fmt.Sprintf(msgs.NeedGold, price))
		return
	}
	it, ok := entity.ItemFromTemplateID(r.content, id)
	if !ok {
		r.notify("error", fmt.Sprintf(msgs.InvalidItem, r.def.ID, id))
		return
	}
	if price != 0 {
		p.Augment("gold", -price)
	}
	p.GiveItem(it)
	r.notify("goodNews", fmt.Sprintf(msgs.Purchased, it.Name, price))
}

// splitPair splits "a<sep>b" into trimmed non-empty halves.
func splitPair(s, sep string) (string, string, bool) {
	a, b, found := strings.Cut(s, sep)
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !found || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// ObjectAction returns the authored action of the first visible object
// with this name. Used by clients to label what an object does.
func (r *Room) ObjectAction(name string) (types.ActionSpec, bool) {
	for _, o := range r.def.Objects {
		if o.Name == name && r.allowed(o.Requires) {
			return o.Action, o.Action.Type != ""
		}
	}
	return types.ActionSpec{}, false
}
