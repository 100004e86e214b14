package player

import (
	"fmt"
	"math"
	"sort"

	"github.com/nathoo/drgrpg/engine/entity"
	"github.com/nathoo/drgrpg/types"
)

// QuestFlag returns a quest flag value.
func (p *Player) QuestFlag(name string) (int, bool) {
	v, ok := p.questFlags[name]
	return v, ok
}

// QuestFlags returns a copy of every quest flag.
func (p *Player) QuestFlags() map[string]int {
	return copyInts(p.questFlags)
}

// SetQuestFlag raises a flag to value. Flags never go down here; a lower
// or non-positive value is rejected.
func (p *Player) SetQuestFlag(name string, value int) bool {
	if name == "" || value <= 0 {
		return false
	}
	if cur, ok := p.questFlags[name]; ok && cur >= value {
		return false
	}
	p.questFlags[name] = value
	p.Dirty.QuestFlags = true
	return true
}

// RemoveQuestFlag deletes a flag.
func (p *Player) RemoveQuestFlag(name string) bool {
	if _, ok := p.questFlags[name]; !ok {
		return false
	}
	delete(p.questFlags, name)
	p.Dirty.QuestFlags = true
	return true
}

// CurrentGuild returns the guild the player belongs to, or "".
func (p *Player) CurrentGuild() string {
	return p.currentGuild
}

// GuildLevel returns the recorded level in a guild, kept after leaving.
func (p *Player) GuildLevel(name string) (int, bool) {
	gl, ok := p.guildLevels[name]
	if !ok || gl.Level <= 0 {
		return 0, false
	}
	return gl.Level, true
}

// CurrentGuildLevel returns the level in the current guild.
func (p *Player) CurrentGuildLevel() int {
	lvl, _ := p.GuildLevel(p.currentGuild)
	return lvl
}

// JoinGuild joins the guild named by an id-or-name reference. A player
// already in a guild cannot join another. Rejoining keeps the old level.
func (p *Player) JoinGuild(ref string) bool {
	if p.currentGuild != "" || p.content == nil {
		return false
	}
	g, ok := entity.GuildFromRef(p.content, ref)
	if !ok {
		return false
	}
	p.currentGuild = g.Name
	if gl, ok := p.guildLevels[g.Name]; ok && gl.Level > 0 {
		p.Notify("guild", fmt.Sprintf(p.msgs.GuildRejoined, gl.Level, g.Name))
	} else {
		p.guildLevels[g.Name] = types.GuildLevel{ID: g.ID, Level: 1}
		p.Notify("guild", fmt.Sprintf(p.msgs.GuildJoined, g.Name))
	}
	p.Dirty.Guild = true
	p.Dirty.Moved = true
	return true
}

// LeaveGuild leaves the current guild. The recorded level is kept.
func (p *Player) LeaveGuild() bool {
	if p.currentGuild == "" {
		return false
	}
	name := p.currentGuild
	p.currentGuild = ""
	p.Notify("guild", fmt.Sprintf(p.msgs.GuildLeft, name))
	p.Dirty.Guild = true
	p.Dirty.Moved = true
	return true
}

// IncreaseGuildLevel raises the level in a guild the player has joined.
// Levels never go down.
func (p *Player) IncreaseGuildLevel(name string, level int) bool {
	gl, ok := p.guildLevels[name]
	if !ok || level <= gl.Level {
		return false
	}
	gl.Level = level
	p.guildLevels[name] = gl
	p.Notify("guild", fmt.Sprintf(p.msgs.GuildAdvanced, level, name))
	p.Dirty.Guild = true
	p.Dirty.Moved = true
	return true
}

// SkillLevel returns the level of a known skill.
func (p *Player) SkillLevel(name string) (int, bool) {
	v, ok := p.skills[name]
	return v, ok
}

// Skills returns a copy of the known skills.
func (p *Player) Skills() map[string]int {
	return copyInts(p.skills)
}

// AddSkill teaches the skill named by an id-or-name reference.
func (p *Player) AddSkill(ref string) bool {
	if p.content == nil {
		return false
	}
	s, ok := entity.SkillFromRef(p.content, ref)
	if !ok {
		return false
	}
	if _, known := p.skills[s.Name]; known {
		return false
	}
	p.skills[s.Name] = 1
	p.Notify("skill", fmt.Sprintf(p.msgs.SkillLearned, s.Name))
	p.Dirty.Skills = true
	p.Dirty.Moved = true
	return true
}

// UseSkill queues a known skill for the next combat round. Only one skill
// can be queued, it must have an effect, and the player must have the mp.
func (p *Player) UseSkill(name string) bool {
	if _, known := p.skills[name]; !known || p.activeSkill != nil || p.content == nil {
		return false
	}
	s, ok := entity.SkillFromTitle(p.content, name)
	if !ok || s.Effect == "" || s.Effect == "none" {
		return false
	}
	if p.Stat("mp") < s.Cost {
		return false
	}
	p.activeSkill = &types.ActiveSkill{
		Name:     s.Name,
		Effect:   s.Effect,
		Cost:     s.Cost,
		Strength: p.skillStrength(s),
	}
	return true
}

// skillStrength rolls a skill's strength within its variability.
func (p *Player) skillStrength(s types.SkillDef) int {
	if s.Variability == 0 {
		return s.Strength
	}
	pct := float64(s.Variability) / 100
	lo := float64(s.Strength) - float64(s.Strength)*pct
	hi := float64(s.Strength) + float64(s.Strength)*pct
	return p.rng.Between(int(math.Floor(lo)), int(math.Floor(hi)))
}

// ActiveSkill returns the queued skill, or nil.
func (p *Player) ActiveSkill() *types.ActiveSkill {
	return p.activeSkill
}

// ClearActiveSkill drops the queued skill.
func (p *Player) ClearActiveSkill() {
	p.activeSkill = nil
}

// HasAchievement reports whether an achievement was earned.
func (p *Player) HasAchievement(id int) bool {
	for _, have := range p.achievements {
		if have == id {
			return true
		}
	}
	return false
}

// AwardAchievement records a new achievement.
func (p *Player) AwardAchievement(id int) bool {
	if id <= 0 || p.HasAchievement(id) || p.content == nil {
		return false
	}
	a, ok := p.content.Achievement(id)
	if !ok {
		return false
	}
	p.achievements = append(p.achievements, id)
	p.newAchievements = append(p.newAchievements, a)
	p.Notify("achievement", fmt.Sprintf(p.msgs.Achievement, a.Title))
	return true
}

// NewAchievements returns achievements earned this turn.
func (p *Player) NewAchievements() []AchievementView {
	out := make([]AchievementView, 0, len(p.newAchievements))
	for _, a := range p.newAchievements {
		out = append(out, AchievementView{ID: a.ID, Title: a.Title, Text: a.Text, Earned: true})
	}
	return out
}

// AchievementView is the client form of an achievement. Unearned
// achievements carry only a title.
type AchievementView struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text,omitempty"`
	Earned bool   `json:"earned"`
}

// AllAchievements lists every achievement in the content, earned ones
// with their text.
func (p *Player) AllAchievements() []AchievementView {
	if p.content == nil {
		return nil
	}
	all := p.content.Achievements()
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	out := make([]AchievementView, 0, len(all))
	for _, a := range all {
		v := AchievementView{ID: a.ID, Title: a.Title}
		if p.HasAchievement(a.ID) {
			v.Text = a.Text
			v.Earned = true
		}
		out = append(out, v)
	}
	return out
}
