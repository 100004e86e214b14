package player

// Messages holds the notification templates shown to the player.
// Each is a fmt format string; the argument order is noted per field.
type Messages struct {
	GuildJoined   string // guild name
	GuildRejoined string // level, guild name
	GuildLeft     string // guild name
	GuildAdvanced string // level, guild name
	SkillLearned  string // skill name
	Achievement   string // achievement title
	NeedGold      string // price
	Purchased     string // item name, price
	InvalidItem   string // room id, item id
}

// DefaultMessages returns the stock wording.
func DefaultMessages() Messages {
	return Messages{
		GuildJoined:   "Congratulations. You are now a member of the %s Guild!",
		GuildRejoined: "You are once again a level %d member of the %s Guild!",
		GuildLeft:     "You have left the %s Guild, but can rejoin in the future at the same level.",
		GuildAdvanced: "You have advanced to level %d in the %s Guild!",
		SkillLearned:  "You've learned the %s skill!",
		Achievement:   "Achievement earned: %s",
		NeedGold:      "Sorry. You need %d gold to buy that.",
		Purchased:     "You've purchased a %s for %d gold.",
		InvalidItem:   "Sorry. That is not a valid item. Please report this to the administrator, noting you are in room %d, what you clicked to buy, and that the item id was %d.",
	}
}

// WithDefaults fills empty templates from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.GuildJoined, d.GuildJoined)
	fill(&m.GuildRejoined, d.GuildRejoined)
	fill(&m.GuildLeft, d.GuildLeft)
	fill(&m.GuildAdvanced, d.GuildAdvanced)
	fill(&m.SkillLearned, d.SkillLearned)
	fill(&m.Achievement, d.Achievement)
	fill(&m.NeedGold, d.NeedGold)
	fill(&m.Purchased, d.Purchased)
	fill(&m.InvalidItem, d.InvalidItem)
	return m
}
