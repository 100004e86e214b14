// Package parser converts typed command strings into Commands for the
// terminal clients. Intentionally dumb: no NLP, just pattern matching.
//
// The object phrase keeps the player's casing; clients match it against
// exit links, object names, and item names case-insensitively.
package parser

import (
	"strings"
)

// Command is a parsed line of input.
type Command struct {
	Verb   string
	Object string
}

var directionExpansions = map[string]string{
	"n":  "North",
	"s":  "South",
	"e":  "East",
	"w":  "West",
	"ne": "Northeast",
	"nw": "Northwest",
	"se": "Southeast",
	"sw": "Southwest",
	"u":  "Up",
	"d":  "Down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	// Look / Examine
	"l":        "look",
	"x":        "examine",
	"inspect":  "examine",
	"check":    "examine",
	"read":     "examine",
	"describe": "examine",

	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"enter":  "go",
	"travel": "go",

	// Object actions
	"touch":    "use",
	"push":     "use",
	"pull":     "use",
	"open":     "use",
	"talk":     "use",
	"buy":      "use",
	"pray":     "use",
	"activate": "use",

	// Combat
	"fight":  "hunt",
	"search": "hunt",
	"attack": "hunt",
	"run":    "flee",
	"escape": "flee",
	"cast":   "skill",

	// Items
	"wield":   "equip",
	"wear":    "equip",
	"remove":  "unequip",
	"discard": "drop",

	// Miscellaneous
	"inv":          "inventory",
	"i":            "inventory",
	"st":           "stats",
	"score":        "stats",
	"z":            "wait",
	"achievements": "awards",
	"?":            "help",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into a Command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}

	words := strings.Fields(input)
	first := strings.ToLower(words[0])

	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := directionExpansions[first]; ok {
			return Command{Verb: "go", Object: dir}
		}
		if directionNames[first] {
			return Command{Verb: "go", Object: strings.ToUpper(first[:1]) + first[1:]}
		}
	}

	// Handle multi-word verb phrases before general parsing.
	verb, rest := expandMultiWordVerbs(first, words[1:])

	// Apply verb aliases.
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	return Command{
		Verb:   verb,
		Object: strings.Join(stripArticles(rest), " "),
	}
}

// expandMultiWordVerbs handles "look at", "take off", "put on" etc.
func expandMultiWordVerbs(verb string, rest []string) (string, []string) {
	if len(rest) == 0 {
		return verb, rest
	}
	next := strings.ToLower(rest[0])

	switch verb {
	case "look":
		if next == "at" || next == "in" || next == "under" {
			return "examine", rest[1:]
		}
	case "talk", "speak":
		if next == "to" || next == "with" {
			return "use", rest[1:]
		}
	case "put":
		if next == "on" {
			return "equip", rest[1:]
		}
		if next == "down" {
			return "drop", rest[1:]
		}
	case "take":
		if next == "off" {
			return "unequip", rest[1:]
		}
	case "go":
		if next == "to" {
			return "go", rest[1:]
		}
	}

	return verb, rest
}

// stripArticles removes leading articles ("the", "a", "an").
func stripArticles(words []string) []string {
	for len(words) > 0 && articles[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return words
}
