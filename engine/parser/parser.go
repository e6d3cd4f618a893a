// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/escapecore/types"
)

var verbAliases = map[string]string{
	// Use / interact
	"interact": "use",
	"open":     "use",
	"take":     "use",
	"get":      "use",
	"grab":     "use",
	"press":    "use",
	"push":     "use",
	"pull":     "use",
	"touch":    "use",
	"examine":  "use",
	"inspect":  "use",
	"x":        "use",
	"read":     "use",
	"go":       "use",
	"click":    "use",

	// Select from inventory
	"hold":  "select",
	"wield": "select",
	"equip": "select",
	"ready": "select",

	// Deselect
	"release":  "deselect",
	"unselect": "deselect",
	"drop":     "deselect",

	// Code entry
	"enter": "code",
	"type":  "code",
	"dial":  "code",
	"input": "code",

	// Miscellaneous
	"l":    "look",
	"i":    "inventory",
	"inv":  "inventory",
	"q":    "quit",
	"exit": "quit",
	"?":    "help",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "into": true,
	"from": true, "for": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	raw := strings.Fields(input)
	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words, raw = expandMultiWordVerbs(words, raw)
	if len(words) == 0 {
		return types.Intent{}
	}

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	if verb == "code" {
		return parseCode(raw[1:])
	}

	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// parseCode accepts "code safe 1234" and "enter 1234 on safe". The code
// keeps its original case; everything else is lowercased.
func parseCode(args []string) types.Intent {
	intent := types.Intent{Verb: "code"}
	var kept []string
	for _, a := range args {
		if !articles[strings.ToLower(a)] {
			kept = append(kept, a)
		}
	}
	for i, a := range kept {
		if prepositions[strings.ToLower(a)] {
			intent.Code = strings.Join(kept[:i], " ")
			intent.Object = strings.ToLower(strings.Join(kept[i+1:], " "))
			return intent
		}
	}
	switch len(kept) {
	case 0:
	case 1:
		intent.Code = kept[0]
	default:
		intent.Object = strings.ToLower(strings.Join(kept[:len(kept)-1], " "))
		intent.Code = kept[len(kept)-1]
	}
	return intent
}

// expandMultiWordVerbs handles "look at", "pick up", "put away" etc. raw is
// kept aligned with words.
func expandMultiWordVerbs(words, raw []string) ([]string, []string) {
	if len(words) < 2 {
		return words, raw
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" || words[1] == "under" || words[1] == "behind" {
			return append([]string{"use"}, words[2:]...), append([]string{"use"}, raw[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"use"}, words[2:]...), append([]string{"use"}, raw[2:]...)
		}
	case "put":
		if words[1] == "away" || words[1] == "down" {
			return append([]string{"deselect"}, words[2:]...), append([]string{"deselect"}, raw[2:]...)
		}
	case "go":
		if words[1] == "to" || words[1] == "through" {
			return append([]string{"use"}, words[2:]...), append([]string{"use"}, raw[2:]...)
		}
	case "walk":
		if words[1] == "through" || words[1] == "to" {
			return append([]string{"use"}, words[2:]...), append([]string{"use"}, raw[2:]...)
		}
	}

	return words, raw
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
