// Package resolve maps typed object names to object ids among the objects
// the player can currently reach.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/escapecore/engine/state"
)

// AmbiguityError indicates multiple objects matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no object matched a name.
type NotFoundError struct {
	Name  string
	Where string // "here" or "in your inventory"
}

func (e *NotFoundError) Error() string {
	where := e.Where
	if where == "" {
		where = "here"
	}
	if where == "here" {
		return fmt.Sprintf("you don't see %q here", e.Name)
	}
	return fmt.Sprintf("you don't have %q %s", e.Name, where)
}

// Room resolves a name among the objects placed in the current room.
func Room(s *state.State, name string) (string, error) {
	id, err := resolveName(s.ObjectsInRoom(s.CurrentRoom()), name)
	if nf, ok := err.(*NotFoundError); ok {
		nf.Where = "here"
	}
	return id, err
}

// Inventory resolves a name among the held objects.
func Inventory(s *state.State, name string) (string, error) {
	id, err := resolveName(s.Inventory, name)
	if nf, ok := err.(*NotFoundError); ok {
		nf.Where = "in your inventory"
	}
	return id, err
}

// Any resolves a name among held objects first, then the current room.
func Any(s *state.State, name string) (string, error) {
	if id, err := Inventory(s, name); err == nil {
		return id, nil
	} else if _, ambiguous := err.(*AmbiguityError); ambiguous {
		return "", err
	}
	return Room(s, name)
}

// resolveName resolves a single name string to one of the candidate ids.
func resolveName(candidates []string, name string) (string, error) {
	query := normalize(name)

	// 1. Exact or normalized id match wins outright.
	for _, id := range candidates {
		if id == name || normalize(id) == query {
			return id, nil
		}
	}

	// 2. Segment match: "knife" matches "a1-knife", "old radio" matches
	// "kitchen_old_radio".
	var matches []string
	for _, id := range candidates {
		if matchesSegments(normalize(id), query) {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// normalize lowercases and folds "-", "_" and runs of spaces into "_".
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), "_")
}

// matchesSegments reports whether query's segments appear as a contiguous
// run of id's segments.
func matchesSegments(id, query string) bool {
	if query == "" {
		return false
	}
	idParts := strings.Split(id, "_")
	qParts := strings.Split(query, "_")
	for i := 0; i+len(qParts) <= len(idParts); i++ {
		match := true
		for j, q := range qParts {
			if idParts[i+j] != q {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
