// Package selector parses declarative element selector strings into a
// structured form the resolution engine can evaluate.
// Pure data structures - the engine decides how to match them.
package selector

import (
	"strconv"
	"strings"
)

// Kind identifies what part of an element a predicate matches against.
type Kind int

const (
	KindRole      Kind = iota // Control role, e.g. "button"
	KindName                  // Accessible name/label
	KindNativeID              // Native automation ID (AutomationId, AX identifier, AT-SPI id)
	KindAttribute             // Generic attribute by key
	KindIndex                 // Positional index among stage matches
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindRole:
		return "role"
	case KindName:
		return "name"
	case KindNativeID:
		return "nativeid"
	case KindAttribute:
		return "attribute"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Comparator defines how a predicate value is compared.
type Comparator int

const (
	Equals Comparator = iota
	Contains
)

// Predicate is a single matchable condition. Immutable once parsed.
type Predicate struct {
	Kind       Kind
	Key        string // Attribute key, only for KindAttribute
	Comparator Comparator
	Value      string
}

// Group is a conjunction of predicates: a node matches the group only
// if it satisfies every predicate.
type Group []Predicate

// Stage is one level of tree descent. A node matches the stage if it
// satisfies at least one of the alternative groups. Nth, when set,
// selects a single element among the stage's matches; negative values
// count from the end (-1 = last).
type Stage struct {
	Groups []Group
	Nth    *int
}

// Selector is an ordered sequence of stages chained by descent.
// A selector with zero stages matches the scope root itself.
type Selector struct {
	Stages []Stage
}

// IsEmpty returns true if the selector has no stages.
func (s Selector) IsEmpty() bool {
	return len(s.Stages) == 0
}

// Append returns a new selector with the other selector's stages
// appended. Neither receiver nor argument is modified.
func (s Selector) Append(other Selector) Selector {
	stages := make([]Stage, 0, len(s.Stages)+len(other.Stages))
	stages = append(stages, s.Stages...)
	stages = append(stages, other.Stages...)
	return Selector{Stages: stages}
}

// String renders the selector in canonical text form. Parsing the
// result yields a structurally equal selector.
func (s Selector) String() string {
	var parts []string
	for _, st := range s.Stages {
		var groups []string
		for _, g := range st.Groups {
			var preds []string
			for _, p := range g {
				preds = append(preds, p.String())
			}
			groups = append(groups, strings.Join(preds, " && "))
		}
		parts = append(parts, strings.Join(groups, " | "))
		if st.Nth != nil {
			parts = append(parts, "nth="+strconv.Itoa(*st.Nth))
		}
	}
	return strings.Join(parts, " >> ")
}

// String renders the predicate in canonical text form.
func (p Predicate) String() string {
	switch p.Kind {
	case KindRole:
		return "role:" + p.Value
	case KindName:
		if p.Comparator == Contains {
			return p.Value // Bare text parses back to name-contains
		}
		return "name:" + p.Value
	case KindNativeID:
		return "nativeid:" + p.Value
	case KindAttribute:
		return p.Key + ":" + p.Value
	case KindIndex:
		return "nth=" + p.Value
	default:
		return ""
	}
}
