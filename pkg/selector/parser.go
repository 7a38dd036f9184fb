package selector

import (
	"strconv"
	"strings"

	"github.com/desklab-dev/uidriver/pkg/core"
)

// Grammar separators. These four tokens are the selector wire format:
// ">>" chains stages, "|" separates alternative groups, "&&" joins
// predicates within a group, "nth=" picks an index among stage matches.
const (
	sepStage = ">>"
	sepAlt   = "|"
	sepAnd   = "&&"
	nthToken = "nth="
)

// Parse converts selector text into a structured Selector. It is pure
// (no platform dependency) and fails fast on malformed syntax; it never
// silently drops tokens. An empty string yields an empty selector,
// which matches the scope root itself.
func Parse(text string) (Selector, error) {
	if strings.TrimSpace(text) == "" {
		return Selector{}, nil
	}

	var sel Selector
	for _, raw := range strings.Split(text, sepStage) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return Selector{}, core.ErrInvalidArgument.WithMessagef("selector %q: empty stage", text)
		}

		// Trailing ">> nth=<int>" applies to the previous stage.
		if strings.HasPrefix(raw, nthToken) {
			n, err := parseNth(raw)
			if err != nil {
				return Selector{}, err
			}
			if len(sel.Stages) == 0 {
				return Selector{}, core.ErrInvalidArgument.WithMessagef("selector %q: nth= before any stage", text)
			}
			last := &sel.Stages[len(sel.Stages)-1]
			if last.Nth != nil {
				return Selector{}, core.ErrInvalidArgument.WithMessagef("selector %q: duplicate nth= for stage", text)
			}
			last.Nth = n
			continue
		}

		stage, err := parseStage(raw)
		if err != nil {
			return Selector{}, err
		}
		sel.Stages = append(sel.Stages, stage)
	}
	return sel, nil
}

func parseStage(raw string) (Stage, error) {
	var stage Stage
	for _, rawGroup := range strings.Split(raw, sepAlt) {
		rawGroup = strings.TrimSpace(rawGroup)
		if rawGroup == "" {
			return Stage{}, core.ErrInvalidArgument.WithMessagef("stage %q: empty alternative", raw)
		}

		var group Group
		for _, rawPred := range strings.Split(rawGroup, sepAnd) {
			rawPred = strings.TrimSpace(rawPred)
			if rawPred == "" {
				return Stage{}, core.ErrInvalidArgument.WithMessagef("stage %q: empty predicate", raw)
			}

			// nth= may also appear joined with predicates inside a stage.
			if strings.HasPrefix(rawPred, nthToken) {
				n, err := parseNth(rawPred)
				if err != nil {
					return Stage{}, err
				}
				if stage.Nth != nil {
					return Stage{}, core.ErrInvalidArgument.WithMessagef("stage %q: duplicate nth=", raw)
				}
				stage.Nth = n
				continue
			}

			pred, err := parsePredicate(rawPred)
			if err != nil {
				return Stage{}, err
			}
			group = append(group, pred)
		}
		if len(group) > 0 {
			stage.Groups = append(stage.Groups, group)
		}
	}
	if len(stage.Groups) == 0 {
		return Stage{}, core.ErrInvalidArgument.WithMessagef("stage %q: no predicates", raw)
	}
	return stage, nil
}

func parsePredicate(raw string) (Predicate, error) {
	// #<id> is shorthand for nativeid:<id>
	if strings.HasPrefix(raw, "#") {
		id := strings.TrimSpace(raw[1:])
		if id == "" {
			return Predicate{}, core.ErrInvalidArgument.WithMessage("empty native id after '#'")
		}
		return Predicate{Kind: KindNativeID, Comparator: Equals, Value: id}, nil
	}

	if key, value, ok := strings.Cut(raw, ":"); ok {
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" {
			return Predicate{}, core.ErrInvalidArgument.WithMessagef("predicate %q: empty key", raw)
		}
		if value == "" {
			return Predicate{}, core.ErrInvalidArgument.WithMessagef("predicate %q: empty value", raw)
		}
		switch key {
		case "role":
			return Predicate{Kind: KindRole, Comparator: Equals, Value: value}, nil
		case "name":
			return Predicate{Kind: KindName, Comparator: Equals, Value: value}, nil
		case "nativeid":
			return Predicate{Kind: KindNativeID, Comparator: Equals, Value: value}, nil
		default:
			return Predicate{Kind: KindAttribute, Key: key, Comparator: Equals, Value: value}, nil
		}
	}

	// Bare text matches elements whose name contains it.
	return Predicate{Kind: KindName, Comparator: Contains, Value: raw}, nil
}

func parseNth(raw string) (*int, error) {
	v := strings.TrimSpace(strings.TrimPrefix(raw, nthToken))
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, core.ErrInvalidArgument.WithMessagef("invalid index %q: not an integer", raw)
	}
	return &n, nil
}
