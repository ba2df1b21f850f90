package tree

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrInvalidTree indicates that imported data has no object at its root.
var ErrInvalidTree = errors.New("invalid mind map data")

// maxSafeInteger is the largest integer a JSON number carries exactly.
const maxSafeInteger = 1<<53 - 1

// Sanitize turns arbitrary decoded data (maps, slices and scalars as produced
// by encoding/json or yaml.v3) into a well-formed tree.
//
// The root must be an object; anything else fails with ErrInvalidTree.
// Below the root, bad fields are repaired instead of rejected: a non-string
// label becomes DefaultImportLabel, long labels are cut to MaxLabelLength
// runes, invalid colors become DefaultColor, a non-array children field
// becomes empty and non-object children are dropped.
//
// Every valid integer id keeps its value on its first occurrence in
// pre-order. Missing, non-integer and repeated ids are minted in pre-order
// starting at next, or above the largest valid id when that is higher, so a
// minted id never takes the place of one present in the data. The returned
// int is the first id not used by the tree.
func Sanitize(raw any, next int) (*Node, int, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, next, ErrInvalidTree
	}
	s := &sanitizer{next: next, kept: make(map[int]bool)}
	s.reserve(obj)
	return s.node(obj), s.next, nil
}

type sanitizer struct {
	next int
	kept map[int]bool
}

// reserve moves the counter past every valid id before any id is minted.
func (s *sanitizer) reserve(obj map[string]any) {
	if id, ok := intValue(obj["id"]); ok && id >= s.next {
		s.next = id + 1
	}
	if children, ok := obj["children"].([]any); ok {
		for _, raw := range children {
			if child, ok := asObject(raw); ok {
				s.reserve(child)
			}
		}
	}
}

func (s *sanitizer) node(obj map[string]any) *Node {
	n := &Node{Children: []*Node{}}

	if id, ok := intValue(obj["id"]); ok && !s.kept[id] {
		n.ID = id
	} else {
		n.ID = s.next
		s.next++
	}
	s.kept[n.ID] = true

	if label, ok := obj["label"].(string); ok {
		n.Label = TruncateLabel(label)
	} else {
		n.Label = DefaultImportLabel
	}

	if color, ok := obj["color"].(string); ok && IsValidColor(color) {
		n.Color = color
	} else {
		n.Color = DefaultColor
	}

	if children, ok := obj["children"].([]any); ok {
		for _, raw := range children {
			if child, ok := asObject(raw); ok {
				n.Children = append(n.Children, s.node(child))
			}
		}
	}
	return n
}

func asObject(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return nil, false
	}
	return obj, true
}

func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		if x > maxSafeInteger || x < -maxSafeInteger {
			return 0, false
		}
		return int(x), true
	case uint64:
		if x > maxSafeInteger {
			return 0, false
		}
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) || math.Abs(x) > maxSafeInteger {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return intValue(i)
		}
		// Integral forms such as 7.0 or 1e3.
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return intValue(f)
	}
	return 0, false
}

// TruncateLabel cuts a label to MaxLabelLength runes.
func TruncateLabel(s string) string {
	count := 0
	for i := range s {
		if count == MaxLabelLength {
			return s[:i]
		}
		count++
	}
	return s
}
