package systems

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pthm-cable/plife/components"
)

// Pair is an unordered pair of particle kinds, stored with A <= B.
type Pair struct {
	A, B components.Kind
}

// MakePair returns the canonical pair for a and b.
func MakePair(a, b components.Kind) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// RuleTable gates an interaction pass per unordered kind pair.
// A missing entry is disabled. A nil table disables everything.
type RuleTable struct {
	enabled map[Pair]bool
}

// NewRuleTable returns an empty table.
func NewRuleTable() *RuleTable {
	return &RuleTable{enabled: make(map[Pair]bool)}
}

// Set enables or disables the pair (a, b).
func (t *RuleTable) Set(a, b components.Kind, on bool) {
	p := MakePair(a, b)
	if on {
		t.enabled[p] = true
	} else {
		delete(t.enabled, p)
	}
}

// Enabled reports whether the pair (a, b) interacts.
func (t *RuleTable) Enabled(a, b components.Kind) bool {
	if t == nil {
		return false
	}
	return t.enabled[MakePair(a, b)]
}

// Toggle flips the pair (a, b) and returns the new state.
func (t *RuleTable) Toggle(a, b components.Kind) bool {
	on := !t.Enabled(a, b)
	t.Set(a, b, on)
	return on
}

// Clone returns an independent copy.
func (t *RuleTable) Clone() *RuleTable {
	c := NewRuleTable()
	if t == nil {
		return c
	}
	for p := range t.enabled {
		c.enabled[p] = true
	}
	return c
}

// Pairs returns the enabled pairs in ascending order.
func (t *RuleTable) Pairs() []Pair {
	if t == nil {
		return nil
	}
	pairs := make([]Pair, 0, len(t.enabled))
	for p := range t.enabled {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// Len returns the number of enabled pairs.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.enabled)
}

// ParseRuleTable builds a table from "A_B" keyed config entries.
func ParseRuleTable(entries map[string]bool, reg *components.Registry) (*RuleTable, error) {
	t := NewRuleTable()
	for key, on := range entries {
		left, right, ok := strings.Cut(key, "_")
		if !ok {
			return nil, fmt.Errorf("rule %q: want <species>_<species>", key)
		}
		a, err := reg.Lookup(left)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		b, err := reg.Lookup(right)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		if on {
			t.Set(a, b, true)
		}
	}
	return t, nil
}

// Format renders the table back into config keys.
func (t *RuleTable) Format(reg *components.Registry) map[string]bool {
	out := make(map[string]bool, t.Len())
	for _, p := range t.Pairs() {
		out[reg.Name(p.A)+"_"+reg.Name(p.B)] = true
	}
	return out
}
