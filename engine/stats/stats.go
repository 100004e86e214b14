// Package stats implements the bounded integer attributes shared by players
// and monsters.
//
// A Block only knows the stats it was created with. Each stat has a floor,
// and a stat may be bounded above by another stat in the same block
// (hp by max_hp, mp by max_mp).
package stats

import "sort"

// Spec declares one stat.
type Spec struct {
	Min int
	Max string // name of the bounding stat, "" if unbounded
}

// Change describes a successful mutation.
type Change struct {
	Old, New int
}

// Decreased reports whether the stat went down.
func (c Change) Decreased() bool { return c.New < c.Old }

// Block is an allow-listed set of integer stats.
type Block struct {
	specs  map[string]Spec
	values map[string]int
}

// New creates a block with every declared stat at its floor.
func New(specs map[string]Spec) *Block {
	b := &Block{
		specs:  specs,
		values: make(map[string]int, len(specs)),
	}
	for name, s := range specs {
		b.values[name] = s.Min
	}
	return b
}

// Has reports whether the stat is declared.
func (b *Block) Has(name string) bool {
	_, ok := b.specs[name]
	return ok
}

// Get returns the stat value, or 0 for an undeclared stat.
func (b *Block) Get(name string) int {
	return b.values[name]
}

// Set assigns a stat directly, applying its floor and bound.
// Used when loading from templates and snapshots.
func (b *Block) Set(name string, v int) bool {
	s, ok := b.specs[name]
	if !ok {
		return false
	}
	if v < s.Min {
		v = s.Min
	}
	if s.Max != "" {
		if max := b.values[s.Max]; v > max {
			v = max
		}
	}
	b.values[name] = v
	b.clampDependents(name)
	return true
}

// Load assigns every declared stat present in values. Bounding stats are
// assigned before the stats they bound. Undeclared keys are ignored.
func (b *Block) Load(values map[string]int) {
	for _, bounded := range []bool{false, true} {
		for _, name := range b.Names() {
			v, ok := values[name]
			if !ok || (b.specs[name].Max != "") != bounded {
				continue
			}
			b.Set(name, v)
		}
	}
}

// Augment adds delta to a stat.
//
// Bounded stats are clamped to [floor, bound]. Other stats take
// old+delta, or the floor if that would fall below it. A zero delta or an
// undeclared stat fails without touching anything.
func (b *Block) Augment(name string, delta int) (Change, bool) {
	s, ok := b.specs[name]
	if !ok || delta == 0 {
		return Change{}, false
	}
	old := b.values[name]
	v := old + delta
	if v < s.Min {
		v = s.Min
	}
	if s.Max != "" {
		if max := b.values[s.Max]; v > max {
			v = max
		}
	}
	b.values[name] = v
	b.clampDependents(name)
	return Change{Old: old, New: v}, true
}

// clampDependents pulls bounded stats back under a bound that just shrank.
func (b *Block) clampDependents(bound string) {
	for name, s := range b.specs {
		if s.Max == bound && b.values[name] > b.values[bound] {
			b.values[name] = b.values[bound]
		}
	}
}

// Values returns a copy of all stats.
func (b *Block) Values() map[string]int {
	out := make(map[string]int, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Names returns the declared stat names in sorted order.
func (b *Block) Names() []string {
	names := make([]string, 0, len(b.specs))
	for name := range b.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
