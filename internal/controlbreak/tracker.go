// Package controlbreak detects control breaks: changes in monitored key values
// while iterating over rows sorted by those keys.
//
// A Tracker is driven by one iteration stream and is not safe for concurrent use.
// Per row the caller calls Test, inspects Break/Last, then calls Continue.
package controlbreak

import "fmt"

// Tracker holds the level configuration and the iteration state.
type Tracker struct {
	reg *registry

	iteration int
	current   []any
	last      []any
	levelNum  int
}

// New creates a Tracker from level specs ordered minor to major. A spec is a
// level name, optionally prefixed with "+" to select numeric comparison.
func New(specs ...string) (*Tracker, error) {
	reg, err := newRegistry(specs)
	if err != nil {
		return nil, err
	}
	n := reg.len()
	return &Tracker{
		reg:     reg,
		current: make([]any, n),
		last:    make([]any, n),
	}, nil
}

// Test records values (one per level, minor to major) as the current row and
// returns the position of the most major level whose value changed, or 0.
//
// The first call after New or Reset seeds the history with values, so it
// never reports a break.
func (t *Tracker) Test(values ...any) (int, error) {
	n := t.reg.len()
	if len(values) != n {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrArgumentCountMismatch, len(values), n)
	}

	t.iteration++
	copy(t.current, values)

	if t.iteration == 1 {
		copy(t.last, t.current)
	}

	t.levelNum = 0
	for pos := n; pos >= 1; pos-- {
		if !t.reg.level(pos).Comparator.Equal(t.last[pos-1], t.current[pos-1]) {
			t.levelNum = pos
			break
		}
	}
	return t.levelNum, nil
}

// Continue commits the current values as the baseline for the next Test.
// It is a no-op before the first Test.
func (t *Tracker) Continue() {
	if t.iteration == 0 {
		return
	}
	copy(t.last, t.current)
}

// Reset clears the iteration count and history so the next Test reseeds.
// Levels and comparators are kept.
func (t *Tracker) Reset() {
	t.iteration = 0
	t.levelNum = 0
	for i := range t.last {
		t.last[i] = nil
		t.current[i] = nil
	}
}

// Break reports whether the last Test broke at ref or at any more major level.
func (t *Tracker) Break(ref LevelRef) (bool, error) {
	pos, err := t.reg.resolve(ref)
	if err != nil {
		return false, err
	}
	return t.levelNum >= pos, nil
}

// Last returns the committed value of ref: the value in effect before the
// most recent Test.
func (t *Tracker) Last(ref LevelRef) (any, error) {
	pos, err := t.reg.resolve(ref)
	if err != nil {
		return nil, err
	}
	return t.last[pos-1], nil
}

// LevelNum returns the break position found by the most recent Test.
func (t *Tracker) LevelNum() int {
	return t.levelNum
}

// LevelName returns the name of the level that broke, or "" if none did.
func (t *Tracker) LevelName() string {
	if t.levelNum == 0 {
		return ""
	}
	return t.reg.level(t.levelNum).Name
}

// Iteration returns the number of successful Test calls since New or Reset.
func (t *Tracker) Iteration() int {
	return t.iteration
}

// Levels returns the level names ordered minor to major.
func (t *Tracker) Levels() []string {
	names := make([]string, t.reg.len())
	for i, l := range t.reg.levels {
		names[i] = l.Name
	}
	return names
}

// Level returns a copy of the level addressed by ref.
func (t *Tracker) Level(ref LevelRef) (Level, error) {
	pos, err := t.reg.resolve(ref)
	if err != nil {
		return Level{}, err
	}
	return *t.reg.level(pos), nil
}

// SetComparator assigns c to every level in refs. All refs are resolved
// before any level changes.
func (t *Tracker) SetComparator(c Comparator, refs ...LevelRef) error {
	if err := c.validate(); err != nil {
		return err
	}
	positions := make([]int, 0, len(refs))
	for _, ref := range refs {
		pos, err := t.reg.resolve(ref)
		if err != nil {
			return err
		}
		positions = append(positions, pos)
	}
	for _, pos := range positions {
		t.reg.level(pos).Comparator = c
	}
	return nil
}
