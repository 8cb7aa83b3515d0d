package controlbreak

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix marks a level spec whose default comparator is numeric equality.
const numericPrefix = "+"

var levelSpecRe = regexp.MustCompile(`^[+]?[A-Za-z_][A-Za-z0-9_]*$`)

// Level is one monitored key. Position runs 1..N from minor to major.
type Level struct {
	Name       string
	Position   int
	Comparator Comparator
}

// LevelRef addresses a level either by name or by 1-based position.
type LevelRef struct {
	name   string
	pos    int
	byName bool
}

// Name refers to a level by its configured name (without any "+" prefix).
func Name(name string) LevelRef {
	return LevelRef{name: name, byName: true}
}

// Pos refers to a level by its 1-based position, 1 being the most minor.
func Pos(position int) LevelRef {
	return LevelRef{pos: position}
}

func (r LevelRef) String() string {
	if r.byName {
		return strconv.Quote(r.name)
	}
	return strconv.Itoa(r.pos)
}

type registry struct {
	levels []Level
	byName map[string]int
}

func newRegistry(specs []string) (*registry, error) {
	if len(specs) == 0 {
		return nil, ErrMissingLevels
	}

	r := &registry{
		levels: make([]Level, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if !levelSpecRe.MatchString(spec) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLevelName, spec)
		}

		cmp := StringEquality()
		name := spec
		if strings.HasPrefix(spec, numericPrefix) {
			cmp = NumericEquality()
			name = strings.TrimPrefix(spec, numericPrefix)
		}

		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLevelName, name)
		}
		r.byName[name] = i + 1
		r.levels = append(r.levels, Level{Name: name, Position: i + 1, Comparator: cmp})
	}
	return r, nil
}

func (r *registry) len() int {
	return len(r.levels)
}

// resolve maps ref to its 1-based position.
func (r *registry) resolve(ref LevelRef) (int, error) {
	if ref.byName {
		pos, ok := r.byName[ref.name]
		if !ok {
			return 0, fmt.Errorf("%w: unknown level %s", ErrInvalidLevel, ref)
		}
		return pos, nil
	}
	if ref.pos < 1 || ref.pos > len(r.levels) {
		return 0, fmt.Errorf("%w: position %d outside [1, %d]", ErrInvalidLevel, ref.pos, len(r.levels))
	}
	return ref.pos, nil
}

func (r *registry) level(pos int) *Level {
	return &r.levels[pos-1]
}
