package shape

import (
	"slices"
	"strings"

	"github.com/pouriyajamshidi/flagshape/definition"
)

// ValueType is the type of one option value: T, T[], T | undefined or T[] | undefined.
type ValueType struct {
	Type     definition.Primitive
	Collect  bool
	Optional bool
}

func (v ValueType) String() string {
	s := string(v.Type)
	if v.Collect {
		s += "[]"
	}
	if v.Optional {
		s += " | undefined"
	}
	return s
}

// GoType returns the Go type that holds the value: []T for collected
// values, *T for optional scalars and T otherwise.
func (v ValueType) GoType() string {
	switch {
	case v.Collect:
		return "[]" + v.Type.GoType()
	case v.Optional:
		return "*" + v.Type.GoType()
	default:
		return v.Type.GoType()
	}
}

// Option is a single entry of a Shape.
type Option struct {
	Key         string // camelCase key, e.g. "firstName"
	Name        string // long flag name, e.g. "first-name"
	Short       string
	Definition  string // canonical definition
	Description string
	Value       ValueType
}

// ConflictGroup is a set of option keys of which at most one may be present.
type ConflictGroup struct {
	Keys []string
}

// Contains reports whether key belongs to the group.
func (g ConflictGroup) Contains(key string) bool {
	return slices.Contains(g.Keys, key)
}

func (g ConflictGroup) String() string {
	return strings.Join(g.Keys, " | ")
}

// Shape describes the options object produced by a list of flags.
type Shape struct {
	Options []Option
	Groups  []ConflictGroup

	// Unresolved lists conflict names that match no flag. They are ignored.
	Unresolved []string

	variants  []Variant
	adjacency map[string]map[string]bool
}

// Aggregate builds the Shape of flags, in order. The first flag registering
// a key wins and later flags with the same key are ignored. Every flag that
// declares conflicts forms a ConflictGroup with the flags it names.
func Aggregate(flags []Flag) (*Shape, error) {
	s := &Shape{}
	registered := make([]Flag, 0, len(flags))
	seen := make(map[string]bool, len(flags))

	for _, f := range flags {
		if f.Parsed.Name == "" {
			parsed, err := definition.Parse(f.Definition)
			if err != nil {
				return nil, err
			}
			f.Parsed = parsed
		}

		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		registered = append(registered, f)

		s.Options = append(s.Options, Option{
			Key:         key,
			Name:        f.Parsed.Name,
			Short:       f.Parsed.Short,
			Definition:  f.Parsed.String(),
			Description: f.Description,
			Value:       f.ValueType(),
		})
	}

	s.resolveGroups(registered)
	s.conflicting()

	return s, nil
}

// resolveGroups turns declared conflicts into groups. Names are matched
// against long names first and option keys second.
func (s *Shape) resolveGroups(flags []Flag) {
	byName := make(map[string]string, len(flags))
	byKey := make(map[string]bool, len(flags))
	for _, f := range flags {
		byName[f.Parsed.Name] = f.Key()
		byKey[f.Key()] = true
	}

	resolve := func(name string) (string, bool) {
		name = strings.TrimLeft(name, "-")
		if key, ok := byName[name]; ok {
			return key, true
		}
		if byKey[name] {
			return name, true
		}
		return "", false
	}

	signatures := map[string]bool{}

	for _, f := range flags {
		if len(f.Conflicts) == 0 {
			continue
		}

		keys := []string{f.Key()}
		for _, name := range f.Conflicts {
			key, ok := resolve(name)
			if !ok {
				if !slices.Contains(s.Unresolved, name) {
					s.Unresolved = append(s.Unresolved, name)
				}
				continue
			}
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}

		if len(keys) < 2 {
			continue
		}

		sorted := slices.Clone(keys)
		slices.Sort(sorted)
		sig := strings.Join(sorted, "\x00")
		if signatures[sig] {
			continue
		}
		signatures[sig] = true

		s.Groups = append(s.Groups, ConflictGroup{Keys: s.inShapeOrder(keys)})
	}
}

// Lookup returns the option registered under key.
func (s *Shape) Lookup(key string) (Option, bool) {
	for _, o := range s.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Keys returns the option keys in registration order.
func (s *Shape) Keys() []string {
	keys := make([]string, len(s.Options))
	for i, o := range s.Options {
		keys[i] = o.Key
	}
	return keys
}

// HasConflicts reports whether the shape is a union of variants rather
// than a single flat mapping.
func (s *Shape) HasConflicts() bool {
	return len(s.Groups) > 0
}

// GroupsOf returns the conflict groups key belongs to.
func (s *Shape) GroupsOf(key string) []ConflictGroup {
	var groups []ConflictGroup
	for _, g := range s.Groups {
		if g.Contains(key) {
			groups = append(groups, g)
		}
	}
	return groups
}

// ConflictsOf returns the keys that may not be present together with key.
func (s *Shape) ConflictsOf(key string) []string {
	set := map[string]bool{}
	for _, g := range s.GroupsOf(key) {
		for _, k := range g.Keys {
			if k != key {
				set[k] = true
			}
		}
	}

	var keys []string
	for _, k := range s.Keys() {
		if set[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Shape) inShapeOrder(keys []string) []string {
	ordered := make([]string, 0, len(keys))
	for _, o := range s.Options {
		if slices.Contains(keys, o.Key) {
			ordered = append(ordered, o.Key)
		}
	}
	return ordered
}
