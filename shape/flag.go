// Package shape aggregates parsed flag definitions into the shape of the
// options object a command receives, including mutually exclusive variants.
package shape

import (
	"fmt"

	"github.com/pouriyajamshidi/flagshape/definition"
	"github.com/pouriyajamshidi/flagshape/option"
)

// Flag is a declared command-line flag. Its definition is parsed when the
// flag is created, so a malformed definition never reaches aggregation.
type Flag struct {
	Definition  string
	Description string
	Collect     bool     // repeated occurrences accumulate into a list
	Conflicts   []string // long names or option keys that may not co-occur with this flag
	Parsed      definition.ParsedFlag
}

// FlagOption configures a Flag.
type FlagOption = option.Option[Flag]

// WithCollect makes the flag collect repeated values into a list.
func WithCollect() FlagOption {
	return func(f *Flag) {
		f.Collect = true
	}
}

// WithConflicts declares flags that may not be present together with this one.
func WithConflicts(names ...string) FlagOption {
	return func(f *Flag) {
		f.Conflicts = append(f.Conflicts, names...)
	}
}

// NewFlag parses def and returns the declared flag.
func NewFlag(def, description string, opts ...FlagOption) (Flag, error) {
	parsed, err := definition.Parse(def)
	if err != nil {
		return Flag{}, err
	}

	f := Flag{
		Definition:  def,
		Description: description,
		Parsed:      parsed,
	}
	option.Apply(&f, opts...)

	return f, nil
}

// MustFlag is like NewFlag but panics on a malformed definition.
func MustFlag(def, description string, opts ...FlagOption) Flag {
	f, err := NewFlag(def, description, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Key returns the camelCase option key of the flag.
func (f Flag) Key() string {
	return f.Parsed.OptionName()
}

// ValueType returns the type of the flag's value in an options object.
func (f Flag) ValueType() ValueType {
	return ValueType{
		Type:     f.Parsed.Type,
		Collect:  f.Collect,
		Optional: f.Parsed.Optional,
	}
}

// Spec is the plain record form of a flag, as found in manifests.
type Spec struct {
	Definition  string   `json:"definition" yaml:"definition"`
	Description string   `json:"description" yaml:"description"`
	Collect     bool     `json:"collect,omitempty" yaml:"collect,omitempty"`
	Conflicts   []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Flag parses the spec into a Flag.
func (s Spec) Flag() (Flag, error) {
	opts := []FlagOption{WithConflicts(s.Conflicts...)}
	if s.Collect {
		opts = append(opts, WithCollect())
	}

	return NewFlag(s.Definition, s.Description, opts...)
}

// FromSpecs parses every spec and aggregates the resulting flags.
// It stops at the first malformed definition.
func FromSpecs(specs []Spec) (*Shape, error) {
	flags := make([]Flag, 0, len(specs))

	for i, s := range specs {
		f, err := s.Flag()
		if err != nil {
			return nil, fmt.Errorf("flag %d: %w", i, err)
		}
		flags = append(flags, f)
	}

	return Aggregate(flags)
}
