package shape

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/pouriyajamshidi/flagshape/definition"
)

var (
	// ErrUnknownOption is returned when a value is given for a key the shape does not have.
	ErrUnknownOption = errors.New("unknown option")

	// ErrTypeMismatch is returned when a value does not match the option's value type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrConflict is returned when more than one key of a conflict group is present.
	ErrConflict = errors.New("conflicting options")

	// ErrMissingOption is returned when a required option is absent.
	ErrMissingOption = errors.New("missing required option")
)

// Options is an options object validated against a Shape. It is always in
// exactly one of the shape's variants.
type Options struct {
	shape   *Shape
	variant Variant
	values  map[string]any
}

// Check validates values against the shape and returns the options object.
// A nil value counts as absent. A required key is missing unless it is
// present or another key of one of its groups is.
func (s *Shape) Check(values map[string]any) (*Options, error) {
	present := map[string]any{}

	for _, key := range sortedKeys(values) {
		value := values[key]
		if value == nil {
			continue
		}

		opt, ok := s.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, key)
		}

		if err := checkValue(opt.Value, value); err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}

		present[key] = value
	}

	for _, g := range s.Groups {
		var found []string
		for _, k := range g.Keys {
			if _, ok := present[k]; ok {
				found = append(found, k)
			}
		}
		if len(found) > 1 {
			return nil, fmt.Errorf("%w: only one of %s may be set, got %s",
				ErrConflict, strings.Join(g.Keys, ", "), strings.Join(found, ", "))
		}
	}

	if missing := s.missingRequired(present); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingOption, strings.Join(missing, ", "))
	}

	return &Options{shape: s, variant: s.variantOf(present), values: present}, nil
}

// Shape returns the shape the options were checked against.
func (o *Options) Shape() *Shape {
	return o.shape
}

// Variant returns the variant the options belong to: the present keys
// plus, in shape order, every key that conflicts with none chosen before it.
func (o *Options) Variant() Variant {
	return o.variant
}

// Get returns the value of key and whether it was present.
func (o *Options) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Options) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns the present keys in shape order.
func (o *Options) Keys() []string {
	var keys []string
	for _, k := range o.shape.Keys() {
		if o.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Shape) missingRequired(present map[string]any) []string {
	adj := s.conflicting()

	var missing []string
	for _, o := range s.Options {
		if o.Value.Optional {
			continue
		}
		if _, ok := present[o.Key]; ok {
			continue
		}

		excluded := false
		for other := range adj[o.Key] {
			if _, ok := present[other]; ok {
				excluded = true
				break
			}
		}
		if !excluded {
			missing = append(missing, o.Key)
		}
	}
	return missing
}

func checkValue(vt ValueType, value any) error {
	rv := reflect.ValueOf(value)

	if !vt.Collect {
		if !primitiveKind(vt.Type, rv.Kind()) {
			return fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, vt, value)
		}
		return nil
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, vt, value)
	}

	for i := range rv.Len() {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if !elem.IsValid() || !primitiveKind(vt.Type, elem.Kind()) {
			return fmt.Errorf("%w: want %s, element %d is %v", ErrTypeMismatch, vt, i, elem)
		}
	}

	return nil
}

func primitiveKind(p definition.Primitive, kind reflect.Kind) bool {
	switch p {
	case definition.String:
		return kind == reflect.String
	case definition.Boolean:
		return kind == reflect.Bool
	case definition.Number:
		switch kind {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
