// Package definition parses flag definition strings such as
// "-f, --first-name <value:string>" into their name, value type and optionality.
package definition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrMissingLongName is returned when a definition has no --<name> part.
	ErrMissingLongName = errors.New("missing --<name>")

	// ErrEmptyName is returned when the long name is empty after trimming.
	ErrEmptyName = errors.New("empty flag name")

	// ErrMalformedShortName is returned when the -<short>, prefix is invalid.
	ErrMalformedShortName = errors.New("malformed short name")

	// ErrMissingTypeDescription is returned when no separator and value description follow the name.
	ErrMissingTypeDescription = errors.New("missing value description")

	// ErrMalformedTypeDescription is returned when the value description is neither <value:T> nor [value:T].
	ErrMalformedTypeDescription = errors.New("malformed value description")

	// ErrUnknownType is returned when the value type is not string, number or boolean.
	ErrUnknownType = errors.New("unknown value type")
)

// typeDescriptionPattern matches <value:TYPE> (required) or [value:TYPE] (optional).
var typeDescriptionPattern = regexp.MustCompile(`^(?:<value:([^<>\[\]]*)>|\[value:([^<>\[\]]*)\])$`)

// shortNamePattern matches the alias of a -<short>, prefix.
var shortNamePattern = regexp.MustCompile(`^[^\s,=-][^\s,=]*$`)

// DefinitionParseError reports a malformed flag definition.
type DefinitionParseError struct {
	Definition string
	Err        error
}

func (e *DefinitionParseError) Error() string {
	return fmt.Sprintf("parse flag definition %q: %v", e.Definition, e.Err)
}

func (e *DefinitionParseError) Unwrap() error {
	return e.Err
}

// ParsedFlag is the result of parsing a flag definition.
type ParsedFlag struct {
	Short    string    // short alias without the dash, empty if none
	Name     string    // long name without the dashes, e.g. "first-name"
	Type     Primitive // value type
	Optional bool      // true for [value:T]
}

// OptionName returns the camelCase key of the flag in an options object.
func (p ParsedFlag) OptionName() string {
	return CamelCase(p.Name)
}

// String renders the canonical definition. Parsing it again yields p.
func (p ParsedFlag) String() string {
	var b strings.Builder

	if p.Short != "" {
		b.WriteString("-")
		b.WriteString(p.Short)
		b.WriteString(", ")
	}

	b.WriteString("--")
	b.WriteString(p.Name)

	if p.Optional {
		fmt.Fprintf(&b, " [value:%s]", p.Type)
	} else {
		fmt.Fprintf(&b, " <value:%s>", p.Type)
	}

	return b.String()
}

// Parse parses a flag definition of the form
//
//	[-<short>, ]--<long><sep><bracket>value:<type><bracket>
//
// where sep is a space or "=", and bracket is <> for a required value
// or [] for an optional one.
func Parse(def string) (ParsedFlag, error) {
	fail := func(err error) (ParsedFlag, error) {
		return ParsedFlag{}, &DefinitionParseError{Definition: def, Err: err}
	}

	var parsed ParsedFlag
	rest := strings.TrimSpace(def)

	if strings.HasPrefix(rest, "-") && !strings.HasPrefix(rest, "--") {
		short, tail, found := strings.Cut(rest[1:], ",")
		if !found {
			return fail(ErrMissingLongName)
		}
		if !shortNamePattern.MatchString(short) {
			return fail(fmt.Errorf("%w: %q", ErrMalformedShortName, short))
		}
		parsed.Short = short
		rest = strings.TrimLeft(tail, " ")
	}

	if !strings.HasPrefix(rest, "--") {
		return fail(ErrMissingLongName)
	}
	rest = rest[2:]

	sep := strings.IndexAny(rest, " =")
	if sep < 0 {
		return fail(ErrMissingTypeDescription)
	}

	name := strings.ReplaceAll(rest[:sep], ",", "")
	if name == "" {
		return fail(ErrEmptyName)
	}
	parsed.Name = name

	desc := strings.TrimSpace(rest[sep+1:])
	if desc == "" {
		return fail(ErrMissingTypeDescription)
	}

	m := typeDescriptionPattern.FindStringSubmatch(desc)
	if m == nil {
		return fail(fmt.Errorf("%w: %q", ErrMalformedTypeDescription, desc))
	}

	typeName := m[1]
	if strings.HasPrefix(desc, "[") {
		typeName = m[2]
		parsed.Optional = true
	}

	primitive, err := ParsePrimitive(typeName)
	if err != nil {
		return fail(err)
	}
	parsed.Type = primitive

	return parsed, nil
}

// MustParse is like Parse but panics if the definition is malformed.
// It is meant for package level flag tables written as literals.
func MustParse(def string) ParsedFlag {
	p, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return p
}

// CamelCase converts a hyphenated name to camelCase:
// "first-name" becomes "firstName" and "a-b-c" becomes "aBC".
func CamelCase(name string) string {
	segments := strings.Split(name, "-")

	var b strings.Builder
	b.Grow(len(name))

	for i, segment := range segments {
		segment = strings.ToLower(segment)
		if i == 0 || segment == "" {
			b.WriteString(segment)
			continue
		}

		r, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(segment[size:])
	}

	return b.String()
}
