package shape

import (
	"fmt"
	"testing"
	"time"

	"github.com/pouriyajamshidi/flagshape/definition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlag(t *testing.T) {
	f, err := NewFlag("-f, --first-name <value:string>", "your first name", WithCollect(), WithConflicts("nickname"))
	require.NoError(t, err)

	assert.Equal(t, "firstName", f.Key())
	assert.True(t, f.Collect)
	assert.Equal(t, []string{"nickname"}, f.Conflicts)
	assert.Equal(t, ValueType{Type: definition.String, Collect: true}, f.ValueType())
}

func TestNewFlagFailsFast(t *testing.T) {
	_, err := NewFlag("--age <value:int>", "age")
	assert.ErrorIs(t, err, definition.ErrUnknownType)

	assert.Panics(t, func() { MustFlag("age", "age") })
}

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		name string
		vt   ValueType
		want string
		goT  string
	}{
		{"scalar", ValueType{Type: definition.String}, "string", "string"},
		{"collect", ValueType{Type: definition.String, Collect: true}, "string[]", "[]string"},
		{"optional", ValueType{Type: definition.Number, Optional: true}, "number | undefined", "*float64"},
		{"optional collect", ValueType{Type: definition.Boolean, Collect: true, Optional: true}, "boolean[] | undefined", "[]bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vt.String())
			assert.Equal(t, tt.goT, tt.vt.GoType())
		})
	}
}

func TestAggregateFlat(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("-f, --first-name <value:string>", "first name"),
		MustFlag("--age [value:number]", "age"),
		MustFlag("-t, --tag [value:string]", "tags", WithCollect()),
		MustFlag("--include <value:string>", "includes", WithCollect()),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"firstName", "age", "tag", "include"}, s.Keys())
	assert.False(t, s.HasConflicts())
	assert.Len(t, s.Variants(), 1)
	assert.Equal(t, s.Keys(), s.Variants()[0].Keys)

	tag, ok := s.Lookup("tag")
	require.True(t, ok)
	assert.Equal(t, "string[] | undefined", tag.Value.String())
	assert.Equal(t, "-t, --tag [value:string]", tag.Definition)

	include, _ := s.Lookup("include")
	assert.Equal(t, "string[]", include.Value.String())

	age, _ := s.Lookup("age")
	assert.Equal(t, "number | undefined", age.Value.String())
}

func TestAggregateFirstRegistrationWins(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--name <value:string>", "first"),
		MustFlag("--name [value:number]", "second"),
	})
	require.NoError(t, err)

	require.Len(t, s.Options, 1)
	assert.Equal(t, "first", s.Options[0].Description)
	assert.Equal(t, definition.String, s.Options[0].Value.Type)
}

func TestAggregateParsesLiteralFlags(t *testing.T) {
	s, err := Aggregate([]Flag{{Definition: "--dry-run <value:boolean>"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dryRun"}, s.Keys())

	_, err = Aggregate([]Flag{{Definition: "--dry-run <value:bool>"}})
	assert.ErrorIs(t, err, definition.ErrUnknownType)
}

func TestAggregateTwoWayConflict(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--json <value:boolean>", "json output"),
		MustFlag("--yaml <value:boolean>", "yaml output", WithConflicts("json")),
		MustFlag("--out [value:string]", "output file"),
	})
	require.NoError(t, err)

	require.Len(t, s.Groups, 1)
	assert.Equal(t, []string{"json", "yaml"}, s.Groups[0].Keys)

	assert.Equal(t, []Variant{
		{Keys: []string{"json", "out"}, Excluded: []string{"yaml"}},
		{Keys: []string{"yaml", "out"}, Excluded: []string{"json"}},
	}, s.Variants())

	assert.Equal(t, []string{"yaml"}, s.ConflictsOf("json"))
	assert.Empty(t, s.ConflictsOf("out"))
}

func TestAggregateResolvesLongNamesAndKeys(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--first-name [value:string]", ""),
		MustFlag("--nick-name [value:string]", "", WithConflicts("--first-name")),
		MustFlag("--full-name [value:string]", "", WithConflicts("nickName", "missing")),
	})
	require.NoError(t, err)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, []string{"firstName", "nickName"}, s.Groups[0].Keys)
	assert.Equal(t, []string{"nickName", "fullName"}, s.Groups[1].Keys)
	assert.Equal(t, []string{"missing"}, s.Unresolved)
}

func TestAggregateDeduplicatesSymmetricConflicts(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--json [value:boolean]", "", WithConflicts("yaml")),
		MustFlag("--yaml [value:boolean]", "", WithConflicts("json")),
	})
	require.NoError(t, err)
	assert.Len(t, s.Groups, 1)
	assert.Len(t, s.Variants(), 2)
}

func TestAggregateConflictsLaterFlag(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--json [value:boolean]", "", WithConflicts("yaml")),
		MustFlag("--yaml [value:boolean]", ""),
	})
	require.NoError(t, err)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, []string{"json", "yaml"}, s.Groups[0].Keys)
}

func TestVariantsNWay(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--json [value:boolean]", ""),
		MustFlag("--yaml [value:boolean]", ""),
		MustFlag("--toml [value:boolean]", "", WithConflicts("json", "yaml")),
	})
	require.NoError(t, err)

	assert.Equal(t, []Variant{
		{Keys: []string{"json"}, Excluded: []string{"yaml", "toml"}},
		{Keys: []string{"yaml"}, Excluded: []string{"json", "toml"}},
		{Keys: []string{"toml"}, Excluded: []string{"json", "yaml"}},
	}, s.Variants())
}

func TestVariantsOverlappingGroups(t *testing.T) {
	s, err := Aggregate([]Flag{
		MustFlag("--a [value:boolean]", ""),
		MustFlag("--b [value:boolean]", "", WithConflicts("a")),
		MustFlag("--c [value:boolean]", "", WithConflicts("b")),
	})
	require.NoError(t, err)

	assert.Equal(t, []Variant{
		{Keys: []string{"a", "c"}, Excluded: []string{"b"}},
		{Keys: []string{"b"}, Excluded: []string{"a", "c"}},
	}, s.Variants())
}

func TestFromSpecs(t *testing.T) {
	s, err := FromSpecs([]Spec{
		{Definition: "--json <value:boolean>", Description: "json"},
		{Definition: "--yaml <value:boolean>", Description: "yaml", Conflicts: []string{"json"}},
		{Definition: "--file <value:string>", Description: "files", Collect: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"json", "yaml", "file"}, s.Keys())
	assert.Len(t, s.Groups, 1)

	file, _ := s.Lookup("file")
	assert.True(t, file.Value.Collect)

	_, err = FromSpecs([]Spec{
		{Definition: "--ok <value:string>"},
		{Definition: "--bad <value:date>"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, definition.ErrUnknownType)
	assert.Contains(t, err.Error(), "flag 1")
}

func TestVariantsIndependentPairs(t *testing.T) {
	const pairs = 12

	var flags []Flag
	for i := range pairs {
		a := fmt.Sprintf("a%d", i)
		flags = append(flags,
			MustFlag("--"+a+" [value:boolean]", ""),
			MustFlag(fmt.Sprintf("--b%d [value:boolean]", i), "", WithConflicts(a)),
		)
	}
	flags = append(flags, MustFlag("--free [value:string]", ""))

	s, err := Aggregate(flags)
	require.NoError(t, err)

	start := time.Now()
	variants := s.Variants()
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Len(t, variants, 1<<pairs)
	for _, v := range variants {
		assert.Len(t, v.Keys, pairs+1)
		assert.True(t, v.Allows("free"))
	}
}
