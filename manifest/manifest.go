// Package manifest loads command and flag declarations from JSON, YAML or
// HCL files and turns them into option shapes.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pouriyajamshidi/flagshape/internal/ctxlog"
	"github.com/pouriyajamshidi/flagshape/shape"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension is not .json, .yaml, .yml or .hcl.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")

	// ErrInvalidManifest is returned when a manifest is structurally invalid.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Format identifies a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Command groups the flags of one command.
type Command struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Flags       []shape.Spec `json:"flags" yaml:"flags"`
}

// Manifest is a decoded declaration file.
type Manifest struct {
	Path     string    `json:"-" yaml:"-"`
	Commands []Command `json:"commands" yaml:"commands"`
}

// CommandShape pairs a command with the shape of its options.
type CommandShape struct {
	Command Command
	Shape   *shape.Shape
}

// Load reads and decodes the manifest at path.
func Load(ctx context.Context, path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := Decode(ctx, f, format, path)
	if err != nil {
		return nil, err
	}
	m.Path = path

	return m, nil
}

// Decode reads a manifest in the given format from r. The name is used in
// diagnostics only.
func Decode(ctx context.Context, r io.Reader, format Format, name string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding manifest.", "name", name, "format", format)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}

	var (
		m   *Manifest
		err error
	)

	switch format {
	case FormatJSON:
		m, err = decodeJSON(buf.Bytes())
	case FormatYAML:
		m, err = decodeYAML(buf.Bytes())
	case FormatHCL:
		m, err = decodeHCL(buf.Bytes(), name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate manifest %s: %w", name, err)
	}

	logger.Debug("Decoded manifest.", "name", name, "commands", len(m.Commands))
	return m, nil
}

// Validate checks that every command has a unique, non-empty name and at
// least one flag.
func (m *Manifest) Validate() error {
	if len(m.Commands) == 0 {
		return fmt.Errorf("%w: no commands declared", ErrInvalidManifest)
	}

	seen := map[string]bool{}
	for i, c := range m.Commands {
		if c.Name == "" {
			return fmt.Errorf("%w: command %d has no name", ErrInvalidManifest, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate command %q", ErrInvalidManifest, c.Name)
		}
		seen[c.Name] = true

		if len(c.Flags) == 0 {
			return fmt.Errorf("%w: command %q declares no flags", ErrInvalidManifest, c.Name)
		}
	}

	return nil
}

// Shapes aggregates the flags of every command. It stops at the first
// malformed flag definition.
func (m *Manifest) Shapes(ctx context.Context) ([]CommandShape, error) {
	logger := ctxlog.FromContext(ctx)
	shapes := make([]CommandShape, 0, len(m.Commands))

	for _, c := range m.Commands {
		s, err := shape.FromSpecs(c.Flags)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", c.Name, err)
		}

		for _, name := range s.Unresolved {
			logger.Warn("Conflict names no flag, ignoring.", "command", c.Name, "conflict", name)
		}

		logger.Debug("Aggregated command.", "command", c.Name,
			"options", len(s.Options), "groups", len(s.Groups))

		shapes = append(shapes, CommandShape{Command: c, Shape: s})
	}

	return shapes, nil
}
