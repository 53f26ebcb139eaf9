package flagshape

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/printers"
)

func TestNewPrinter(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		cfg      PrinterConfig
		terminal bool
		want     Printer
	}{
		{"json", PrinterConfig{OutputJSON: true, PrettyJSON: true}, true, &printers.JSONPrinter{}},
		{"go", PrinterConfig{OutputGo: true, GoPackage: "cli"}, true, &printers.GoPrinter{}},
		{"database", PrinterConfig{OutputDBPath: filepath.Join(dir, "out")}, true, &printers.DatabasePrinter{}},
		{"csv", PrinterConfig{OutputCSVPath: filepath.Join(dir, "out")}, true, &printers.CSVPrinter{}},
		{"no color", PrinterConfig{NoColor: true}, true, &printers.PlainPrinter{}},
		{"not a terminal", PrinterConfig{}, false, &printers.PlainPrinter{}},
		{"terminal", PrinterConfig{}, true, &printers.ColorPrinter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := isTerminal
			isTerminal = func() bool { return tt.terminal }
			defer func() { isTerminal = restore }()

			p, err := NewPrinter(tt.cfg)
			require.NoError(t, err)
			defer p.Done()

			assert.IsType(t, tt.want, p)
		})
	}
}

func TestNewPrinter_Errors(t *testing.T) {
	_, err := NewPrinter(PrinterConfig{PrettyJSON: true})
	assert.ErrorContains(t, err, "-pretty")

	_, err = NewPrinter(PrinterConfig{GoPackage: "cli"})
	assert.ErrorContains(t, err, "-package")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(PrinterConfig{OutputJSON: true, Writer: &buf})
	require.NoError(t, err)

	err = Render(context.Background(), p, "manifest/testdata/greet.json", "manifest/testdata/greet.hcl")
	require.NoError(t, err)
	require.NoError(t, p.Done())

	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestRender_StopsAtFirstFailure(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(PrinterConfig{NoColor: true, Writer: &buf})
	require.NoError(t, err)

	err = Render(context.Background(), p, "manifest/testdata/greet.yaml", "manifest/testdata/bad_type.yaml", "manifest/testdata/greet.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_type.yaml")

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("greet - Greet someone")))
}

func TestRender_MissingFile(t *testing.T) {
	p, err := NewPrinter(PrinterConfig{NoColor: true, Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	err = Render(context.Background(), p, "manifest/testdata/missing.yaml")
	assert.ErrorContains(t, err, "load manifest/testdata/missing.yaml")
}

func TestCanonicalize(t *testing.T) {
	shapes, err := Canonicalize(context.Background(), "manifest/testdata/greet.yaml")
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	var defs []string
	for _, o := range shapes[1].Shape.Options {
		defs = append(defs, o.Definition)
	}
	assert.Equal(t, []string{"--hand <value:string>"}, defs)

	_, err = Canonicalize(context.Background(), "manifest/testdata/greet.toml")
	assert.ErrorIs(t, err, manifest.ErrUnsupportedFormat)
}
