package printers_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pouriyajamshidi/flagshape/printers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestDatabasePrinter_PrintShape(t *testing.T) {
	var buf bytes.Buffer
	p, err := printers.NewDatabasePrinter(setupTempDB(t), printers.WithWriter[*printers.DatabasePrinter](&buf))
	require.NoError(t, err)
	defer p.Done()

	p.PrintShape(greetShape(t))
	p.PrintShape(flatShape(t))

	keys, err := p.SavedKeys("greet")
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "age", "tag", "json", "yaml"}, keys)

	groups, err := p.SavedGroups("greet")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"json", "yaml"}}, groups)

	groups, err = p.SavedGroups("wave")
	require.NoError(t, err)
	assert.Empty(t, groups)

	assert.Contains(t, buf.String(), `Options of "greet" have been saved to`)
}

func TestDatabasePrinter_ReplacesCommand(t *testing.T) {
	path := setupTempDB(t)

	p, err := printers.NewDatabasePrinter(path, printers.WithWriter[*printers.DatabasePrinter](&bytes.Buffer{}))
	require.NoError(t, err)
	p.PrintShape(greetShape(t))
	require.NoError(t, p.Done())

	// reopening keeps the tables and saving again replaces the rows
	p, err = printers.NewDatabasePrinter(path, printers.WithWriter[*printers.DatabasePrinter](&bytes.Buffer{}))
	require.NoError(t, err)
	defer p.Done()

	p.PrintShape(greetShape(t))

	keys, err := p.SavedKeys("greet")
	require.NoError(t, err)
	assert.Len(t, keys, 5)
}

func TestDatabasePrinter_AddsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog")

	p, err := printers.NewDatabasePrinter(path)
	require.NoError(t, err)
	defer p.Done()

	assert.Equal(t, path+".db", p.DbPath)
}
