package printers_test

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pouriyajamshidi/flagshape/printers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVPrinter_PrintShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options")

	p, err := printers.NewCSVPrinter(path, printers.WithWriter[*printers.CSVPrinter](io.Discard))
	require.NoError(t, err)

	p.PrintShape(greetShape(t))
	p.PrintShape(flatShape(t))
	require.NoError(t, p.Done())

	file, err := os.Open(path + ".csv")
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, []string{
		"Command", "Key", "Flag", "Short", "Type", "Collect", "Optional", "Conflicts", "Description",
	}, records[0])
	assert.Equal(t, []string{
		"greet", "firstName", "--first-name", "f", "string", "false", "false", "", "first name",
	}, records[1])
	assert.Equal(t, []string{
		"greet", "tag", "--tag", "t", "string", "true", "true", "", "tags",
	}, records[3])
	assert.Equal(t, []string{
		"greet", "yaml", "--yaml", "", "boolean", "false", "false", "json", "yaml output",
	}, records[5])
	assert.Equal(t, "wave", records[6][0])
}

func TestCSVPrinter_KeepsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.csv")

	p, err := printers.NewCSVPrinter(path, printers.WithWriter[*printers.CSVPrinter](io.Discard))
	require.NoError(t, err)
	require.NoError(t, p.Done())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCSVPrinter_BadPath(t *testing.T) {
	_, err := printers.NewCSVPrinter(filepath.Join(t.TempDir(), "missing", "dir", "options"))
	assert.Error(t, err)
}
