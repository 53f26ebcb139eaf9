package printers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
)

const timeFormat = "2006-01-02 15:04:05"

const (
	schema = `CREATE TABLE IF NOT EXISTS options (
    id INTEGER PRIMARY KEY,
    command TEXT NOT NULL,
    key TEXT NOT NULL,
    name TEXT NOT NULL,
    short TEXT,
    definition TEXT NOT NULL,
    type TEXT NOT NULL,
    value_type TEXT NOT NULL,
    collect INTEGER NOT NULL, -- 1 if repeated values accumulate into a list
    optional INTEGER NOT NULL,
    description TEXT,
    saved_at DATETIME,
    UNIQUE (command, key)
);
CREATE TABLE IF NOT EXISTS conflict_groups (
    id INTEGER PRIMARY KEY,
    command TEXT NOT NULL,
    group_index INTEGER NOT NULL, -- keys sharing a group_index are mutually exclusive
    key TEXT NOT NULL
);`

	insertOption = `INSERT INTO options (
	command,
	key,
	name,
	short,
	definition,
	type,
	value_type,
	collect,
	optional,
	description,
	saved_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	insertGroupKey = `INSERT INTO conflict_groups (command, group_index, key) VALUES (?, ?, ?);`
)

// DatabasePrinter stores option shapes in a SQLite database.
// Saving a command again replaces its previous rows.
type DatabasePrinter struct {
	Conn   *sqlite.Conn
	DbPath string
	opt    options
	err    error
}

type DatabasePrinterOption = option.Option[DatabasePrinter]

func (p *DatabasePrinter) options() *options {
	return &p.opt
}

// NewDatabasePrinter opens or creates the database at dbPath and creates its tables.
func NewDatabasePrinter(dbPath string, opts ...DatabasePrinterOption) (*DatabasePrinter, error) {
	filename := addDbExtension(dbPath)

	conn, err := sqlite.OpenConn(filename, sqlite.OpenCreate, sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("create database %q: %w", filename, err)
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	p := &DatabasePrinter{
		Conn:   conn,
		DbPath: filename,
		opt:    defaultOptions(),
	}
	option.Apply(p, opts...)

	return p, nil
}

func addDbExtension(filename string) string {
	if strings.HasSuffix(filename, ".db") {
		return filename
	}

	return filename + ".db"
}

// save replaces the rows of a command in a single transaction.
func (p *DatabasePrinter) save(cs manifest.CommandShape) (err error) {
	defer sqlitex.Save(p.Conn)(&err)

	command := cs.Command.Name
	for _, table := range []string{"options", "conflict_groups"} {
		err = sqlitex.Execute(p.Conn, fmt.Sprintf("DELETE FROM %s WHERE command = ?;", table), &sqlitex.ExecOptions{
			Args: []any{command},
		})
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	savedAt := time.Now().Format(timeFormat)
	for _, o := range cs.Shape.Options {
		err = sqlitex.Execute(p.Conn, insertOption, &sqlitex.ExecOptions{
			Args: []any{
				command,
				o.Key,
				o.Name,
				o.Short,
				o.Definition,
				string(o.Value.Type),
				o.Value.String(),
				o.Value.Collect,
				o.Value.Optional,
				o.Description,
				savedAt,
			},
		})
		if err != nil {
			return fmt.Errorf("insert option %s: %w", o.Key, err)
		}
	}

	for i, g := range cs.Shape.Groups {
		for _, key := range g.Keys {
			err = sqlitex.Execute(p.Conn, insertGroupKey, &sqlitex.ExecOptions{
				Args: []any{command, i, key},
			})
			if err != nil {
				return fmt.Errorf("insert conflict group %d: %w", i, err)
			}
		}
	}

	return nil
}

// PrintShape saves the shape of a command to the database.
func (p *DatabasePrinter) PrintShape(cs manifest.CommandShape) {
	if err := p.save(cs); err != nil {
		p.PrintError("Error while writing %q to the database %q: %s", cs.Command.Name, p.DbPath, err)
		if p.err == nil {
			p.err = err
		}
		return
	}

	fmt.Fprintf(p.opt.Writer, "Options of %q have been saved to %q\n", cs.Command.Name, p.DbPath)
}

// SavedKeys returns the option keys stored for command, in insertion order.
func (p *DatabasePrinter) SavedKeys(command string) ([]string, error) {
	var keys []string

	err := sqlitex.Execute(p.Conn, "SELECT key FROM options WHERE command = ? ORDER BY id;", &sqlitex.ExecOptions{
		Args: []any{command},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query options of %s: %w", command, err)
	}

	return keys, nil
}

// SavedGroups returns the conflict groups stored for command.
func (p *DatabasePrinter) SavedGroups(command string) ([][]string, error) {
	var groups [][]string

	err := sqlitex.Execute(p.Conn, "SELECT group_index, key FROM conflict_groups WHERE command = ? ORDER BY group_index, id;", &sqlitex.ExecOptions{
		Args: []any{command},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			idx := int(stmt.ColumnInt64(0))
			for len(groups) <= idx {
				groups = append(groups, nil)
			}
			groups[idx] = append(groups[idx], stmt.ColumnText(1))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query conflict groups of %s: %w", command, err)
	}

	return groups, nil
}

// PrintError prints an error message to stderr.
func (p *DatabasePrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Done closes the database connection.
func (p *DatabasePrinter) Done() error {
	if p.Conn == nil {
		return p.err
	}

	if err := p.Conn.Close(); err != nil && p.err == nil {
		p.err = fmt.Errorf("close database: %w", err)
	}
	p.Conn = nil

	return p.err
}
