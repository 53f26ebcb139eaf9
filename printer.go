// Package flagshape derives typed option shapes from command-line flag
// definitions and renders them through a Printer.
package flagshape

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/pouriyajamshidi/flagshape/internal/ctxlog"
	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/printers"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
	_ Printer = (*printers.JSONPrinter)(nil)
	_ Printer = (*printers.CSVPrinter)(nil)
	_ Printer = (*printers.DatabasePrinter)(nil)
	_ Printer = (*printers.GoPrinter)(nil)
)

// Printer defines a set of methods that any printer implementation must provide.
// Printers are responsible for outputting information, but should not modify data or perform calculations.
type Printer interface {
	// PrintShape prints the option shape of one command.
	// Printers writing a single document may buffer until Done.
	PrintShape(cs manifest.CommandShape)

	// PrintError should print an error message.
	// Printer should also apply \n to the given string, if needed.
	PrintError(format string, args ...any)

	// Done flushes buffered output and releases files or connections.
	Done() error
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	OutputJSON    bool
	PrettyJSON    bool
	OutputGo      bool
	GoPackage     string
	NoColor       bool
	HideVariants  bool
	OutputDBPath  string
	OutputCSVPath string

	// Writer receives the output. Defaults to os.Stdout.
	Writer io.Writer
}

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewPrinter creates and returns an appropriate printer based on configuration
func NewPrinter(cfg PrinterConfig) (Printer, error) {
	if cfg.PrettyJSON && !cfg.OutputJSON {
		return nil, fmt.Errorf("-pretty has no effect without the -j flag")
	}

	if cfg.GoPackage != "" && !cfg.OutputGo {
		return nil, fmt.Errorf("-package has no effect without the -go flag")
	}

	switch {
	case cfg.OutputJSON:
		opts := []printers.JSONPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.JSONPrinter](cfg.Writer))
		}
		if cfg.PrettyJSON {
			opts = append(opts, printers.WithPrettyJSON())
		}
		if cfg.HideVariants {
			opts = append(opts, printers.WithoutVariants[*printers.JSONPrinter]())
		}
		return printers.NewJSONPrinter(opts...), nil

	case cfg.OutputGo:
		opts := []printers.GoPrinterOption{printers.WithPackage(cfg.GoPackage)}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.GoPrinter](cfg.Writer))
		}
		return printers.NewGoPrinter(opts...), nil

	case cfg.OutputDBPath != "":
		opts := []printers.DatabasePrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.DatabasePrinter](cfg.Writer))
		}
		return printers.NewDatabasePrinter(cfg.OutputDBPath, opts...)

	case cfg.OutputCSVPath != "":
		opts := []printers.CSVPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.CSVPrinter](cfg.Writer))
		}
		return printers.NewCSVPrinter(cfg.OutputCSVPath, opts...)

	case cfg.NoColor || !isTerminal():
		opts := []printers.PlainPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.PlainPrinter](cfg.Writer))
		}
		if cfg.HideVariants {
			opts = append(opts, printers.WithoutVariants[*printers.PlainPrinter]())
		}
		return printers.NewPlainPrinter(opts...), nil

	default:
		opts := []printers.ColorPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.ColorPrinter](cfg.Writer))
		}
		if cfg.HideVariants {
			opts = append(opts, printers.WithoutVariants[*printers.ColorPrinter]())
		}
		return printers.NewColorPrinter(opts...), nil
	}
}

// Render loads every manifest and prints the shape of each declared command.
// It stops at the first manifest that fails to load or holds a malformed
// flag definition; shapes printed before that are kept.
func Render(ctx context.Context, printer Printer, paths ...string) error {
	logger := ctxlog.FromContext(ctx)

	for _, path := range paths {
		m, err := manifest.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		shapes, err := m.Shapes(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, cs := range shapes {
			printer.PrintShape(cs)
		}

		logger.Debug("Rendered manifest.", "path", path, "commands", len(shapes))
	}

	return nil
}

// Canonicalize loads every manifest and returns the canonical definition of
// each declared flag, keyed by command name in declaration order.
func Canonicalize(ctx context.Context, paths ...string) ([]manifest.CommandShape, error) {
	var all []manifest.CommandShape

	for _, path := range paths {
		m, err := manifest.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		shapes, err := m.Shapes(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		all = append(all, shapes...)
	}

	return all, nil
}
