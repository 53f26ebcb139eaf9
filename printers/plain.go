// Package printers renders option shapes in the supported output formats
package printers

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
)

// painter decorates the parts of a rendered shape.
// Every field must be set; plain output uses fmt.Sprint.
type painter struct {
	Header      func(a ...any) string
	Key         func(a ...any) string
	Type        func(a ...any) string
	Definition  func(a ...any) string
	Description func(a ...any) string
	Variant     func(a ...any) string
}

var plainPainter = painter{
	Header:      fmt.Sprint,
	Key:         fmt.Sprint,
	Type:        fmt.Sprint,
	Definition:  fmt.Sprint,
	Description: fmt.Sprint,
	Variant:     fmt.Sprint,
}

// writeShape renders one command as an aligned table followed by its variants.
func writeShape(w io.Writer, cs manifest.CommandShape, opt options, paint painter) {
	header := cs.Command.Name
	if cs.Command.Description != "" {
		header += " - " + cs.Command.Description
	}
	fmt.Fprintln(w, paint.Header(header))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, o := range cs.Shape.Options {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			paint.Key(o.Key),
			paint.Type(o.Value.String()),
			paint.Definition(o.Definition),
			paint.Description(o.Description))
	}
	tw.Flush()

	if opt.HideVariants || !cs.Shape.HasConflicts() {
		return
	}

	fmt.Fprintln(w, paint.Header("  variants:"))
	for i, v := range cs.Shape.Variants() {
		line := fmt.Sprintf("    %d) %s", i+1, strings.Join(v.Keys, ", "))
		if len(v.Excluded) > 0 {
			line += fmt.Sprintf(" (never: %s)", strings.Join(v.Excluded, ", "))
		}
		fmt.Fprintln(w, paint.Variant(line))
	}
}

// PlainPrinter is a printer that prints option shapes in a simple, plain text format.
type PlainPrinter struct {
	opt options
}

type PlainPrinterOption = option.Option[PlainPrinter]

func (p *PlainPrinter) options() *options {
	return &p.opt
}

// NewPlainPrinter creates a new PlainPrinter instance.
func NewPlainPrinter(opts ...PlainPrinterOption) *PlainPrinter {
	p := &PlainPrinter{opt: defaultOptions()}
	option.Apply(p, opts...)
	return p
}

// PrintShape prints the options of a command, one per line.
func (p *PlainPrinter) PrintShape(cs manifest.CommandShape) {
	writeShape(p.opt.Writer, cs, p.opt, plainPainter)
}

// PrintError prints an error message.
func (p *PlainPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(p.opt.Writer, "error: "+format+"\n", args...)
}

// Done satisfies the "printer" interface but does nothing in this implementation.
func (p *PlainPrinter) Done() error {
	return nil
}
