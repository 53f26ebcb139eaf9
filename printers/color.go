package printers

import (
	"io"

	"github.com/gookit/color"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
)

// Color functions used when printing information
var (
	ColorLightCyan = color.LightCyan.Sprintf
	ColorGreen     = color.Green.Sprintf
	ColorYellow    = color.Yellow.Sprintf
)

var colorPainter = painter{
	Header:      color.LightCyan.Sprint,
	Key:         color.Green.Sprint,
	Type:        color.Yellow.Sprint,
	Definition:  color.FgLightBlue.Sprint,
	Description: color.White.Sprint,
	Variant:     color.LightYellow.Sprint,
}

// ColorPrinter prints option shapes with color support.
type ColorPrinter struct {
	opt options
}

type ColorPrinterOption = option.Option[ColorPrinter]

func (p *ColorPrinter) options() *options {
	return &p.opt
}

// NewColorPrinter creates a new ColorPrinter instance.
func NewColorPrinter(opts ...ColorPrinterOption) *ColorPrinter {
	p := &ColorPrinter{opt: defaultOptions()}
	option.Apply(p, opts...)
	return p
}

// PrintShape prints the options of a command: keys in green, types in
// yellow, definitions in light blue and variants in light yellow.
func (p *ColorPrinter) PrintShape(cs manifest.CommandShape) {
	writeShape(p.opt.Writer, cs, p.opt, colorPainter)
}

// PrintError prints an error message in red.
func (p *ColorPrinter) PrintError(format string, args ...any) {
	color.Fprint(p.opt.Writer, color.Red.Sprintf("error: "+format+"\n", args...))
}

// Done satisfies the "printer" interface but does nothing in this implementation.
func (p *ColorPrinter) Done() error {
	return nil
}

// FprintError writes err to w in red, for failures that happen before a
// printer exists.
func FprintError(w io.Writer, err error) {
	color.Fprint(w, color.Red.Sprintf("error: %v\n", err))
}
