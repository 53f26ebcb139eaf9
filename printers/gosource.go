package printers

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
	"github.com/pouriyajamshidi/flagshape/shape"
)

const defaultPackage = "options"

// GoPrinter generates Go source with one struct per command. Commands are
// collected by PrintShape and the formatted file is written by Done.
type GoPrinter struct {
	pkg    string
	shapes []manifest.CommandShape
	opt    options
}

type GoPrinterOption = option.Option[GoPrinter]

func (p *GoPrinter) options() *options {
	return &p.opt
}

// WithPackage sets the package clause of the generated file.
func WithPackage(name string) GoPrinterOption {
	return func(p *GoPrinter) {
		if name != "" {
			p.pkg = name
		}
	}
}

// NewGoPrinter creates a new GoPrinter instance.
func NewGoPrinter(opts ...GoPrinterOption) *GoPrinter {
	p := &GoPrinter{pkg: defaultPackage, opt: defaultOptions()}
	option.Apply(p, opts...)
	return p
}

// PrintShape queues a command for generation.
func (p *GoPrinter) PrintShape(cs manifest.CommandShape) {
	p.shapes = append(p.shapes, cs)
}

// PrintError prints an error message to stderr.
func (p *GoPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Done formats the generated source and writes it out.
func (p *GoPrinter) Done() error {
	src, err := GenerateGo(p.pkg, p.shapes)
	if err != nil {
		return err
	}

	if _, err := p.opt.Writer.Write(src); err != nil {
		return fmt.Errorf("write generated source: %w", err)
	}

	return nil
}

// GenerateGo returns gofmt-formatted Go source declaring an options struct
// for every command. Structs of commands with conflict groups get a
// Validate method enforcing that at most one option of each group is set.
func GenerateGo(pkg string, shapes []manifest.CommandShape) ([]byte, error) {
	var b bytes.Buffer

	needsErrors := false
	for _, cs := range shapes {
		if cs.Shape.HasConflicts() {
			needsErrors = true
		}
	}

	b.WriteString("// Code generated by flagshape. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	if needsErrors {
		b.WriteString("import \"errors\"\n\n")
	}

	structNames := uniqueNames(nil)
	for _, cs := range shapes {
		writeStruct(&b, cs, structNames.name(exportedName(cs.Command.Name)+"Options"))
	}

	if needsErrors {
		b.WriteString(countSetFunc)
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}

	return src, nil
}

const countSetFunc = `
func countSet(set ...bool) int {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	return n
}
`

func writeStruct(b *bytes.Buffer, cs manifest.CommandShape, name string) {
	// a field may not share its name with the Validate method
	var reserved []string
	if cs.Shape.HasConflicts() {
		reserved = append(reserved, "Validate")
	}

	fieldNames := uniqueNames(reserved)
	fields := make(map[string]string, len(cs.Shape.Options))
	for _, o := range cs.Shape.Options {
		fields[o.Key] = fieldNames.name(exportedName(o.Key))
	}

	fmt.Fprintf(b, "// %s holds the options of the %q command.\n", name, cs.Command.Name)
	if cs.Command.Description != "" {
		fmt.Fprintf(b, "// %s\n", oneLine(cs.Command.Description))
	}
	fmt.Fprintf(b, "type %s struct {\n", name)

	for _, o := range cs.Shape.Options {
		if o.Description != "" {
			fmt.Fprintf(b, "\t// %s (%s)\n", oneLine(o.Description), oneLine(o.Definition))
		} else {
			fmt.Fprintf(b, "\t// %s\n", oneLine(o.Definition))
		}

		tag := o.Key
		if o.Value.Optional || o.Value.Collect {
			tag += ",omitempty"
		}
		fmt.Fprintf(b, "\t%s %s %s\n", fields[o.Key], goFieldType(cs.Shape, o), structTag(tag))
	}

	b.WriteString("}\n\n")

	if !cs.Shape.HasConflicts() {
		return
	}

	fmt.Fprintf(b, "// Validate reports an error when mutually exclusive options are set together.\n")
	fmt.Fprintf(b, "func (o *%s) Validate() error {\n", name)
	for _, g := range cs.Shape.Groups {
		var checks []string
		for _, key := range g.Keys {
			opt, _ := cs.Shape.Lookup(key)
			checks = append(checks, presence(opt, fields[key]))
		}
		fmt.Fprintf(b, "\tif countSet(%s) > 1 {\n", strings.Join(checks, ", "))
		fmt.Fprintf(b, "\t\treturn errors.New(%q)\n", "only one of "+strings.Join(g.Keys, ", ")+" may be set")
		b.WriteString("\t}\n")
	}
	b.WriteString("\treturn nil\n}\n\n")
}

// goFieldType returns the field type. Options in a conflict group are
// pointers so that their presence can be told apart from the zero value.
func goFieldType(s *shape.Shape, o shape.Option) string {
	if !o.Value.Collect && !o.Value.Optional && len(s.GroupsOf(o.Key)) > 0 {
		return "*" + o.Value.Type.GoType()
	}
	return o.Value.GoType()
}

func presence(o shape.Option, name string) string {
	field := "o." + name
	if o.Value.Collect {
		return "len(" + field + ") > 0"
	}
	return field + " != nil"
}

// exportedName turns a command name or option key into an exported Go identifier.
func exportedName(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, s)

	var b strings.Builder
	for _, segment := range strings.Split(cleaned, "-") {
		if segment == "" {
			continue
		}
		runes := []rune(segment)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		name = "X" + name
	}

	return name
}

// nameSet hands out identifiers that are unique within one scope.
type nameSet map[string]bool

func uniqueNames(reserved []string) nameSet {
	set := nameSet{}
	for _, r := range reserved {
		set[r] = true
	}
	return set
}

// name returns base, or base followed by the first free number when base
// is already taken.
func (set nameSet) name(base string) string {
	name := base
	for i := 2; set[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	set[name] = true
	return name
}

// structTag renders the json tag, falling back to an interpreted string
// literal when the key holds a backquote.
func structTag(key string) string {
	tag := "json:" + strconv.Quote(key)
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
