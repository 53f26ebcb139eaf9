package printers

import (
	"encoding/json"
	"fmt"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
)

// JSONEventType tells automatic tools what kind of document they received.
type JSONEventType string

const (
	shapeEvent JSONEventType = "shape" // Event type for `PrintShape` method.
	errorEvent JSONEventType = "error" // Event type for `PrintError` method.
)

// JSONOption is one option of a shape in JSON output.
type JSONOption struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Short       string `json:"short,omitempty"`
	Definition  string `json:"definition"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`     // Type is the primitive type name, e.g. "string".
	Value       string `json:"valueType"` // Value is the full value type, e.g. "string[] | undefined".
	Collect     bool   `json:"collect"`
	Optional    bool   `json:"optional"`
}

// JSONVariant is one mutually exclusive arrangement of a shape.
type JSONVariant struct {
	Keys     []string `json:"keys"`
	Excluded []string `json:"excluded,omitempty"`
}

// JSONData contains all possible fields for JSON output.
// Error documents only carry Type and Message.
type JSONData struct {
	Type        JSONEventType `json:"type"`
	Message     string        `json:"message,omitempty"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	Options     []JSONOption  `json:"options,omitempty"`
	Conflicts   [][]string    `json:"conflicts,omitempty"`
	Variants    []JSONVariant `json:"variants,omitempty"`
	Unresolved  []string      `json:"unresolvedConflicts,omitempty"`
}

// JSONPrinter is a struct that holds a JSON encoder to print structured JSON output.
type JSONPrinter struct {
	encoder *json.Encoder
	pretty  bool
	opt     options
}

type JSONPrinterOption = option.Option[JSONPrinter]

func (p *JSONPrinter) options() *options {
	return &p.opt
}

// WithPrettyJSON indents the JSON output.
func WithPrettyJSON() JSONPrinterOption {
	return func(p *JSONPrinter) {
		p.pretty = true
	}
}

// NewJSONPrinter creates a new JSONPrinter instance.
func NewJSONPrinter(opts ...JSONPrinterOption) *JSONPrinter {
	p := &JSONPrinter{opt: defaultOptions()}
	option.Apply(p, opts...)

	p.encoder = json.NewEncoder(p.opt.Writer)
	if p.pretty {
		p.encoder.SetIndent("", "\t")
	}

	return p
}

// NewJSONData converts a command shape to its JSON document.
func NewJSONData(cs manifest.CommandShape, withVariants bool) JSONData {
	data := JSONData{
		Type:        shapeEvent,
		Command:     cs.Command.Name,
		Description: cs.Command.Description,
		Unresolved:  cs.Shape.Unresolved,
	}

	for _, o := range cs.Shape.Options {
		data.Options = append(data.Options, JSONOption{
			Key:         o.Key,
			Name:        o.Name,
			Short:       o.Short,
			Definition:  o.Definition,
			Description: o.Description,
			Type:        string(o.Value.Type),
			Value:       o.Value.String(),
			Collect:     o.Value.Collect,
			Optional:    o.Value.Optional,
		})
	}

	for _, g := range cs.Shape.Groups {
		data.Conflicts = append(data.Conflicts, g.Keys)
	}

	if withVariants {
		for _, v := range cs.Shape.Variants() {
			data.Variants = append(data.Variants, JSONVariant{Keys: v.Keys, Excluded: v.Excluded})
		}
	}

	return data
}

// PrintShape prints the shape of a command as one JSON document.
func (p *JSONPrinter) PrintShape(cs manifest.CommandShape) {
	p.encoder.Encode(NewJSONData(cs, !p.opt.HideVariants))
}

// PrintError prints an error document.
func (p *JSONPrinter) PrintError(format string, args ...any) {
	p.encoder.Encode(JSONData{
		Type:    errorEvent,
		Message: fmt.Sprintf(format, args...),
	})
}

// Done satisfies the "printer" interface but does nothing in this implementation.
func (p *JSONPrinter) Done() error {
	return nil
}
