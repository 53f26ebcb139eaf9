package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/pouriyajamshidi/flagshape/shape"
)

//go:embed manifest.schema.json
var schemaData []byte

var compiled *jsonschema.Schema

func init() {
	var err error
	compiled, err = jsonschema.CompileString("manifest.schema.json", string(schemaData))
	if err != nil {
		panic(fmt.Errorf("compile manifest schema: %w", err))
	}
}

func decodeJSON(data []byte) (*Manifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &m, nil
}

func decodeYAML(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &m, nil
}

type hclManifest struct {
	Commands []hclCommand `hcl:"command,block"`
}

type hclCommand struct {
	Name        string    `hcl:"name,label"`
	Description string    `hcl:"description,optional"`
	Flags       []hclFlag `hcl:"flag,block"`
}

type hclFlag struct {
	Definition  string   `hcl:"definition"`
	Description string   `hcl:"description,optional"`
	Collect     bool     `hcl:"collect,optional"`
	Conflicts   []string `hcl:"conflicts,optional"`
}

func decodeHCL(data []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %s", diags.Error())
	}

	var raw hclManifest
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode hcl: %s", diags.Error())
	}

	m := &Manifest{Commands: make([]Command, 0, len(raw.Commands))}
	for _, c := range raw.Commands {
		cmd := Command{Name: c.Name, Description: c.Description}
		for _, f := range c.Flags {
			cmd.Flags = append(cmd.Flags, shape.Spec{
				Definition:  f.Definition,
				Description: f.Description,
				Collect:     f.Collect,
				Conflicts:   f.Conflicts,
			})
		}
		m.Commands = append(m.Commands, cmd)
	}

	return m, nil
}
