package printers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pouriyajamshidi/flagshape/manifest"
	"github.com/pouriyajamshidi/flagshape/option"
)

const (
	colCommand     string = "Command"
	colKey         string = "Key"
	colFlag        string = "Flag"
	colShort       string = "Short"
	colType        string = "Type"
	colCollect     string = "Collect"
	colOptional    string = "Optional"
	colConflicts   string = "Conflicts"
	colDescription string = "Description"
)

const (
	filePermission os.FileMode = 0644
	fileFlag       int         = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
)

// CSVPrinter writes one row per option to a CSV file.
type CSVPrinter struct {
	Writer *csv.Writer
	File   *os.File
	opt    options

	wroteHeader bool
	err         error
}

type CSVPrinterOption = option.Option[CSVPrinter]

func (p *CSVPrinter) options() *options {
	return &p.opt
}

// NewCSVPrinter creates the CSV file at filePath, adding the .csv extension if missing.
func NewCSVPrinter(filePath string, opts ...CSVPrinterOption) (*CSVPrinter, error) {
	filename := addCSVExtension(filePath)

	file, err := os.OpenFile(filename, fileFlag, filePermission)
	if err != nil {
		return nil, fmt.Errorf("create CSV file %s: %w", filename, err)
	}

	p := &CSVPrinter{
		Writer: csv.NewWriter(file),
		File:   file,
		opt:    defaultOptions(),
	}
	option.Apply(p, opts...)

	return p, nil
}

func addCSVExtension(filename string) string {
	if strings.HasSuffix(filename, ".csv") {
		return filename
	}

	return filename + ".csv"
}

func (p *CSVPrinter) writeHeader() error {
	headers := []string{
		colCommand,
		colKey,
		colFlag,
		colShort,
		colType,
		colCollect,
		colOptional,
		colConflicts,
		colDescription,
	}

	if err := p.Writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	p.wroteHeader = true
	return nil
}

// PrintShape writes the options of a command to the CSV file.
// The first write error is kept and returned by Done.
func (p *CSVPrinter) PrintShape(cs manifest.CommandShape) {
	if p.err != nil {
		return
	}

	if !p.wroteHeader {
		if err := p.writeHeader(); err != nil {
			p.err = err
			return
		}
	}

	for _, o := range cs.Shape.Options {
		record := []string{
			cs.Command.Name,
			o.Key,
			"--" + o.Name,
			o.Short,
			string(o.Value.Type),
			strconv.FormatBool(o.Value.Collect),
			strconv.FormatBool(o.Value.Optional),
			strings.Join(cs.Shape.ConflictsOf(o.Key), " "),
			o.Description,
		}

		if err := p.Writer.Write(record); err != nil {
			p.err = fmt.Errorf("write record for %s: %w", o.Key, err)
			return
		}
	}

	fmt.Fprintf(p.opt.Writer, "Saved %d options of %q to %s\n", len(cs.Shape.Options), cs.Command.Name, p.File.Name())
}

// PrintError prints an error message to stderr.
func (p *CSVPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Done flushes the writer and closes the file.
func (p *CSVPrinter) Done() error {
	if p.Writer != nil {
		p.Writer.Flush()
		if err := p.Writer.Error(); err != nil && p.err == nil {
			p.err = fmt.Errorf("flush CSV file: %w", err)
		}
	}

	if p.File != nil {
		if err := p.File.Close(); err != nil && p.err == nil {
			p.err = fmt.Errorf("close CSV file: %w", err)
		}
		p.File = nil
	}

	return p.err
}
