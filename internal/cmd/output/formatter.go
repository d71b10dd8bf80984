// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Format is an output format name.
type Format string

const (
	// FormatTable renders a bordered table.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter returns the formatter of format, falling back to tables.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

// Format implements the Formatter interface for YAML output.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return errors.WrapParse("yaml", "output", err)
	}
	_, err = w.Write(out)
	return err
}

// Align is the alignment of a table column.
type Align int

const (
	// AlignDefault leaves the column to tablewriter.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a table ready for rendering. Tabular commands build one from
// their results; JSON and YAML output use the results directly.
type Data struct {
	Headers   []string
	Rows      [][]string
	Alignment []Align
	// Footer is printed below the table, one line each.
	Footer []string
}

// TableFormatter outputs tables.
type TableFormatter struct{}

// Format implements the Formatter interface for table output. Data and
// *Data render as is, struct slices and structs go through reflection, and
// anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return renderTable(w, v)
	case *Data:
		return renderTable(w, *v)
	}
	if d, ok := reflectTable(data); ok {
		return renderTable(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func renderTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.Alignment) > 0 {
		per := make([]tw.Align, len(data.Alignment))
		for i, a := range data.Alignment {
			switch a {
			case AlignLeft:
				per[i] = tw.AlignLeft
			case AlignCenter:
				per[i] = tw.AlignCenter
			case AlignRight:
				per[i] = tw.AlignRight
			default:
				per[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: per}
		config.Row.Alignment = tw.CellAlignment{PerColumn: per}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	for _, line := range data.Footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// DetectFormat returns explicit when set, a table on terminals and JSON
// when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if IsTerminal(os.Stdout) {
		return FormatTable
	}
	return FormatJSON
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseFormat validates a format name. The empty string means auto-detect.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "" {
		return format, nil
	}
	for _, f := range Formats {
		if f == format {
			return format, nil
		}
	}
	return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml")
}

var titleCaser = cases.Title(language.English)

// HeaderName turns a JSON key such as "barcode_seq" into "Barcode Seq".
func HeaderName(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func reflectTable(data any) (Data, bool) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Data{}, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 || v.Type().Elem().Kind() != reflect.Struct {
			return Data{}, false
		}
		fields := visibleFields(v.Type().Elem())
		d := Data{}
		for _, fl := range fields {
			d.Headers = append(d.Headers, fl.header)
		}
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			row := make([]string, len(fields))
			for j, fl := range fields {
				row[j] = cellString(elem.Field(fl.index))
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true
	case reflect.Struct:
		d := Data{Headers: []string{"Property", "Value"}}
		for _, fl := range visibleFields(v.Type()) {
			d.Rows = append(d.Rows, []string{fl.header, cellString(v.Field(fl.index))})
		}
		return d, true
	}
	return Data{}, false
}

type field struct {
	index  int
	header string
}

func visibleFields(t reflect.Type) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			out = append(out, field{index: i, header: sf.Name})
			continue
		}
		out = append(out, field{index: i, header: HeaderName(name)})
	}
	return out
}

func cellString(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v.Interface())
}
