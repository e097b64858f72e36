package report

import (
	"fmt"
	"strings"
)

// Element is a block that can be appended to a markdown document
type Element interface {
	Markdown() string
}

// Document accumulates markdown elements in order
type Document struct {
	buf strings.Builder
}

// Add appends an element to the document
func (d *Document) Add(elements ...Element) {
	for _, element := range elements {
		d.buf.WriteString(element.Markdown())
	}
}

// String returns the rendered document
func (d *Document) String() string {
	return d.buf.String()
}

// H1 is a top level heading
type H1 string

func (h H1) Markdown() string { return "# " + string(h) + "\n" }

// H2 is a section heading
type H2 string

func (h H2) Markdown() string { return "## " + string(h) + "\n" }

// H3 is a subsection heading
type H3 string

func (h H3) Markdown() string { return "### " + string(h) + "\n" }

// Paragraph is a block of text followed by a blank line
type Paragraph string

func (p Paragraph) Markdown() string { return string(p) + "\n\n" }

// List is a bullet list
type List []string

func (l List) Markdown() string {
	var b strings.Builder
	for _, item := range l {
		fmt.Fprintf(&b, "* %s\n", item)
	}
	b.WriteString("\n")
	return b.String()
}

// NumberedList is an ordered list numbered from 1
type NumberedList []string

func (l NumberedList) Markdown() string {
	var b strings.Builder
	for i, item := range l {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
	return b.String()
}

// Code is an indented code block
type Code string

func (c Code) Markdown() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSuffix(string(c), "\n"), "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	b.WriteString("\n")
	return b.String()
}

// HR is a horizontal rule
type HR struct{}

func (HR) Markdown() string { return "---\n" }

// Table is a table with centered columns
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// Add appends a row. The row must have one cell per header.
func (t *Table) Add(cells ...string) error {
	if len(cells) != len(t.headers) {
		return fmt.Errorf("table row has %d cells, expected %d", len(cells), len(t.headers))
	}
	t.rows = append(t.rows, cells)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Markdown() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.headers, "|"))
	b.WriteString("\n")

	align := make([]string, len(t.headers))
	for i := range align {
		align[i] = ":---:"
	}
	b.WriteString(strings.Join(align, "|"))
	b.WriteString("\n")

	for _, row := range t.rows {
		b.WriteString(strings.Join(row, "|"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
