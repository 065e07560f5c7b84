package scraper

import (
	"context"

	"go.uber.org/zap"
)

// Field is one named cell of a Row.
type Field struct {
	Name  string
	Value string
}

// Row is a single scraped entry (one game on a schedule page), kept as an
// ordered mapping from column name to the cell text.
type Row struct {
	Fields []Field
}

func NewRow(fields ...Field) Row {
	return Row{Fields: fields}
}

func (r Row) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing column or appends a new one.
func (r *Row) Set(name, value string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

func (r Row) Names() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Values returns the row's values in the given column order. Columns the row
// does not have come back as empty strings.
func (r Row) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i], _ = r.Get(c)
	}
	return values
}

// Document is the ordered sequence of rows produced by one extraction.
// Columns holds the column order, first observed wins.
type Document struct {
	Columns []string
	Rows    []Row
}

func NewDocument(columns ...string) *Document {
	d := &Document{}
	for _, c := range columns {
		d.addColumn(c)
	}
	return d
}

// Append adds a row at the end and records any column names not seen before.
func (d *Document) Append(r Row) {
	for _, f := range r.Fields {
		d.addColumn(f.Name)
	}
	d.Rows = append(d.Rows, r)
}

func (d *Document) Len() int {
	return len(d.Rows)
}

func (d *Document) addColumn(name string) {
	for _, c := range d.Columns {
		if c == name {
			return
		}
	}
	d.Columns = append(d.Columns, name)
}

// ExtractFunc turns a fetched HTML page into a Document.
type ExtractFunc func(html string) (*Document, error)

// Fetcher retrieves the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// Target is a concrete scraper: where to fetch from and how to read the page.
type Target struct {
	Name    string
	URL     string
	Headers map[string]string
	Extract ExtractFunc
}

type Scraper struct {
	fetcher Fetcher
	logger  *zap.Logger
}
