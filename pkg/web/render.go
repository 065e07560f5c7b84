package web

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/brayk2/scraper-demo/pkg/scraper"
)

//go:embed templates
var templatesFs embed.FS

type BaseContext struct {
	PathPrefix string
}

type Page struct {
	Title string
	Href  string
	Rows  int
}

type IndexContext struct {
	BaseContext
	Pages []Page
}

type TableContext struct {
	BaseContext
	Title       string
	Source      string
	LastUpdated time.Time
	Document    *scraper.Document
}

// Records returns the row values in column order for the template.
func (c TableContext) Records() [][]string {
	if c.Document == nil {
		return nil
	}
	records := make([][]string, 0, c.Document.Len())
	for _, r := range c.Document.Rows {
		records = append(records, r.Values(c.Document.Columns))
	}
	return records
}

func (c TableContext) FormattedLastUpdated() string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return c.LastUpdated.In(loc).Format("2006-01-02T15:04:05 MST")
}

func RenderTable(w io.Writer, c TableContext) error {
	return render(w, "templates/table.html.tpl", c)
}

func RenderIndex(w io.Writer, c IndexContext) error {
	return render(w, "templates/index.html.tpl", c)
}

func render(w io.Writer, page string, data any) error {
	t, err := template.ParseFS(templatesFs, page)
	if err != nil {
		return err
	}
	t, err = t.ParseFS(templatesFs, "templates/common/*")
	if err != nil {
		return err
	}

	return t.Execute(w, data)
}
