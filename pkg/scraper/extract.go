package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const DefaultTableSelector = "table"

type TableOptions struct {
	// Selector is a CSS selector matching candidate tables. Defaults to "table".
	Selector string
	// Index picks one of the matching tables, zero-based.
	Index  int
	Logger *zap.Logger
}

// NewTableExtractor returns an ExtractFunc reading one HTML table into a Document.
//
// The column names come from the last <thead> row, or from the first row when the
// table has no <thead>. Header rows repeated inside the body (class "thead") are
// ignored. A data row whose cell count differs from the header is skipped with a
// warning and extraction carries on.
func NewTableExtractor(opts TableOptions) (ExtractFunc, error) {
	selector := opts.Selector
	if selector == "" {
		selector = DefaultTableSelector
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid table selector %q: %w", selector, err)
	}
	if opts.Index < 0 {
		return nil, fmt.Errorf("invalid table index %d", opts.Index)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(body string) (*Document, error) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		tables := doc.FindMatcher(matcher)
		if opts.Index >= tables.Length() {
			return nil, &ParseError{Err: fmt.Errorf("%w: selector %q index %d (%d matches)",
				ErrTableNotFound, selector, opts.Index, tables.Length())}
		}

		return extractTable(tables.Eq(opts.Index), logger)
	}, nil
}

func extractTable(table *goquery.Selection, logger *zap.Logger) (*Document, error) {
	header := table.ChildrenFiltered("thead").ChildrenFiltered("tr")
	body := table.ChildrenFiltered("tbody, tfoot").ChildrenFiltered("tr")

	var headerRow *goquery.Selection
	if header.Length() > 0 {
		headerRow = header.Last()
	} else if body.Length() > 0 {
		headerRow = body.First()
		body = body.Slice(1, body.Length())
	} else {
		return nil, &ParseError{Err: ErrNoHeader}
	}

	columns := columnNames(rowCells(headerRow.Get(0)))
	if len(columns) == 0 {
		return nil, &ParseError{Err: ErrNoHeader}
	}

	doc := NewDocument(columns...)
	index := 0
	body.Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") {
			return
		}
		index++

		cells := rowCells(tr.Get(0))
		if len(cells) != len(columns) {
			logger.Warn("skipping malformed row",
				zap.Int("row", index),
				zap.Int("cells", len(cells)),
				zap.Int("columns", len(columns)),
			)
			return
		}

		row := Row{Fields: make([]Field, len(cells))}
		for i, c := range cells {
			row.Fields[i] = Field{Name: columns[i], Value: cellText(c)}
		}
		doc.Append(row)
	})

	logger.Debug("extracted table",
		zap.Strings("columns", columns),
		zap.Int("rows", doc.Len()),
	)
	return doc, nil
}

// rowCells returns the th and td children of a tr, left to right.
func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

// columnNames names each header cell by its text, falling back to the data-stat
// attribute and then to its position. Names are made unique with a numeric suffix.
func columnNames(cells []*html.Node) []string {
	names := make([]string, len(cells))
	taken := make(map[string]bool, len(cells))
	for i, c := range cells {
		name := cellText(c)
		if name == "" {
			name = strings.TrimSpace(attr(c, "data-stat"))
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}

		base := name
		for k := 2; taken[name]; k++ {
			name = fmt.Sprintf("%s_%d", base, k)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func cellText(n *html.Node) string {
	return strings.TrimSpace(nodeText(n))
}

func nodeText(node *html.Node) string {
	var buffer bytes.Buffer
	nodeTextRecursive(node, &buffer)
	return buffer.String()
}

func nodeTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		nodeTextRecursive(child, buffer)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
