package io

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brayk2/scraper-demo/pkg/scraper"
)

var ErrNoColumns = errors.New("document has no columns")

// DocumentWithPath is a document loaded back from an exported file.
type DocumentWithPath struct {
	*scraper.Document
	Path string
}

// WriteCSV writes the header (doc.Columns) followed by one record per row, values
// in column order.
func WriteCSV(w io.Writer, doc *scraper.Document) error {
	if doc == nil || len(doc.Columns) == 0 {
		return ErrNoColumns
	}

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := writeRecord(bw, cw, doc.Columns); err != nil {
		return err
	}
	for _, r := range doc.Rows {
		if err := writeRecord(bw, cw, r.Values(doc.Columns)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// writeRecord writes a single empty field as "" since encoding/csv would emit a
// blank line, which readers skip.
func writeRecord(bw *bufio.Writer, cw *csv.Writer, record []string) error {
	if len(record) == 1 && record[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := bw.WriteString("\"\"\n")
		return err
	}
	return cw.Write(record)
}

// ExportCSV writes doc to path, replacing any existing file. The file is written
// in place, so an interrupted run can leave a partial file behind.
func ExportCSV(path string, doc *scraper.Document) error {
	if doc == nil || len(doc.Columns) == 0 {
		return ErrNoColumns
	}

	f, err := os.Create(path)
	if err != nil {
		return &scraper.IOError{Path: path, Err: err}
	}

	if err := WriteCSV(f, doc); err != nil {
		f.Close()
		return &scraper.IOError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &scraper.IOError{Path: path, Err: err}
	}
	return nil
}

// ReadCSV reads a file written by WriteCSV. Every record must have as many
// fields as the header.
func ReadCSV(r io.Reader) (*scraper.Document, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv: missing header")
	}
	if err != nil {
		return nil, err
	}

	doc := scraper.NewDocument(header...)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := scraper.Row{Fields: make([]scraper.Field, len(record))}
		for i, v := range record {
			row.Fields[i] = scraper.Field{Name: header[i], Value: v}
		}
		doc.Append(row)
	}
	return doc, nil
}

func LoadCSV(path string) (*scraper.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFromDir loads every .csv file below dir.
func LoadFromDir(dir string) ([]DocumentWithPath, error) {
	var ds []DocumentWithPath
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}

		doc, err := LoadCSV(path)
		if err != nil {
			return err
		}
		ds = append(ds, DocumentWithPath{Document: doc, Path: path})
		return nil
	})

	if err != nil {
		return ds, err
	}
	return ds, nil
}
