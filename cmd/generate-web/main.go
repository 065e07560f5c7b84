package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dataio "github.com/brayk2/scraper-demo/pkg/io"
	"github.com/brayk2/scraper-demo/pkg/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	inputs     []string
	dataDir    string
	outputDir  string
	pathPrefix string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "generate-web",
		Short:         "Render scraped CSV files as static HTML pages.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(*opts, time.Now())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.inputs, "input", "i", nil, "CSV file to render, repeatable")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory whose .csv files are all rendered")
	flags.StringVar(&opts.outputDir, "output-dir", "docs", "directory to write rendered HTML to")
	flags.StringVar(&opts.pathPrefix, "path-prefix", "", "prefix page link URLs (in case pages are hosted at a subpath); should start with '/'")

	return cmd
}

func generate(opts options, now time.Time) error {
	var docs []dataio.DocumentWithPath
	for _, in := range opts.inputs {
		doc, err := dataio.LoadCSV(in)
		if err != nil {
			return err
		}
		docs = append(docs, dataio.DocumentWithPath{Document: doc, Path: in})
	}
	if opts.dataDir != "" {
		ds, err := dataio.LoadFromDir(opts.dataDir)
		if err != nil {
			return err
		}
		docs = append(docs, ds...)
	}
	if len(docs) == 0 {
		return fmt.Errorf("nothing to render: pass --input or --data-dir")
	}

	if err := os.MkdirAll(opts.outputDir, os.ModeDir|0775); err != nil {
		return err
	}

	base := web.BaseContext{PathPrefix: opts.pathPrefix}
	index := web.IndexContext{BaseContext: base}
	for _, d := range docs {
		name := strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
		filename := name + ".html"

		err := renderToFile(opts.outputDir, filename, func(w io.Writer) error {
			return web.RenderTable(w, web.TableContext{
				BaseContext: base,
				Title:       name,
				Source:      d.Path,
				LastUpdated: now,
				Document:    d.Document,
			})
		})
		if err != nil {
			return err
		}
		index.Pages = append(index.Pages, web.Page{Title: name, Href: filename, Rows: d.Len()})
	}

	return renderToFile(opts.outputDir, "index.html", func(w io.Writer) error {
		return web.RenderIndex(w, index)
	})
}

func renderToFile(dir string, filename string, renderFunc func(w io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()

	return renderFunc(f)
}
