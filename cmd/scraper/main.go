package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brayk2/scraper-demo/pkg/config"
	dataio "github.com/brayk2/scraper-demo/pkg/io"
	"github.com/brayk2/scraper-demo/pkg/log"
	"github.com/brayk2/scraper-demo/pkg/scraper"
)

const (
	defaultConfigPath = "scraper.json5"
	defaultOutput     = "2023_nfl_schedule.csv"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	target     string
	url        string
	output     string
	selector   string
	tableIndex int
	season     int
	week       int
	headers    []string
	timeout    time.Duration
	cacheDir   string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "scraper",
		Short:         "Scrape a schedule table into a CSV file.",
		Long:          "Fetch one HTML page, extract a table from it and write the rows to a CSV file.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(*opts, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return run(cmd.Context(), s)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "config file; <name>.local.<ext> next to it overrides it")
	flags.StringVar(&opts.target, "target", scraper.DefaultTarget, fmt.Sprintf("built-in target %v", scraper.TargetNames()))
	flags.StringVar(&opts.url, "url", "", "page to scrape, overrides the target's URL")
	flags.StringVarP(&opts.output, "output", "o", defaultOutput, "CSV file to write")
	flags.StringVar(&opts.selector, "selector", "", "CSS selector of the table")
	flags.IntVar(&opts.tableIndex, "table-index", 0, "which of the tables matching the selector to read")
	flags.IntVar(&opts.season, "season", scraper.DefaultSeason, "season year")
	flags.IntVar(&opts.week, "week", 1, "week number for the pfr-week target")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, `extra request header "Key: Value", repeatable`)
	flags.DurationVar(&opts.timeout, "timeout", scraper.DefaultTimeout, "request timeout")
	flags.StringVar(&opts.cacheDir, "cache", "", "cache directory; empty disables caching")
	flags.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotated file")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

type settings struct {
	target   string
	opts     scraper.TargetOptions
	output   string
	timeout  time.Duration
	cacheDir string
	logLevel string
	logFile  string
}

// resolveSettings layers flags over the config file over the flag defaults.
func resolveSettings(opts options, changed func(name string) bool) (settings, error) {
	cfg, err := config.ReadConfig[config.Config](opts.configPath)
	if errors.Is(err, os.ErrNotExist) {
		if changed("config") {
			return settings{}, fmt.Errorf("config %q not found", opts.configPath)
		}
	} else if err != nil {
		return settings{}, err
	}

	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return settings{}, err
	}
	for k, v := range cfg.Headers {
		if _, ok := headers[k]; !ok {
			headers[k] = v
		}
	}

	cfgTimeout, err := cfg.RequestTimeout()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		target: pick(changed("target"), opts.target, cfg.Target),
		opts: scraper.TargetOptions{
			URL:      pick(changed("url"), opts.url, cfg.URL),
			Selector: pick(changed("selector"), opts.selector, cfg.Selector),
			Index:    pick(changed("table-index"), opts.tableIndex, cfg.TableIndex),
			Season:   pick(changed("season"), opts.season, cfg.Season),
			Week:     pick(changed("week"), opts.week, cfg.Week),
			Headers:  headers,
		},
		output:   pick(changed("output"), opts.output, cfg.Output),
		timeout:  pick(changed("timeout"), opts.timeout, cfgTimeout),
		cacheDir: pick(changed("cache"), opts.cacheDir, cfg.CacheDir),
		logLevel: pick(changed("log-level"), opts.logLevel, cfg.LogLevel),
		logFile:  pick(changed("log-file"), opts.logFile, cfg.LogFile),
	}
	return s, nil
}

// pick prefers an explicitly set flag, then a non-zero config value, then the
// flag's default.
func pick[T comparable](flagSet bool, flagValue, configValue T) T {
	var zero T
	if !flagSet && configValue != zero {
		return configValue
	}
	return flagValue
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Key: Value\"", h)
		}
		headers[k] = strings.TrimSpace(v)
	}
	return headers, nil
}

func run(ctx context.Context, s settings) error {
	level, err := log.ParseLevel(s.logLevel)
	if err != nil {
		return err
	}
	plugins := []log.Plugin{log.NewStderrPlugin(level)}
	if s.logFile != "" {
		plugin, closer := log.NewFilePlugin(s.logFile, level)
		defer closer.Close()
		plugins = append(plugins, plugin)
	}
	logger := log.NewLogger(plugins)
	defer logger.Sync()

	newTarget, err := scraper.LookupTarget(s.target)
	if err != nil {
		return err
	}
	s.opts.Logger = logger
	target, err := newTarget(s.opts)
	if err != nil {
		return err
	}

	fetcher := scraper.NewFetcher(
		scraper.WithTimeout(s.timeout),
		scraper.WithCacheDir(s.cacheDir),
		scraper.WithFetchLogger(logger),
	)

	sc := scraper.NewScraper(fetcher, logger)
	doc, err := sc.Run(ctx, target, func(doc *scraper.Document) error {
		return dataio.ExportCSV(s.output, doc)
	})
	if err != nil {
		return err
	}

	logger.Info("wrote csv", zap.String("path", s.output), zap.Int("rows", doc.Len()))
	return nil
}
