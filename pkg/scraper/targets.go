package scraper

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const (
	PFRBaseURL    = "https://www.pro-football-reference.com"
	DefaultSeason = 2023
	DefaultTarget = "pfr-schedule"
)

var ErrUnknownTarget = errors.New("unknown target")

// TargetOptions configures a built-in target. Zero values fall back to the
// target's defaults.
type TargetOptions struct {
	URL      string
	Selector string
	Index    int
	Season   int
	Week     int
	Headers  map[string]string
	Logger   *zap.Logger
}

type TargetFunc func(opts TargetOptions) (Target, error)

// Targets holds the built-in scrapers by name.
var Targets = map[string]TargetFunc{
	"pfr-schedule": ScheduleTarget,
	"pfr-week":     WeekTarget,
	"table":        TableTarget,
}

func LookupTarget(name string) (TargetFunc, error) {
	f, ok := Targets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownTarget, name, TargetNames())
	}
	return f, nil
}

func TargetNames() []string {
	names := make([]string, 0, len(Targets))
	for n := range Targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ScheduleTarget scrapes the full season schedule table.
func ScheduleTarget(opts TargetOptions) (Target, error) {
	season := opts.Season
	if season == 0 {
		season = DefaultSeason
	}
	if opts.URL == "" {
		opts.URL = fmt.Sprintf("%s/years/%d/games.htm", PFRBaseURL, season)
	}
	if opts.Selector == "" {
		opts.Selector = "table#games"
	}
	t, err := TableTarget(opts)
	if err != nil {
		return Target{}, err
	}
	t.Name = "pfr-schedule"
	return t, nil
}

// WeekTarget scrapes the game summaries of a single week.
func WeekTarget(opts TargetOptions) (Target, error) {
	season := opts.Season
	if season == 0 {
		season = DefaultSeason
	}
	week := opts.Week
	if week == 0 {
		week = 1
	}
	if week < 0 {
		return Target{}, fmt.Errorf("invalid week %d", week)
	}
	u := opts.URL
	if u == "" {
		u = fmt.Sprintf("%s/years/%d/week_%d.htm", PFRBaseURL, season, week)
	}

	extract, err := NewGameSummaryExtractor(GameSummaryOptions{
		BaseURL: u,
		Season:  season,
		Week:    week,
		Logger:  opts.Logger,
	})
	if err != nil {
		return Target{}, err
	}
	return Target{
		Name:    "pfr-week",
		URL:     u,
		Headers: opts.Headers,
		Extract: extract,
	}, nil
}

// TableTarget scrapes any table from any page. The URL is required.
func TableTarget(opts TargetOptions) (Target, error) {
	if opts.URL == "" {
		return Target{}, errors.New("table target needs a url")
	}
	extract, err := NewTableExtractor(TableOptions{
		Selector: opts.Selector,
		Index:    opts.Index,
		Logger:   opts.Logger,
	})
	if err != nil {
		return Target{}, err
	}
	return Target{
		Name:    "table",
		URL:     opts.URL,
		Headers: opts.Headers,
		Extract: extract,
	}, nil
}
