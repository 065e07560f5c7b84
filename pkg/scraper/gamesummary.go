package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Columns produced by the game summary extractor, in output order.
var GameSummaryColumns = []string{
	"season",
	"week",
	"date",
	"away_team",
	"away_score",
	"home_team",
	"home_score",
	"boxscore_url",
	"completed",
}

type GameSummaryOptions struct {
	// BaseURL resolves relative boxscore links.
	BaseURL string
	Season  int
	Week    int
	Logger  *zap.Logger
}

// NewGameSummaryExtractor reads the per-week pages of pro-football-reference.com,
// where every game is a div.game_summary holding a table.teams with three rows:
// date, away team and home team.
func NewGameSummaryExtractor(opts GameSummaryOptions) (ExtractFunc, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	season := strconv.Itoa(opts.Season)
	week := strconv.Itoa(opts.Week)

	return func(body string) (*Document, error) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		summaries := doc.Find("div.game_summary")
		if summaries.Length() == 0 {
			return nil, &ParseError{Err: ErrNoGames}
		}

		out := NewDocument(GameSummaryColumns...)
		summaries.Each(func(i int, summary *goquery.Selection) {
			rows := summary.Find("table.teams").First().Find("tr")
			if rows.Length() != 3 {
				logger.Warn("skipping game summary",
					zap.Int("row", i+1),
					zap.Int("table_rows", rows.Length()),
				)
				return
			}
			dateRow, awayRow, homeRow := rows.Eq(0), rows.Eq(1), rows.Eq(2)

			awayAnchors := awayRow.Find("a")
			homeTeam := strings.TrimSpace(homeRow.Find("a").First().Text())
			awayTeam := strings.TrimSpace(awayAnchors.First().Text())
			if homeTeam == "" || awayTeam == "" {
				logger.Warn("skipping game summary without teams", zap.Int("row", i+1))
				return
			}

			var link *goquery.Selection
			if awayAnchors.Length() > 1 {
				link = awayAnchors.Eq(1)
			}
			boxscore := ""
			if link != nil {
				href := link.AttrOr("href", "")
				if ref, err := url.Parse(href); err == nil && href != "" {
					boxscore = base.ResolveReference(ref).String()
				} else if err != nil {
					logger.Warn("bad boxscore link", zap.Int("row", i+1), zap.String("href", href), zap.Error(err))
				}
			}

			awayScore := strings.TrimSpace(awayRow.Find("td.right").First().Text())
			homeScore := strings.TrimSpace(homeRow.Find("td.right").First().Text())

			completed := false
			if awayScore != "" && homeScore != "" && link != nil {
				completed = strings.EqualFold(strings.TrimSpace(link.Text()), "final")
			}

			logger.Debug("game", zap.String("home", homeTeam), zap.String("away", awayTeam))
			out.Append(NewRow(
				Field{Name: "season", Value: season},
				Field{Name: "week", Value: week},
				Field{Name: "date", Value: strings.TrimSpace(dateRow.Text())},
				Field{Name: "away_team", Value: awayTeam},
				Field{Name: "away_score", Value: awayScore},
				Field{Name: "home_team", Value: homeTeam},
				Field{Name: "home_score", Value: homeScore},
				Field{Name: "boxscore_url", Value: boxscore},
				Field{Name: "completed", Value: strconv.FormatBool(completed)},
			))
		})

		return out, nil
	}, nil
}
