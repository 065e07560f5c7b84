package scraper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func runTableExtractor(t *testing.T, opts TableOptions, page string) (*Document, error) {
	t.Helper()
	extract, err := NewTableExtractor(opts)
	require.NoError(t, err)
	return extract(page)
}

func records(doc *Document) [][]string {
	out := [][]string{}
	for _, r := range doc.Rows {
		out = append(out, r.Values(doc.Columns))
	}
	return out
}

func TestTableExtractor(t *testing.T) {
	tests := []struct {
		name    string
		opts    TableOptions
		page    string
		columns []string
		rows    [][]string
	}{
		{
			name: "thead and tbody",
			page: `<table>
				<thead><tr><th>Week</th><th>Date</th><th>Matchup</th></tr></thead>
				<tbody>
					<tr><td>1</td><td>2023-09-07</td><td>Team A vs Team B</td></tr>
					<tr><td>2</td><td>2023-09-14</td><td>Team C vs Team D</td></tr>
				</tbody>
			</table>`,
			columns: []string{"Week", "Date", "Matchup"},
			rows: [][]string{
				{"1", "2023-09-07", "Team A vs Team B"},
				{"2", "2023-09-14", "Team C vs Team D"},
			},
		},
		{
			name:    "first row is the header without thead",
			page:    `<table><tr><td>a</td><td>b</td></tr><tr><td> 1 </td><td>  2</td></tr></table>`,
			columns: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "header only",
			page:    `<table><thead><tr><th>Week</th><th>Date</th></tr></thead><tbody></tbody></table>`,
			columns: []string{"Week", "Date"},
			rows:    [][]string{},
		},
		{
			name: "blank and duplicate header names",
			page: `<table><thead>
				<tr><th colspan="2">Game</th><th colspan="2">Score</th></tr>
				<tr><th>Team</th><th data-stat="game_location"></th><th>Team</th><th></th></tr>
			</thead><tbody><tr><td>Lions</td><td>@</td><td>Chiefs</td><td>boxscore</td></tr></tbody></table>`,
			columns: []string{"Team", "game_location", "Team_2", "column_4"},
			rows:    [][]string{{"Lions", "@", "Chiefs", "boxscore"}},
		},
		{
			name: "repeated header rows and malformed rows are skipped",
			page: `<table><thead><tr><th>Week</th><th>Matchup</th></tr></thead><tbody>
				<tr><th>1</th><td>A vs B</td></tr>
				<tr class="thead"><th>Week</th><th>Matchup</th></tr>
				<tr><td>only one cell</td></tr>
				<tr></tr>
				<tr><th>2</th><td>C vs D</td></tr>
			</tbody></table>`,
			columns: []string{"Week", "Matchup"},
			rows:    [][]string{{"1", "A vs B"}, {"2", "C vs D"}},
		},
		{
			name: "nested tables are not rows of the outer table",
			page: `<table><tr><th>Game</th><th>Teams</th></tr>
				<tr><td>1</td><td><table><tr><td>Lions</td></tr><tr><td>Chiefs</td></tr></table></td></tr>
			</table>`,
			columns: []string{"Game", "Teams"},
			rows:    [][]string{{"1", "LionsChiefs"}},
		},
		{
			name: "selector and index",
			opts: TableOptions{Selector: "table.games", Index: 1},
			page: `<table><tr><th>ignored</th></tr></table>
				<table class="games"><tr><th>Week</th></tr><tr><td>1</td></tr></table>
				<table class="games"><tr><th>Week</th></tr><tr><td>2</td></tr></table>`,
			columns: []string{"Week"},
			rows:    [][]string{{"2"}},
		},
		{
			name:    "cell values keep commas and quotes",
			page:    `<table><tr><th>Matchup</th></tr><tr><td>Team "A", Detroit</td></tr></table>`,
			columns: []string{"Matchup"},
			rows:    [][]string{{`Team "A", Detroit`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := runTableExtractor(t, tt.opts, tt.page)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.columns, doc.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.rows, records(doc)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableExtractorErrors(t *testing.T) {
	tests := []struct {
		name string
		opts TableOptions
		page string
		want error
	}{
		{name: "no table", page: `<p>nothing here</p>`, want: ErrTableNotFound},
		{name: "index out of range", opts: TableOptions{Index: 1}, page: `<table><tr><th>a</th></tr></table>`, want: ErrTableNotFound},
		{name: "empty table", page: `<table></table>`, want: ErrNoHeader},
		{name: "header without cells", page: `<table><thead><tr></tr></thead></table>`, want: ErrNoHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runTableExtractor(t, tt.opts, tt.page)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewTableExtractorRejectsBadOptions(t *testing.T) {
	_, err := NewTableExtractor(TableOptions{Selector: "table[["})
	assert.Error(t, err)

	_, err = NewTableExtractor(TableOptions{Index: -1})
	assert.Error(t, err)
}

func TestTableExtractorWarnsOnSkippedRows(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc, err := runTableExtractor(t, TableOptions{Logger: zap.New(core)}, `<table>
		<tr><th>a</th><th>b</th></tr>
		<tr><td>1</td><td>2</td></tr>
		<tr><td>3</td></tr>
	</table>`)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())

	entries := logs.FilterMessage("skipping malformed row").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["row"])
}

func TestTableExtractorRowCount(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 100} {
		games := makeGames(n)
		doc, err := runTableExtractor(t, TableOptions{Selector: "#games"}, gamesPage(games))
		require.NoError(t, err)
		assert.Equal(t, n, doc.Len(), "n=%d", n)
		if diff := cmp.Diff(games, records(doc)); n > 0 && diff != "" {
			t.Errorf("n=%d rows mismatch (-want +got):\n%s", n, diff)
		}
	}
}
