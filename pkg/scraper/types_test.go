package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowGetSet(t *testing.T) {
	r := NewRow(Field{Name: "Week", Value: "1"})
	r.Set("Date", "2023-09-07")
	r.Set("Week", "2")

	v, ok := r.Get("Week")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = r.Get("Matchup")
	assert.False(t, ok)

	assert.Equal(t, []string{"Week", "Date"}, r.Names())
	assert.Equal(t, []string{"2023-09-07", "", "2"}, r.Values([]string{"Date", "Matchup", "Week"}))
}

func TestDocumentColumnsFirstObservedWins(t *testing.T) {
	d := NewDocument("Week", "Week", "Date")
	assert.Equal(t, []string{"Week", "Date"}, d.Columns)

	d.Append(NewRow(Field{Name: "Matchup", Value: "A vs B"}, Field{Name: "Week", Value: "1"}))
	d.Append(NewRow(Field{Name: "Notes", Value: "flexed"}))
	d.Append(NewRow(Field{Name: "Week", Value: "1"}))

	assert.Equal(t, []string{"Week", "Date", "Matchup", "Notes"}, d.Columns)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"1", "", "A vs B", ""}, d.Rows[0].Values(d.Columns))
}
