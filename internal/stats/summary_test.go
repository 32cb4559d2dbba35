package stats_test

import (
	"testing"

	"meme-stock-dashboard/internal/stats"
	"meme-stock-dashboard/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, types.Summary{}, stats.Summarize(nil))
	assert.Equal(t, types.Summary{}, stats.Summarize([]types.Alert{}))
}

func TestSummarize_CountsAndMentions(t *testing.T) {
	alerts := []types.Alert{
		{Ticker: "GME", Priority: types.PriorityHigh, MentionCount: 247},
		{Ticker: "AMC", Priority: types.PriorityHigh, MentionCount: 189},
		{Ticker: "BB", Priority: types.PriorityMedium, MentionCount: 156},
		{Ticker: "PLTR", Priority: types.PriorityLow, MentionCount: 87},
		{Ticker: "AAPL", Priority: types.PriorityLow, MentionCount: 0},
	}

	s := stats.Summarize(alerts)

	assert.Equal(t, types.Summary{High: 2, Medium: 1, Low: 2, TotalMentions: 679}, s)
	assert.Equal(t, len(alerts), s.High+s.Medium+s.Low)
}

func TestSummarize_UnknownTierOnlyAddsMentions(t *testing.T) {
	s := stats.Summarize([]types.Alert{
		{Ticker: "GME", Priority: types.PriorityHigh, MentionCount: 10},
		{Ticker: "XYZ", Priority: "urgent", MentionCount: 5},
	})

	assert.Equal(t, types.Summary{High: 1, TotalMentions: 15}, s)
}

func TestSummarize_Idempotent(t *testing.T) {
	alerts := []types.Alert{
		{Ticker: "NOK", Priority: types.PriorityMedium, MentionCount: 98},
		{Ticker: "TSLA", Priority: types.PriorityLow, MentionCount: 234},
	}

	first := stats.Summarize(alerts)
	second := stats.Summarize(alerts)
	assert.Equal(t, first, second)
}
