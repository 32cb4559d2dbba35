package view

import (
	"time"

	"meme-stock-dashboard/internal/types"
	"meme-stock-dashboard/lib/helpers"
)

// Card is the formatted form of one alert.
type Card struct {
	ID             string         `json:"id"`
	Ticker         string         `json:"ticker"`
	Priority       types.Priority `json:"priority"`
	Price          string         `json:"price"`
	Change         string         `json:"change"`
	Rising         bool           `json:"rising"`
	Mentions       string         `json:"mentions"`
	VolumeRatio    string         `json:"volumeRatio"`
	RSI            string         `json:"rsi"`
	RSIClass       string         `json:"rsiClass"`
	VolumeZScore   string         `json:"volumeZScore"`
	Sentiment      string         `json:"sentiment"`
	SentimentClass string         `json:"sentimentClass"`
	Detected       string         `json:"detected"`
	Advice         string         `json:"advice,omitempty"`
	ChartURL       string         `json:"chartUrl"`
}

// RSIClass buckets an RSI reading. Zero and missing readings are unknown.
func RSIClass(rsi *float64) string {
	switch {
	case rsi == nil || *rsi == 0:
		return "unknown"
	case *rsi >= 70:
		return "overbought"
	case *rsi <= 30:
		return "oversold"
	}
	return "neutral"
}

// SentimentClass buckets a sentiment score in [-1, 1].
func SentimentClass(score *float64) string {
	switch {
	case score == nil || *score == 0:
		return "unknown"
	case *score >= 0.5:
		return "bullish"
	case *score <= -0.5:
		return "bearish"
	}
	return "neutral"
}

// NewCard formats a for display.
func NewCard(a types.Alert, now time.Time) Card {
	return Card{
		ID:             a.ID,
		Ticker:         a.Ticker,
		Priority:       a.Priority,
		Price:          helpers.FormatPrice(a.CurrentPrice),
		Change:         helpers.FormatChange(a.PriceChange),
		Rising:         a.PriceChange >= 0,
		Mentions:       helpers.FormatMentions(a.MentionCount),
		VolumeRatio:    helpers.FormatRatio(a.VolumeRatio),
		RSI:            helpers.FormatOptional(a.RSI, 1),
		RSIClass:       RSIClass(a.RSI),
		VolumeZScore:   helpers.FormatOptional(a.VolumeZScore, 2),
		Sentiment:      helpers.FormatOptional(a.SentimentScore, 2),
		SentimentClass: SentimentClass(a.SentimentScore),
		Detected:       helpers.FormatDetected(a.DetectedAt, now),
		Advice:         a.Advice,
		ChartURL:       "/api/alerts/" + a.Ticker + "/volume.png",
	}
}

func NewCards(alerts []types.Alert, now time.Time) []Card {
	cards := make([]Card, 0, len(alerts))
	for _, a := range alerts {
		cards = append(cards, NewCard(a, now))
	}
	return cards
}
