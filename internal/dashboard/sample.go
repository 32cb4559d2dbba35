package dashboard

import (
	"fmt"
	"math/rand"
	"time"

	"meme-stock-dashboard/internal/types"

	"github.com/google/uuid"
)

// SampleAlerts returns the bundled alert set shown before the first fetch
// and after a failed first fetch. Detection times are relative to now.
func SampleAlerts(now time.Time) []types.Alert {
	ago := func(minutes int) string {
		return now.Add(-time.Duration(minutes) * time.Minute).UTC().Format(time.RFC3339)
	}

	return []types.Alert{
		{
			ID: "1", Ticker: "GME", MentionCount: 247, VolumeRatio: 4.2, CurrentPrice: 23.45, PriceChange: 12.5,
			DetectedAt: ago(5), Priority: types.PriorityHigh,
			Advice: "GME is showing extremely high volume activity (4.2x average) with strong positive momentum. While the social sentiment is bullish, exercise caution as meme stocks are highly volatile. Consider taking profits or setting stop-losses to manage risk.",
		},
		{
			ID: "2", Ticker: "AMC", MentionCount: 189, VolumeRatio: 3.8, CurrentPrice: 8.92, PriceChange: -2.3,
			DetectedAt: ago(12), Priority: types.PriorityHigh,
			Advice: "AMC displays high trading volume but negative price momentum. This divergence suggests potential profit-taking or uncertainty. Wait for price stabilization before entry, or consider short-term trading strategies with tight risk management.",
		},
		{
			ID: "3", Ticker: "BB", MentionCount: 156, VolumeRatio: 2.9, CurrentPrice: 4.67, PriceChange: 8.7,
			DetectedAt: ago(18), Priority: types.PriorityMedium,
			Advice: "BB shows moderate volume increase with solid positive price action. The momentum is promising but not extreme. This could be a good entry point for swing trading, but maintain position sizing discipline given the meme stock nature.",
		},
		{
			ID: "4", Ticker: "NOK", MentionCount: 98, VolumeRatio: 2.1, CurrentPrice: 3.21, PriceChange: 5.2,
			DetectedAt: ago(25), Priority: types.PriorityMedium,
			Advice: "NOK exhibits steady volume growth with positive price momentum. The lower volatility compared to other meme stocks may offer a more conservative play. Monitor for continued social media traction before increasing position size.",
		},
		{
			ID: "5", Ticker: "PLTR", MentionCount: 87, VolumeRatio: 1.8, CurrentPrice: 15.34, PriceChange: -1.4,
			DetectedAt: ago(32), Priority: types.PriorityLow,
			Advice: "PLTR shows modest volume activity with slight negative price movement. The current sentiment is mixed. This may be a consolidation phase; wait for clearer directional signals or consider this as a potential buying opportunity if you believe in fundamentals.",
		},
		{
			ID: "6", Ticker: "TSLA", MentionCount: 234, VolumeRatio: 1.5, CurrentPrice: 245.67, PriceChange: 3.8,
			DetectedAt: ago(8), Priority: types.PriorityLow,
			Advice: "TSLA maintains high social engagement with moderate volume and positive price action. As a more established stock with meme characteristics, it offers relatively lower risk. The current momentum suggests continued strength; suitable for both short and longer-term positions.",
		},
		{
			ID: "7", Ticker: "NVDA", MentionCount: 145, VolumeRatio: 2.3, CurrentPrice: 456.78, PriceChange: 7.2,
			DetectedAt: ago(15), Priority: types.PriorityMedium,
			Advice: "NVDA demonstrates strong price appreciation with increased volume, backed by solid fundamentals in AI sector. This combination of technical momentum and fundamental strength makes it attractive. Consider gradual position building on pullbacks rather than chasing the current rally.",
		},
		{
			ID: "8", Ticker: "AAPL", MentionCount: 67, VolumeRatio: 1.2, CurrentPrice: 189.45, PriceChange: 1.5,
			DetectedAt: ago(28), Priority: types.PriorityLow,
			Advice: "AAPL shows minimal unusual volume activity with steady positive movement. As a blue-chip stock with occasional meme characteristics, it represents a safer option. The current metrics suggest stable growth rather than speculative surge; suitable for conservative portfolios.",
		},
	}
}

var randomTickers = []string{"GME", "AMC", "BB", "NOK", "PLTR", "TSLA", "NVDA", "AAPL", "MSFT", "GOOGL", "META", "AMD"}

// RandomAlert builds a synthetic alert, used for demos and load testing the view.
func RandomAlert(r *rand.Rand, now time.Time) types.Alert {
	ticker := randomTickers[r.Intn(len(randomTickers))]
	priority := types.Priorities[r.Intn(len(types.Priorities))]
	volumeRatio := r.Float64()*5 + 1
	priceChange := (r.Float64() - 0.5) * 20

	activity := "low"
	if volumeRatio > 3 {
		activity = "high"
	} else if volumeRatio > 2 {
		activity = "moderate"
	}
	momentum := "negative"
	if priceChange > 0 {
		momentum = "positive"
	}

	return types.Alert{
		ID:           uuid.NewString(),
		Ticker:       ticker,
		MentionCount: r.Intn(300) + 10,
		VolumeRatio:  volumeRatio,
		CurrentPrice: r.Float64()*500 + 10,
		PriceChange:  priceChange,
		DetectedAt:   now.UTC().Format(time.RFC3339),
		Priority:     priority,
		Advice: fmt.Sprintf("%s is experiencing %s volume activity with %s price momentum. "+
			"Monitor closely and manage risk appropriately given the volatile nature of meme stocks.",
			ticker, activity, momentum),
	}
}
