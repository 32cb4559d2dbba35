package types

// Priority is the coarse severity tier of an alert.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the known tiers, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the three known tiers.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Alert is one meme-stock signal as reported by the alerts backend.
type Alert struct {
	ID             string   `json:"id"`
	Ticker         string   `json:"ticker"`
	MentionCount   int      `json:"mentionCount"`
	VolumeRatio    float64  `json:"volumeRatio"`
	CurrentPrice   float64  `json:"currentPrice"`
	PriceChange    float64  `json:"priceChange"`
	DetectedAt     string   `json:"detectedAt"`
	Priority       Priority `json:"priority"`
	Advice         string   `json:"advice,omitempty"`
	RSI            *float64 `json:"rsi,omitempty"`
	VolumeZScore   *float64 `json:"volumeZScore,omitempty"`
	SentimentScore *float64 `json:"sentimentScore,omitempty"`
}

// Tiers holds one subscription flag per priority tier.
type Tiers struct {
	High   bool `json:"high"`
	Medium bool `json:"medium"`
	Low    bool `json:"low"`
}

// DefaultTiers subscribes to high and medium alerts only.
func DefaultTiers() Tiers {
	return Tiers{High: true, Medium: true, Low: false}
}

// Subscribed reports whether alerts of tier p should be sent. Unknown
// tiers are never subscribed.
func (t Tiers) Subscribed(p Priority) bool {
	switch p {
	case PriorityHigh:
		return t.High
	case PriorityMedium:
		return t.Medium
	case PriorityLow:
		return t.Low
	}
	return false
}

// Preferences controls who receives notifications and for which tiers.
type Preferences struct {
	Email   string `json:"email"`
	Enabled bool   `json:"enabled"`
	Tiers   Tiers  `json:"preferences"`
}

// DefaultPreferences returns the settings used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{Tiers: DefaultTiers()}
}

// Summary holds the dashboard tiles.
type Summary struct {
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	TotalMentions int `json:"totalMentions"`
}

// NotificationTally accumulates dispatch outcomes over the process lifetime.
type NotificationTally struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
