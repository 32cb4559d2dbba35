package stats

import "meme-stock-dashboard/internal/types"

// Summarize counts alerts per tier and sums mentions over all of them.
// Alerts with an unknown tier add to the mention total only.
func Summarize(alerts []types.Alert) types.Summary {
	var s types.Summary
	for _, a := range alerts {
		switch a.Priority {
		case types.PriorityHigh:
			s.High++
		case types.PriorityMedium:
			s.Medium++
		case types.PriorityLow:
			s.Low++
		}
		s.TotalMentions += a.MentionCount
	}
	return s
}
