package pipeline

import "encoding/json"

// Flat per-episode cost estimates in USD, recorded per run for accounting.
// Template images are free.
const (
	costTranscription = 0.13
	costArticle       = 0.15
	costSocial        = 0.08
	costImages        = 0.00
)

// CostBreakdown accumulates the estimated spend of one pipeline run. It is
// persisted as JSON alongside the episode, on success and on failure.
type CostBreakdown struct {
	Transcription float64 `json:"transcription"`
	Article       float64 `json:"article"`
	Social        float64 `json:"social"`
	Images        float64 `json:"images"`
	Total         float64 `json:"total"`
}

func (c *CostBreakdown) JSON() string {
	c.Total = c.Transcription + c.Article + c.Social + c.Images
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}
