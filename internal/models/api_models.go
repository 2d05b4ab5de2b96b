package models

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type Percentages struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	Neutral  string `json:"neutral"`
}

type AnalyzeResponse struct {
	ID          string          `json:"id"`
	Summary     AnalysisSummary `json:"summary"`
	Percentages Percentages     `json:"percentages"`
	Sentences   []SentenceRow   `json:"sentences"`
}

// SentenceRow is a SentenceResult with the polarity pre-formatted for display.
type SentenceRow struct {
	Sentence  string         `json:"sentence"`
	Polarity  string         `json:"polarity"`
	Sentiment SentimentLabel `json:"sentiment"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
