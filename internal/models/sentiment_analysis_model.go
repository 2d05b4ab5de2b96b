package models

type SentimentLabel string

const (
	LABEL_POSITIVE SentimentLabel = "Positive"
	LABEL_NEGATIVE SentimentLabel = "Negative"
	LABEL_NEUTRAL  SentimentLabel = "Neutral"
)

// ScoredSentence is what the tokenizer/scorer hands to the aggregator.
type ScoredSentence struct {
	Text     string  `json:"text"`
	Polarity float64 `json:"polarity"`
}

type SentenceResult struct {
	Text     string         `json:"sentence"`
	Polarity float64        `json:"polarity"`
	Label    SentimentLabel `json:"sentiment"`
}

type AnalysisSummary struct {
	PositiveCount int `json:"positive"`
	NegativeCount int `json:"negative"`
	NeutralCount  int `json:"neutral"`
	Total         int `json:"total"`
}

type SentimentAnalysisResult struct {
	Summary   AnalysisSummary  `json:"summary"`
	Sentences []SentenceResult `json:"sentences"`
}
