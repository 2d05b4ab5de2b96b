package processing

import (
	"log/slog"

	"github.com/spacesedan/sentilyze/internal/models"
)

// SentenceScorer splits text into sentences and scores each one.
type SentenceScorer interface {
	ScoreSentences(text string) []models.ScoredSentence
}

// Analyze runs one analysis request. Blank text yields ErrNoText without touching the
// scorer; text that produces no sentences yields ErrNoSentences.
func Analyze(scorer SentenceScorer, text string) (models.SentimentAnalysisResult, error) {
	if IsBlank(text) {
		return models.SentimentAnalysisResult{}, ErrNoText
	}

	result := Aggregate(scorer.ScoreSentences(text))
	if result.Summary.Total == 0 {
		return models.SentimentAnalysisResult{}, ErrNoSentences
	}

	slog.Debug("[Processing] Analysis complete",
		slog.Int("total", result.Summary.Total),
		slog.Int("positive", result.Summary.PositiveCount),
		slog.Int("negative", result.Summary.NegativeCount),
		slog.Int("neutral", result.Summary.NeutralCount))

	return result, nil
}
