package processing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/sentilyze/internal/models"
)

var (
	// ErrNoText is returned for empty or whitespace-only input.
	ErrNoText      = errors.New("no text provided")
	// ErrNoSentences is returned when the text is non-blank but the tokenizer finds no sentence in it.
	ErrNoSentences = errors.New("no sentences detected")
)

// Classify buckets a polarity by its sign only. Magnitude is never thresholded.
func Classify(polarity float64) models.SentimentLabel {
	switch {
	case polarity > 0:
		return models.LABEL_POSITIVE
	case polarity < 0:
		return models.LABEL_NEGATIVE
	default:
		return models.LABEL_NEUTRAL
	}
}

// Aggregate classifies every scored sentence, keeping input order, and tallies the labels.
func Aggregate(scored []models.ScoredSentence) models.SentimentAnalysisResult {
	result := models.SentimentAnalysisResult{
		Sentences: make([]models.SentenceResult, 0, len(scored)),
	}

	for _, s := range scored {
		label := Classify(s.Polarity)
		switch label {
		case models.LABEL_POSITIVE:
			result.Summary.PositiveCount++
		case models.LABEL_NEGATIVE:
			result.Summary.NegativeCount++
		default:
			result.Summary.NeutralCount++
		}

		result.Sentences = append(result.Sentences, models.SentenceResult{
			Text:     s.Text,
			Polarity: s.Polarity,
			Label:    label,
		})
	}

	result.Summary.Total = result.Summary.PositiveCount + result.Summary.NegativeCount + result.Summary.NeutralCount
	return result
}

// FormatPercent renders count/total with one decimal place, e.g. 2 of 3 -> "66.7%".
// ok is false when total is zero.
func FormatPercent(count, total int) (string, bool) {
	if total <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100), true
}

// Percentages returns the per-label shares of a non-empty summary.
func Percentages(summary models.AnalysisSummary) (models.Percentages, bool) {
	if summary.Total <= 0 {
		return models.Percentages{}, false
	}
	pos, _ := FormatPercent(summary.PositiveCount, summary.Total)
	neg, _ := FormatPercent(summary.NegativeCount, summary.Total)
	neu, _ := FormatPercent(summary.NeutralCount, summary.Total)

	return models.Percentages{Positive: pos, Negative: neg, Neutral: neu}, true
}

// FormatPolarity renders a polarity with two fixed decimals, so 0 is "0.00".
func FormatPolarity(polarity float64) string {
	return fmt.Sprintf("%.2f", polarity)
}

// ToRows converts results to display rows, keeping sentence order.
func ToRows(sentences []models.SentenceResult) []models.SentenceRow {
	rows := make([]models.SentenceRow, 0, len(sentences))
	for _, s := range sentences {
		rows = append(rows, models.SentenceRow{
			Sentence:  s.Text,
			Polarity:  FormatPolarity(s.Polarity),
			Sentiment: s.Label,
		})
	}
	return rows
}

// IsBlank reports whether submitted text should be treated as "no text provided".
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
