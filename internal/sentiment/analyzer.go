package sentiment

import "github.com/spacesedan/sentilyze/internal/models"

type PolarityScorer interface {
	Polarity(sentence string) float64
}

// Analyzer is the tokenizer/scorer pair handed to the aggregator.
type Analyzer struct {
	tokenizer Tokenizer
	scorer    PolarityScorer
}

func NewAnalyzer(tokenizer Tokenizer, scorer PolarityScorer) *Analyzer {
	return &Analyzer{tokenizer: tokenizer, scorer: scorer}
}

func (a *Analyzer) ScoreSentences(text string) []models.ScoredSentence {
	sentences := SplitSentences(a.tokenizer, text)
	scored := make([]models.ScoredSentence, 0, len(sentences))
	for _, s := range sentences {
		scored = append(scored, models.ScoredSentence{
			Text:     s,
			Polarity: a.scorer.Polarity(s),
		})
	}
	return scored
}
