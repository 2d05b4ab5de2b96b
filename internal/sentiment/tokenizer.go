package sentiment

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const LANGUAGE_ENGLISH = "english"

type Tokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// NewPunktTokenizer builds a Punkt sentence tokenizer from a training JSON blob.
// English gets the extra abbreviation and multi-punctuation annotations from the
// english subpackage.
func NewPunktTokenizer(language string, training []byte) (Tokenizer, error) {
	storage, err := sentences.LoadTraining(training)
	if err != nil {
		return nil, fmt.Errorf("failed to load punkt training for %s: %w", language, err)
	}

	if language == LANGUAGE_ENGLISH {
		tokenizer, err := english.NewSentenceTokenizer(storage)
		if err != nil {
			return nil, fmt.Errorf("failed to build english tokenizer: %w", err)
		}
		return tokenizer, nil
	}

	return sentences.NewSentenceTokenizer(storage), nil
}

// NewBundledEnglishTokenizer uses the English training data compiled into the
// sentences module.
func NewBundledEnglishTokenizer() (Tokenizer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bundled english tokenizer: %w", err)
	}
	return tokenizer, nil
}

// SplitSentences returns the trimmed, non-empty sentences of text in order.
func SplitSentences(tokenizer Tokenizer, text string) []string {
	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
