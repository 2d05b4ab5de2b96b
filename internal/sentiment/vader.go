package sentiment

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	input = urlPattern.ReplaceAllString(input, "")

	return strings.Join(strings.Fields(input), " ")
}

// ConvertMarkdownToText renders markdown and keeps only the text nodes, so emphasis
// markers, headings and link targets do not reach the scorer.
func ConvertMarkdownToText(input string) string {
	// No smartypants: curly apostrophes would hide contractions like "isn't" from VADER.
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(renderer))

	return RemoveLinks(htmlToText(output))
}

func htmlToText(doc []byte) string {
	z := html.NewTokenizer(bytes.NewReader(doc))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

// VADERScorer wraps the govader lexicon. The lexicon is read-only after construction,
// so one scorer is shared across requests.
type VADERScorer struct {
	analyzer      *govader.SentimentIntensityAnalyzer
	stripMarkdown bool
}

func NewVADERScorer(stripMarkdown bool) *VADERScorer {
	return &VADERScorer{
		analyzer:      govader.NewSentimentIntensityAnalyzer(),
		stripMarkdown: stripMarkdown,
	}
}

// Polarity returns the VADER compound score in [-1, 1].
func (v *VADERScorer) Polarity(sentence string) float64 {
	plainText := sentence
	if v.stripMarkdown {
		plainText = ConvertMarkdownToText(sentence)
	}
	if strings.TrimSpace(plainText) == "" {
		return 0
	}

	return v.analyzer.PolarityScores(plainText).Compound
}
