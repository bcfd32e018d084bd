package sentiment

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// ErrEmptyText is returned for blank texts.
var ErrEmptyText = errors.New("text is empty")

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// CleanText renders markdown, drops the renderer's tags and links, and
// collapses whitespace. Angle brackets in the input are escaped first so that
// text like "<3" or "better than >" reaches the scorer intact.
func CleanText(input string) string {
	// No smartypants, so apostrophes in negations survive.
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink,
	})
	output := blackfriday.Run([]byte(html.EscapeString(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(renderer))
	plainText := tagPattern.ReplaceAllString(string(output), " ")
	plainText = RemoveLinks(html.UnescapeString(plainText))

	return strings.Join(strings.Fields(plainText), " ")
}

// VaderScorer scores text with the VADER lexicon. The analyzer only reads its
// lexicon after construction, so a single instance is shared across goroutines.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyText
	}

	// A review that is only a link still counts; score it as written.
	plainText := CleanText(text)
	if plainText == "" {
		plainText = strings.TrimSpace(text)
	}

	return v.analyzer.PolarityScores(plainText).Compound, nil
}

// ScorerFunc adapts a plain function to a scorer.
type ScorerFunc func(text string) (float64, error)

func (f ScorerFunc) Score(text string) (float64, error) {
	return f(text)
}
