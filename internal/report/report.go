// Package report turns a finished analysis into presentation output. It never
// computes statistics itself.
package report

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentify/internal/analysis"
)

// Banner is the headline recommendation shown above the metrics.
type Banner struct {
	Title string `json:"title"`
	Color string `json:"color"`
	Text  string `json:"text"`
}

var banners = map[analysis.Decision]Banner{
	analysis.DecisionNotRecommended: {
		Title: "Not Recommended",
		Color: "#EF4444",
		Text: "A significant portion of users have expressed dissatisfaction. " +
			"Negative sentiment outweighs trust signals, indicating potential concerns " +
			"related to performance, pricing, or reliability.",
	},
	analysis.DecisionRecommended: {
		Title: "Recommended to Buy",
		Color: "#22C55E",
		Text: "Overall public sentiment shows strong satisfaction and confidence in the product. " +
			"Positive emotional signals outweigh negative feedback, indicating trust in performance " +
			"and user experience.",
	},
}

func BannerFor(d analysis.Decision) Banner {
	if b, ok := banners[d]; ok {
		return b
	}
	return Banner{Title: string(d)}
}

// Report is everything a results page, API response or terminal needs.
type Report struct {
	Category string            `json:"category"`
	Brand    string            `json:"brand"`
	Result   analysis.Result   `json:"result"`
	Decision analysis.Decision `json:"decision"`
	Banner   Banner            `json:"banner"`
}

func New(category, brand string, result analysis.Result, decision analysis.Decision) Report {
	return Report{
		Category: category,
		Brand:    Capitalize(brand),
		Result:   result,
		Decision: decision,
		Banner:   BannerFor(decision),
	}
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func (r Report) Markdown() string {
	var b strings.Builder
	res := r.Result

	fmt.Fprintf(&b, "# Sentiment Analysis Results\n\n")
	fmt.Fprintf(&b, "**Product Category:** %s  \n**Brand / Product:** %s  \n**Reviews analyzed:** %d\n\n",
		r.Category, r.Brand, res.Total)

	fmt.Fprintf(&b, "## %s\n\n%s\n\n", r.Banner.Title, r.Banner.Text)
	fmt.Fprintf(&b, "**Recommendation score:** %.2f / 100\n\n", res.Score)

	b.WriteString("## Sentiment\n\n| Bucket | Share |\n|---|---|\n")
	fmt.Fprintf(&b, "| Positive | %.2f%% |\n| Negative | %.2f%% |\n| Neutral | %.2f%% |\n\n",
		res.PositivePct, res.NegativePct, res.NeutralPct)

	b.WriteString("## Emotions\n\n| Emotion | Share |\n|---|---|\n")
	fmt.Fprintf(&b, "| Happy | %.2f%% |\n| Neutral | %.2f%% |\n| Sad | %.2f%% |\n| Angry | %.2f%% |\n",
		res.HappyPct, res.EmotionNeutralPct, res.SadPct, res.AngryPct)

	return b.String()
}

// HTML renders the markdown report as a standalone page. Raw HTML and unsafe
// links in the markdown, such as a brand taken from the request path, are not
// passed through.
func (r Report) HTML() string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink,
	})
	body := blackfriday.Run([]byte(r.Markdown()),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(renderer))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>SENTIFY | Sentiment Results</title>
<style>body{background:#020617;color:#E5E7EB;font-family:system-ui,sans-serif;padding:60px 7%%}h2{color:%s}</style>
</head>
<body>
%s</body>
</html>
`, r.Banner.Color, body)
}
