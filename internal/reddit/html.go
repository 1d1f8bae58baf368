package reddit

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bodyText returns the plain-text body of a post. The API ships the body as
// escaped HTML in selftext_html; when present it is decoded and stripped of
// markup, otherwise the raw selftext markdown is used as-is.
func bodyText(p Post) string {
	if p.SelfTextHTML == "" {
		return p.SelfText
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(p.SelfTextHTML)))
	if err != nil {
		return p.SelfText
	}
	return strings.TrimSpace(doc.Text())
}
