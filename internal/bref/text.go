package bref

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var wsRe = regexp.MustCompile(`\s+`)

// joinedText trims every text node under sel and joins the non-empty ones
// with a single space, so "<strong>Bats:</strong>Right" reads "Bats: Right".
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// normLabel folds non-breaking spaces and collapses runs of whitespace.
func normLabel(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return wsRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
