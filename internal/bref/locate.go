package bref

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Sports-Reference ships most secondary tables inside <!-- --> so they only
// render client-side. A comment that mentions any of these is re-parsed.
var commentTableMarkers = []string{"table", "tbody", "tfoot", "thead"}

// Tables yields every table on the page in document order, followed by the
// tables recovered from comments. The sequence is lazy: comments are only
// parsed once the visible tables have been consumed.
func Tables(doc *goquery.Document) iter.Seq[RawTable] {
	return func(yield func(RawTable) bool) {
		for _, t := range doc.Find("table").EachIter() {
			if !yield(RawTable{sel: t, origin: OriginDocument}) {
				return
			}
		}
		for t := range CommentTables(doc.Selection) {
			if !yield(t) {
				return
			}
		}
	}
}

// CommentTables yields the tables hidden inside comment nodes under root.
// Comments that fail to parse are skipped.
func CommentTables(root *goquery.Selection) iter.Seq[RawTable] {
	return func(yield func(RawTable) bool) {
		for _, n := range root.Nodes {
			if !walkComments(n, func(c *html.Node) bool {
				return yieldCommentTables(c.Data, yield)
			}) {
				return
			}
		}
	}
}

func yieldCommentTables(raw string, yield func(RawTable) bool) bool {
	if !hasTableMarker(raw) {
		return true
	}
	sub, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return true
	}
	for _, t := range sub.Find("table").EachIter() {
		if !yield(RawTable{sel: t, origin: OriginComment}) {
			return false
		}
	}
	return true
}

func hasTableMarker(s string) bool {
	for _, m := range commentTableMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// walkComments visits comment nodes depth-first; fn returning false stops the walk.
func walkComments(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.CommentNode {
		return fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkComments(c, fn) {
			return false
		}
	}
	return true
}
