package bref

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tyler180/baseball-per162/internal/stats"
)

// CanonicalBattingID is the id of the standard batting table on a player page.
const CanonicalBattingID = "batting_standard"

// Origin says where a table was found.
type Origin int

const (
	OriginDocument Origin = iota // visible in the rendered DOM
	OriginComment                // recovered from an HTML comment
)

func (o Origin) String() string {
	if o == OriginComment {
		return "comment"
	}
	return "document"
}

// RawTable is a handle on one <table>; it only lives while its page is processed.
type RawTable struct {
	sel    *goquery.Selection
	origin Origin
}

// ID returns the table's id attribute, or "".
func (t RawTable) ID() string {
	return strings.TrimSpace(t.sel.AttrOr("id", ""))
}

// Origin reports whether the table came from the DOM or a comment.
func (t RawTable) Origin() Origin { return t.origin }

// header cells that never carry a stat (season label, team, league, ...)
var nonStatHeaders = map[string]struct{}{
	"season": {}, "year_id": {}, "age": {}, "team_id": {}, "tm": {}, "lg": {},
	"lg_id": {}, "stint": {}, "pos": {}, "pos_summary": {}, "team_name_abbr": {},
	"comp_name_abbr": {}, "player": {}, "awards": {},
}

// HeaderKeys returns one key per cell of the last <thead> row, "" for cells
// that are not stats. Used to align footer cells that lack data-stat.
func (t RawTable) HeaderKeys() []string {
	hdr := t.sel.ChildrenFiltered("thead").Find("tr").Last()
	if hdr.Length() == 0 {
		return nil
	}
	var keys []string
	hdr.ChildrenFiltered("th,td").Each(func(_ int, c *goquery.Selection) {
		k := strings.ToLower(strings.TrimSpace(c.AttrOr("data-stat", "")))
		if k == "" {
			k = strings.ToLower(strings.TrimSpace(c.Text()))
		}
		k = strings.ReplaceAll(k, " ", "_")
		k = strings.ReplaceAll(k, "%", "perc")
		if _, skip := nonStatHeaders[k]; skip {
			k = ""
		}
		keys = append(keys, k)
	})
	return keys
}

// FooterRow is one <tfoot> row: its label cell and its stat cells.
type FooterRow struct {
	Label string
	Stats stats.Row // friendly code -> text, thousands separators removed
}

// FooterRows parses the table's <tfoot> rows in order.
func (t RawTable) FooterRows() []FooterRow {
	trs := t.sel.ChildrenFiltered("tfoot").ChildrenFiltered("tr")
	if trs.Length() == 0 {
		return nil
	}
	header := t.HeaderKeys()
	out := make([]FooterRow, 0, trs.Length())
	trs.Each(func(_ int, tr *goquery.Selection) {
		out = append(out, parseFooterRow(tr, header))
	})
	return out
}

// BodyRows returns the number of season rows in <tbody>.
func (t RawTable) BodyRows() int {
	return t.sel.ChildrenFiltered("tbody").ChildrenFiltered("tr").Not(".thead").Length()
}

func parseFooterRow(tr *goquery.Selection, header []string) FooterRow {
	fr := FooterRow{
		Label: normLabel(joinedText(tr.ChildrenFiltered("th").First())),
		Stats: stats.Row{},
	}

	usedDataStat := false
	tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
		k := strings.ToLower(strings.TrimSpace(td.AttrOr("data-stat", "")))
		if k == "" {
			return
		}
		usedDataStat = true
		if _, skip := nonStatHeaders[k]; skip {
			return
		}
		fr.Stats[stats.CodeFor(strings.ReplaceAll(k, " ", "_"))] = cellValue(td)
	})
	if usedDataStat {
		return fr
	}

	// no data-stat anywhere: align every cell with the header by position
	tr.ChildrenFiltered("th,td").Each(func(i int, c *goquery.Selection) {
		if goquery.NodeName(c) == "th" || i >= len(header) || header[i] == "" {
			return
		}
		fr.Stats[stats.CodeFor(header[i])] = cellValue(c)
	})
	return fr
}

func cellValue(c *goquery.Selection) string {
	return strings.ReplaceAll(strings.TrimSpace(c.Text()), ",", "")
}
