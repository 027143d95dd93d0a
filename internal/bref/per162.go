package bref

import (
	"math"
	"strconv"
	"strings"

	"github.com/tyler180/baseball-per162/internal/stats"
)

// Status is the per-record outcome written to the "error" column.
type Status string

const (
	StatusDirect      Status = ""                     // "162 Game Avg" footer used as-is
	StatusDerived     Status = "computed_from_totals" // career totals scaled by 162/G
	StatusNotFound    Status = "not_found"
	StatusFetchFailed Status = "fetch_failed"
	StatusUnknown     Status = "unknown"
)

// SeasonGames is the season length every row is projected to.
const SeasonGames = 162

// Diagnostics records what the resolver looked at; only used for debug logs.
type Diagnostics struct {
	TablesSeen   int
	WithFooter   int
	SeasonRows   int // tbody rows across footed tables
	FooterLabels []string
}

// Resolution is the per-162 row for a page, or Status=not_found.
type Resolution struct {
	Row     stats.Row
	Status  Status
	Found   bool
	TableID string
	Diag    Diagnostics
}

// rowStrategy tries to produce a per-162 row from one table's footer.
type rowStrategy func(footer []FooterRow) (stats.Row, Status, bool)

// per162Strategies run in order per table; the first hit wins.
var per162Strategies = []rowStrategy{
	directFooterRow,
	derivedFromTotals,
}

// ResolvePer162 walks the ranked tables and returns the first per-162 row any
// of them yields. A direct row in a later table never beats a derived row in
// an earlier one.
func ResolvePer162(tables []RawTable) Resolution {
	var diag Diagnostics
	for _, t := range tables {
		diag.TablesSeen++
		footer := t.FooterRows()
		if len(footer) == 0 {
			continue
		}
		diag.WithFooter++
		diag.SeasonRows += t.BodyRows()
		for _, fr := range footer {
			if fr.Label != "" {
				diag.FooterLabels = append(diag.FooterLabels, fr.Label)
			}
		}
		for _, try := range per162Strategies {
			if row, st, ok := try(footer); ok {
				return Resolution{Row: row, Status: st, Found: true, TableID: t.ID(), Diag: diag}
			}
		}
	}
	return Resolution{Status: StatusNotFound, Diag: diag}
}

func isPer162Label(label string) bool {
	return label == "162 Game Avg" || strings.Contains(label, "162")
}

func isTotalsLabel(label string) bool {
	return label == "MLB" || label == "Career" || strings.Contains(label, "Yrs")
}

// directFooterRow returns the first "162 Game Avg" footer row verbatim,
// minus empty cells.
func directFooterRow(footer []FooterRow) (stats.Row, Status, bool) {
	for _, fr := range footer {
		if !isPer162Label(fr.Label) {
			continue
		}
		row := stats.Row{}
		for k, v := range fr.Stats {
			if k != "" && v != "" {
				row[k] = v
			}
		}
		return row, StatusDirect, true
	}
	return nil, "", false
}

type totalsCandidate struct {
	stats stats.Row
	games float64
}

// derivedFromTotals projects the career totals row to 162 games.
func derivedFromTotals(footer []FooterRow) (stats.Row, Status, bool) {
	if len(footer) == 0 {
		return nil, "", false
	}
	var cands []totalsCandidate
	for _, fr := range footer {
		if isTotalsLabel(fr.Label) {
			cands = append(cands, totalsCandidate{stats: fr.Stats, games: parseGames(fr.Stats["G"])})
		}
	}
	if len(cands) == 0 {
		last := footer[len(footer)-1]
		cands = append(cands, totalsCandidate{stats: last.Stats, games: parseGames(last.Stats["G"])})
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.games > best.games {
			best = c
		}
	}
	if !(best.games > 0) {
		return nil, "", false
	}

	row := ScaleTotals(best.stats, best.games)
	if len(row) == 0 {
		return nil, "", false
	}
	return row, StatusDerived, true
}

// ScaleTotals multiplies counting stats by 162/games (one decimal) and copies
// rate stats through. Everything else is dropped.
func ScaleTotals(totals stats.Row, games float64) stats.Row {
	scale := SeasonGames / games
	out := stats.Row{}
	for k, v := range totals {
		if v == "" {
			continue
		}
		switch {
		case stats.IsCounting(k):
			f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
			if err != nil {
				continue
			}
			out[k] = strconv.FormatFloat(math.Round(f*scale*10)/10, 'f', 1, 64)
		case stats.IsRate(k):
			out[k] = v
		}
	}
	return out
}

// parseGames reads a games count; anything unparsable or non-finite counts as 0.
func parseGames(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
