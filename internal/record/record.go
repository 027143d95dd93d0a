// Package record holds the per-player output row and the column universe of a run.
package record

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tyler180/baseball-per162/internal/bref"
	"github.com/tyler180/baseball-per162/internal/stats"
)

// Fixed leading columns, always present and always in this order.
const (
	ColFirstName = "FirstName"
	ColLastName  = "LastName"
	ColURL       = "BaseballReferenceURL"
	ColError     = "error"
)

// BaseColumns precede every stat column in the output.
var BaseColumns = []string{
	ColFirstName, ColLastName,
	bref.FieldNickname, bref.FieldHeight, bref.FieldWeight,
	bref.FieldBats, bref.FieldThrows,
	bref.FieldHSCity, bref.FieldHSState, bref.FieldHSCountry,
	ColURL, ColError,
}

// PlayerRecord is one output row.
type PlayerRecord struct {
	FirstName string
	LastName  string
	Nickname  string
	Height    string
	Weight    *int
	Bats      string
	Throws    string
	HSCity    string
	HSState   string
	HSCountry string
	URL       string
	Error     bref.Status
	Stats     stats.Row
}

// New returns an empty record for url with the nickname placeholder set.
func New(url string) PlayerRecord {
	return PlayerRecord{URL: url, Nickname: bref.NotAvailable, Stats: stats.Row{}}
}

// ApplyBio copies whatever the bio block produced onto r.
func (r *PlayerRecord) ApplyBio(b bref.Bio) {
	if !b.Present {
		return
	}
	r.Nickname = b.Nickname
	r.Height = b.Height
	r.Weight = b.Weight
	r.Bats = b.Bats
	r.Throws = b.Throws
	r.HSCity = b.HSCity
	r.HSState = b.HSState
	r.HSCountry = b.HSCountry
}

// PlayerID is the Baseball-Reference slug, e.g. "ruthba01" for
// ".../players/r/ruthba01.shtml". Falls back to the whole URL.
func (r PlayerRecord) PlayerID() string {
	u := strings.TrimRight(r.URL, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.Index(u, "."); i > 0 {
		u = u[:i]
	}
	if u == "" {
		return r.URL
	}
	return u
}

// ToRow flattens r into column -> value. Missing values are "".
func (r PlayerRecord) ToRow() map[string]string {
	row := make(map[string]string, len(BaseColumns)+len(r.Stats))
	for k, v := range r.Stats {
		row[k] = v
	}
	weight := ""
	if r.Weight != nil {
		weight = strconv.Itoa(*r.Weight)
	}
	row[ColFirstName] = r.FirstName
	row[ColLastName] = r.LastName
	row[bref.FieldNickname] = r.Nickname
	row[bref.FieldHeight] = r.Height
	row[bref.FieldWeight] = weight
	row[bref.FieldBats] = r.Bats
	row[bref.FieldThrows] = r.Throws
	row[bref.FieldHSCity] = r.HSCity
	row[bref.FieldHSState] = r.HSState
	row[bref.FieldHSCountry] = r.HSCountry
	row[ColURL] = r.URL
	row[ColError] = string(r.Error)
	return row
}

// FieldUniverse accumulates every stat key seen during a run.
type FieldUniverse struct {
	seen map[string]struct{}
}

// NewFieldUniverse returns an empty universe.
func NewFieldUniverse() *FieldUniverse {
	return &FieldUniverse{seen: map[string]struct{}{}}
}

// Add records the stat keys of rec.
func (u *FieldUniverse) Add(rec PlayerRecord) {
	for k := range rec.Stats {
		if k == "" || isBase(k) {
			continue
		}
		u.seen[k] = struct{}{}
	}
}

// Header returns the base columns, then preferred stat codes that were seen,
// then every other seen key sorted.
func (u *FieldUniverse) Header() []string {
	header := append([]string(nil), BaseColumns...)
	placed := map[string]struct{}{}
	for _, k := range stats.Preferred {
		if _, ok := u.seen[k]; ok {
			header = append(header, k)
			placed[k] = struct{}{}
		}
	}
	var rest []string
	for k := range u.seen {
		if _, ok := placed[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(header, rest...)
}

func isBase(k string) bool {
	for _, c := range BaseColumns {
		if c == k {
			return true
		}
	}
	return false
}
