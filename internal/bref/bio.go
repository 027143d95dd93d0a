package bref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NotAvailable is the nickname placeholder when a page has none.
const NotAvailable = "N/A"

// Output column names for bio fields.
const (
	FieldNickname  = "Nickname"
	FieldHeight    = "Height"
	FieldWeight    = "Weight_lb"
	FieldBats      = "Bats"
	FieldThrows    = "Throws"
	FieldHSCity    = "HS_City"
	FieldHSState   = "HS_State"
	FieldHSCountry = "HS_Country"
)

// Bio holds whatever the #meta block gave up. Present is false when the page
// has no #meta at all.
type Bio struct {
	Present   bool
	Nickname  string
	Height    string
	Weight    *int
	Bats      string
	Throws    string
	HSCity    string
	HSState   string
	HSCountry string
}

// Fields returns only the discovered fields, keyed by output column.
// A page without #meta yields an empty map.
func (b Bio) Fields() map[string]string {
	out := map[string]string{}
	if !b.Present {
		return out
	}
	out[FieldNickname] = b.Nickname
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(FieldHeight, b.Height)
	if b.Weight != nil {
		out[FieldWeight] = strconv.Itoa(*b.Weight)
	}
	set(FieldBats, b.Bats)
	set(FieldThrows, b.Throws)
	set(FieldHSCity, b.HSCity)
	set(FieldHSState, b.HSState)
	set(FieldHSCountry, b.HSCountry)
	return out
}

// US state, DC and territory postal codes.
var usStateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {},
	"FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {},
	"KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {}, "MI": {}, "MN": {}, "MS": {},
	"MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {},
	"NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {},
	"WI": {}, "WY": {}, "DC": {}, "PR": {}, "GU": {}, "VI": {}, "AS": {}, "MP": {},
}

var (
	reNickLabel  = regexp.MustCompile(`(?i)^(Nickname|Nicknames):\s*`)
	reBats       = regexp.MustCompile(`(?i)Bats:\s*(Right|Left|Both)`)
	reThrows     = regexp.MustCompile(`(?i)Throws:\s*(Right|Left)`)
	reHeightLbs  = regexp.MustCompile(`(?i)(\d+)-(\d+)\s*,\s*(\d+)\s*lb`)
	reParenGroup = regexp.MustCompile(`\(([^)]+)\)`)

	// checked in this order; only the first one present is applied
	nicknameSeparators = []string{"•", ";", ",", " / ", " | "}
)

// ExtractBio parses the #meta block of a player page.
func ExtractBio(doc *goquery.Document) Bio {
	meta := doc.Find("#meta").First()
	if meta.Length() == 0 {
		return Bio{}
	}
	b := Bio{Present: true, Nickname: NotAvailable}

	paras := meta.Find("p")
	if p := labelledParagraph(paras, func(lead string) bool {
		return lead == "Nickname:" || lead == "Nicknames:"
	}); p != nil {
		b.Nickname = ParseNickname(joinedText(p))
	}

	var blob []string
	paras.Each(func(_ int, p *goquery.Selection) {
		blob = append(blob, joinedText(p))
	})
	text := strings.Join(blob, " ")
	b.Bats, b.Throws = ParseBatsThrows(text)
	b.Height, b.Weight = ParseHeightWeight(text)

	if p := labelledParagraph(paras, func(lead string) bool {
		return strings.Contains(lead, "High School")
	}); p != nil {
		b.HSCity, b.HSState, b.HSCountry = ParseHighSchool(joinedText(p))
	}
	return b
}

// labelledParagraph returns the first <p> whose first <strong> text matches.
func labelledParagraph(paras *goquery.Selection, match func(lead string) bool) *goquery.Selection {
	for _, p := range paras.EachIter() {
		strong := p.Find("strong").First()
		if strong.Length() == 0 {
			continue
		}
		if match(strings.TrimSpace(strong.Text())) {
			return p
		}
	}
	return nil
}

// ParseNickname strips the "Nickname(s):" label and keeps the text up to the
// first separator. Empty results map to NotAvailable.
func ParseNickname(text string) string {
	raw := reNickLabel.ReplaceAllString(strings.TrimSpace(text), "")
	for _, sep := range nicknameSeparators {
		if i := strings.Index(raw, sep); i >= 0 {
			raw = raw[:i]
			break
		}
	}
	if raw = strings.TrimSpace(raw); raw == "" {
		return NotAvailable
	}
	return raw
}

// ParseBatsThrows finds "Bats: X" and "Throws: Y" anywhere in text.
func ParseBatsThrows(text string) (bats, throws string) {
	if m := reBats.FindStringSubmatch(text); m != nil {
		bats = titleWord(m[1])
	}
	if m := reThrows.FindStringSubmatch(text); m != nil {
		throws = titleWord(m[1])
	}
	return bats, throws
}

// ParseHeightWeight reads "6-2, 215lb" as height "6'2" and 215 pounds.
// A weight that does not fit an int is left nil.
func ParseHeightWeight(text string) (height string, weight *int) {
	m := reHeightLbs.FindStringSubmatch(text)
	if m == nil {
		return "", nil
	}
	height = m[1] + "'" + m[2]
	if w, err := strconv.Atoi(m[3]); err == nil {
		weight = &w
	}
	return height, weight
}

// ParseHighSchool takes the last parenthesized group as "City, ST". Earlier
// groups tend to be class years or school qualifiers.
func ParseHighSchool(text string) (city, state, country string) {
	groups := reParenGroup.FindAllStringSubmatch(text, -1)
	if len(groups) == 0 {
		return "", "", ""
	}
	loc := strings.TrimSpace(groups[len(groups)-1][1])
	if loc == "" {
		return "", "", ""
	}
	if strings.Contains(loc, ",") {
		parts := strings.Split(loc, ",")
		city, state = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	} else {
		city = loc
	}
	if _, ok := usStateCodes[strings.ToUpper(state)]; ok {
		country = "USA"
	}
	return city, state, country
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
