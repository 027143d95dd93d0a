package bref

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// generational suffixes that belong with the surname
var nameSuffixes = map[string]struct{}{
	"Jr.": {}, "Jr": {}, "Sr.": {}, "Sr": {}, "II": {}, "III": {}, "IV": {}, "V": {},
}

// DisplayName reads the player's name from the page heading.
func DisplayName(doc *goquery.Document) string {
	h1 := doc.Find(`h1[itemprop="name"]`).First()
	if h1.Length() == 0 {
		h1 = doc.Find("h1").First()
	}
	return normLabel(joinedText(h1))
}

// SplitName splits a display name into first and last name. A trailing
// suffix stays with the surname ("John Smith Jr." -> "John", "Smith Jr.")
// once there are at least three tokens.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	n := len(parts)
	if _, ok := nameSuffixes[parts[n-1]]; ok && n >= 3 {
		return strings.Join(parts[:n-2], " "), parts[n-2] + " " + parts[n-1]
	}
	return strings.Join(parts[:n-1], " "), parts[n-1]
}
