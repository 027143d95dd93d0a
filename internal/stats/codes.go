package stats

// Row maps a stat code ("HR", "OBP", ...) to its raw text as found on the page.
// Codes outside Counting and Rate are carried through untouched.
type Row map[string]string

// Clone returns an independent copy; a nil row clones to an empty one.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Counting stats scale with games played and get ceiling-rounded.
var Counting = map[string]struct{}{
	"G": {}, "PA": {}, "AB": {}, "R": {}, "H": {}, "2B": {}, "3B": {}, "HR": {},
	"RBI": {}, "SB": {}, "CS": {}, "BB": {}, "SO": {}, "TB": {}, "GIDP": {},
	"HBP": {}, "SH": {}, "SF": {}, "IBB": {},
}

// Rate stats are already normalized and are never scaled or rounded.
var Rate = map[string]struct{}{
	"BA": {}, "OBP": {}, "SLG": {}, "OPS": {}, "OPS+": {}, "rOBA": {}, "Rbat+": {},
}

// Preferred is the output order for known codes; anything else is appended sorted.
var Preferred = []string{
	"G", "PA", "AB", "R", "H", "2B", "3B", "HR", "RBI", "SB", "CS", "BB", "SO",
	"BA", "OBP", "SLG", "OPS", "OPS+", "rOBA", "Rbat+",
	"TB", "GIDP", "HBP", "SH", "SF", "IBB",
}

// IsCounting reports whether code is in the fixed counting set.
func IsCounting(code string) bool {
	_, ok := Counting[code]
	return ok
}

// IsRate reports whether code is in the fixed rate set.
func IsRate(code string) bool {
	_, ok := Rate[code]
	return ok
}

// dataStatCodes maps Baseball-Reference data-stat attributes to friendly codes.
// Both the current "b_" names and the older bare names appear in the wild.
var dataStatCodes = map[string]string{
	"b_games": "G", "g": "G", "games": "G",
	"b_pa": "PA", "pa": "PA",
	"b_ab": "AB", "ab": "AB",
	"b_r": "R", "r": "R",
	"b_h": "H", "h": "H",
	"b_doubles": "2B", "2b": "2B",
	"b_triples": "3B", "3b": "3B",
	"b_hr": "HR", "hr": "HR",
	"b_rbi": "RBI", "rbi": "RBI",
	"b_sb": "SB", "sb": "SB",
	"b_cs": "CS", "cs": "CS",
	"b_bb": "BB", "bb": "BB",
	"b_so": "SO", "so": "SO",
	"b_batting_avg": "BA", "batting_avg": "BA", "ba": "BA",
	"b_onbase_perc": "OBP", "onbase_perc": "OBP", "obp": "OBP",
	"b_slugging_perc": "SLG", "slugging_perc": "SLG", "slg": "SLG",
	"b_onbase_plus_slugging": "OPS", "onbase_plus_slugging": "OPS", "ops": "OPS",
	"b_onbase_plus_slugging_plus": "OPS+", "onbase_plus_slugging_plus": "OPS+", "ops+": "OPS+", "opsplus": "OPS+",
	"b_roba": "rOBA", "roba": "rOBA",
	"b_rbat_plus": "Rbat+", "rbat_plus": "Rbat+", "rbat+": "Rbat+",
	"b_tb": "TB", "tb": "TB",
	"b_gidp": "GIDP", "gidp": "GIDP", "gdp": "GIDP",
	"b_hbp": "HBP", "hbp": "HBP",
	"b_sh": "SH", "sh": "SH",
	"b_sf": "SF", "sf": "SF",
	"b_ibb": "IBB", "ibb": "IBB",
}

// CodeFor returns the friendly code for a data-stat name. Unknown names come
// back unchanged so new columns still reach the output.
func CodeFor(dataStat string) string {
	if c, ok := dataStatCodes[dataStat]; ok {
		return c
	}
	return dataStat
}
