package stats

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tyler180/baseball-per162/internal/dataset"
)

// PerGamePrefix tags the alternate column naming used when per-162 columns
// sit next to season or career columns in a merged dataset ("162_HR").
const PerGamePrefix = "162_"

// Scheme names the set of columns that get ceiling-rounded.
type Scheme struct {
	Name string
	Keys map[string]struct{}
}

// Has reports whether key belongs to the scheme.
func (s Scheme) Has(key string) bool {
	_, ok := s.Keys[key]
	return ok
}

var (
	// DefaultScheme rounds the bare counting codes.
	DefaultScheme = Scheme{Name: "default", Keys: Counting}
	// PrefixedScheme rounds the counting codes under PerGamePrefix.
	PrefixedScheme = Scheme{Name: "prefixed", Keys: prefixed(Counting, PerGamePrefix)}
)

func prefixed(set map[string]struct{}, prefix string) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[prefix+k] = struct{}{}
	}
	return out
}

var reNumeral = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

// CeilValue rounds a numeral toward +Inf. Anything that is not a plain
// signed integer or decimal comes back unchanged with ok=false. Integers
// keep their text, minus thousands separators.
func CeilValue(v string) (string, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if !reNumeral.MatchString(s) {
		return v, false
	}
	if !strings.Contains(s, ".") {
		return s, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return v, false
	}
	c := math.Ceil(f)
	if c == 0 {
		c = 0 // no "-0"
	}
	return strconv.FormatFloat(c, 'f', 0, 64), true
}

// CeilCounting returns a copy of row with every scheme key ceiling-rounded.
// Empty and non-numeric values, rate codes and unknown codes are untouched.
func CeilCounting(row Row, scheme Scheme) Row {
	out := row.Clone()
	for k, v := range out {
		if v == "" || !scheme.Has(k) {
			continue
		}
		if r, ok := CeilValue(v); ok {
			out[k] = r
		}
	}
	return out
}

// DetectScheme picks PrefixedScheme as soon as any prefixed counting column
// is present, even if bare columns of the same stat are there too.
func DetectScheme(columns []string) Scheme {
	for _, c := range columns {
		if PrefixedScheme.Has(c) {
			return PrefixedScheme
		}
	}
	return DefaultScheme
}

// RoundDataset is the standalone rounding pass over an existing output.
// Column order and every value outside the detected scheme are preserved.
func RoundDataset(ds dataset.Dataset) (dataset.Dataset, Scheme) {
	scheme := DetectScheme(ds.Columns)
	out := dataset.Dataset{
		Columns: append([]string(nil), ds.Columns...),
		Rows:    make([]map[string]string, 0, len(ds.Rows)),
	}
	for _, r := range ds.Rows {
		out.Rows = append(out.Rows, map[string]string(CeilCounting(Row(r), scheme)))
	}
	return out, scheme
}

// RoundFile reads a CSV, rounds it and writes the result to out.
func RoundFile(in, out string) (Scheme, error) {
	ds, err := dataset.ReadFile(in)
	if err != nil {
		return Scheme{}, fmt.Errorf("read %s: %w", in, err)
	}
	rounded, scheme := RoundDataset(ds)
	if err := dataset.WriteFile(out, rounded.Columns, rounded.Rows); err != nil {
		return scheme, fmt.Errorf("write %s: %w", out, err)
	}
	return scheme, nil
}
