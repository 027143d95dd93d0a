package materializer

import (
	"strings"
	"testing"
)

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"FirstName":            "firstname",
		"OPS+":                 "ops_plus",
		"2B":                   "c2b",
		"162_HR":               "c162_hr",
		"W-L%":                 "w_l_pct",
		"BaseballReferenceURL": "baseballreferenceurl",
		"  ":                   "col",
		"Rbat+":                "rbat_plus",
	}
	for in, want := range tests {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColumnNames_Dedup(t *testing.T) {
	got := ColumnNames([]string{"HR", "hr", "H R", "HR"})
	want := "hr,hr_2,h_r,hr_3"
	if strings.Join(got, ",") != want {
		t.Fatalf("got %v", got)
	}
}

func TestBuildCreateExternal(t *testing.T) {
	sql := BuildCreateExternal("baseball", []string{"FirstName", "OPS+", "2B"}, "s3://bkt/br162/current")
	for _, want := range []string{
		"CREATE EXTERNAL TABLE baseball.batters_per162 (",
		"`firstname` string,\n  `ops_plus` string,\n  `c2b` string\n)",
		"OpenCSVSerde",
		"LOCATION 's3://bkt/br162/current/'",
		"'skip.header.line.count' = '1'",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %q in:\n%s", want, sql)
		}
	}
}

func TestQAQueries(t *testing.T) {
	if got := BuildCount("db"); got != "SELECT COUNT(*) AS c FROM db.batters_per162" {
		t.Errorf("count = %q", got)
	}
	if !strings.Contains(BuildSample("db", 0), "LIMIT 25") {
		t.Errorf("sample default limit missing")
	}
	if !strings.Contains(BuildStatusCounts("db"), "GROUP BY error") {
		t.Errorf("status counts missing group by")
	}
	if BuildDrop("db") != "DROP TABLE IF EXISTS db.batters_per162" {
		t.Errorf("drop = %q", BuildDrop("db"))
	}
}
