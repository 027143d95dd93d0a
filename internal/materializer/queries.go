package materializer

import (
	"fmt"
	"regexp"
	"strings"
)

const TableName = "batters_per162"

// BuildDrop returns a DROP TABLE IF EXISTS for the external table.
func BuildDrop(db string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", db, TableName)
}

// BuildCreateExternal declares every CSV column as a string over location
// (s3://bucket/prefix/current/). The header line is skipped.
func BuildCreateExternal(db string, header []string, location string) string {
	cols := ColumnNames(header)
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("  `%s` string", c)
	}
	return fmt.Sprintf(`
CREATE EXTERNAL TABLE %s.%s (
%s
)
ROW FORMAT SERDE 'org.apache.hadoop.hive.serde2.OpenCSVSerde'
WITH SERDEPROPERTIES (
  'separatorChar' = ',',
  'quoteChar' = '"',
  'escapeChar' = '\\'
)
STORED AS TEXTFILE
LOCATION '%s'
TBLPROPERTIES ('skip.header.line.count' = '1')
`, db, TableName, strings.Join(defs, ",\n"), strings.TrimRight(location, "/")+"/")
}

func BuildCount(db string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS c FROM %s.%s", db, TableName)
}

// BuildStatusCounts groups rows by the per-record status column.
func BuildStatusCounts(db string) string {
	return fmt.Sprintf(`
SELECT error, COUNT(*) AS players
FROM %s.%s
GROUP BY error
ORDER BY error`, db, TableName)
}

func BuildSample(db string, limit int) string {
	if limit <= 0 {
		limit = 25
	}
	return fmt.Sprintf(`
SELECT *
FROM %s.%s
ORDER BY lastname, firstname
LIMIT %d`, db, TableName, limit)
}

var reNonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

// ColumnName turns a CSV header into an Athena column name:
// "OPS+" -> "ops_plus", "2B" -> "c2b", "HS_City" -> "hs_city".
func ColumnName(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = strings.NewReplacer("+", "_plus", "%", "_pct", "/", "_per_").Replace(s)
	s = strings.Trim(reNonIdent.ReplaceAllString(s, "_"), "_")
	if s == "" {
		s = "col"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "c" + s
	}
	return s
}

// ColumnNames maps a whole header, suffixing duplicates with _2, _3, ...
func ColumnNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		c := ColumnName(h)
		seen[c]++
		if n := seen[c]; n > 1 {
			c = fmt.Sprintf("%s_%d", c, n)
		}
		out[i] = c
	}
	return out
}
