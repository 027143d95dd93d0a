// Package config reads run settings from the environment, after loading an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tyler180/baseball-per162/internal/bref"
)

// DefaultUserAgent looks like a desktop browser; Baseball-Reference
// throttles obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X) AppleWebKit/537.36 (KHTML, like Gecko) br162/1.0 Safari/537.36"

type Config struct {
	URLsFile   string
	OutDir     string
	RawCSV     string
	RoundedCSV string

	UserAgent   string
	HTTPTimeout time.Duration
	DelayMin    time.Duration
	DelayMax    time.Duration

	CanonicalTableID string
	Debug            bool
	DebugHTMLDir     string
	LogLevel         string

	// optional sinks; empty disables
	DDBTable        string
	S3Bucket        string
	S3Prefix        string
	AthenaDB        string
	AthenaWorkgroup string
	AthenaOutput    string
}

// Load reads .env (if present) and then the environment.
func Load(logger zerolog.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	cfg := Config{
		URLsFile:         envStr("BR_URLS_FILE", ""),
		OutDir:           envStr("OUT_DIR", "."),
		RawCSV:           envStr("RAW_CSV", "batters_162_raw.csv"),
		RoundedCSV:       envStr("ROUNDED_CSV", "batters_162_rounded.csv"),
		UserAgent:        envStr("USER_AGENT", DefaultUserAgent),
		HTTPTimeout:      envSeconds("HTTP_TIMEOUT_SEC", 25),
		DelayMin:         envSeconds("DELAY_MIN_SEC", 28),
		DelayMax:         envSeconds("DELAY_MAX_SEC", 45),
		CanonicalTableID: envStr("CANONICAL_TABLE_ID", bref.CanonicalBattingID),
		Debug:            envBool("DEBUG", false),
		DebugHTMLDir:     envStr("DEBUG_HTML_DIR", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		DDBTable:         envStr("DDB_TABLE", ""),
		S3Bucket:         envStr("S3_BUCKET", ""),
		S3Prefix:         envStr("S3_PREFIX", "br162"),
		AthenaDB:         envStr("ATHENA_DB", ""),
		AthenaWorkgroup:  envStr("ATHENA_WORKGROUP", "primary"),
		AthenaOutput:     envStr("ATHENA_OUTPUT", ""),
	}
	if cfg.Debug && cfg.LogLevel == "info" {
		cfg.LogLevel = "debug"
	}
	cfg.DelayMin, cfg.DelayMax = orderedDelay(cfg.DelayMin, cfg.DelayMax)
	return cfg
}

// orderedDelay keeps both bounds non-negative with min <= max.
func orderedDelay(lo, hi time.Duration) (time.Duration, time.Duration) {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// ------------------ env helpers ------------------

func envStr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

// envSeconds accepts fractional seconds ("1.5").
func envSeconds(k string, def float64) time.Duration {
	secs := def
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			secs = f
		}
	}
	return time.Duration(secs * float64(time.Second))
}
