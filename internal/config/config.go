package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"intercepts/internal/util"
)

type Config struct {
	ResourceDir string
	DBPath      string

	SourceFile          string
	SheetName           string
	YAMLFile            string
	ExcelOutput         string
	ReportFile          string
	TyposFile           string
	CountryFailuresFile string

	CodesFile         string
	CodesToken        string
	CodesRateLimitRPS int
	CodesTimeoutMs    int

	StatusesToInclude []string
	SortResults       bool
	BatchWorkers      int

	Variant                string
	ExtraShorthandOverride *bool
	EightDigitFixOverride  *bool

	LogLevel  string
	LogFormat string

	WatchDebounceMs int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	resourceDir := getEnv("RESOURCE_DIR", filepath.Join(cwd, "resources"))
	resolve := func(p string) string { return resolvePath(resourceDir, p) }
	today := time.Now().Format("2006-01-02")

	cfg := Config{
		ResourceDir: resourceDir,
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),

		SourceFile:          resolve(getEnv("SOURCE_FILE", filepath.Join("source", "intercepts.xlsx"))),
		SheetName:           getEnv("SHEET_NAME", ""),
		YAMLFile:            resolve(getEnv("YAML_FILE", filepath.Join("yml", "intercept-messages.yml"))),
		ExcelOutput:         resolve(strings.ReplaceAll(getEnv("EXCEL_OUTPUT", filepath.Join("excel", "intercept-messages-{date}.xlsx")), "{date}", today)),
		ReportFile:          resolve(getEnv("LOG_FILE", filepath.Join("log", "log.json"))),
		TyposFile:           resolve(getEnv("TYPOS_FILE", filepath.Join("config", "typos.csv"))),
		CountryFailuresFile: resolve(getEnv("COUNTRY_FAILURES_FILE", filepath.Join("config", "country_failures.json"))),

		CodesFile:         resolve(getEnv("CODES_FILE", filepath.Join("config", "commodities.csv"))),
		CodesToken:        getEnv("CODES_TOKEN", ""),
		CodesRateLimitRPS: getEnvInt("CODES_RATE_LIMIT_RPS", 5),
		CodesTimeoutMs:    getEnvInt("CODES_TIMEOUT_MS", 30000),

		StatusesToInclude: getEnvList("STATUSES_TO_INCLUDE", []string{"ready"}),
		SortResults:       getEnvBool("SORT_RESULTS", false),
		BatchWorkers:      getEnvInt("BATCH_WORKERS", 1),

		Variant:                getEnv("VARIANT", "generic"),
		ExtraShorthandOverride: getEnvOptionalBool("NORMALIZE_EXTRA_SHORTHAND"),
		EightDigitFixOverride:  getEnvOptionalBool("NORMALIZE_EIGHT_DIGIT_FIX"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		WatchDebounceMs: getEnvInt("WATCH_DEBOUNCE_MS", 500),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// IsRemote reports whether a configured source is an http(s) URL.
func IsRemote(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func resolvePath(base, p string) string {
	if p == "" || IsRemote(p) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	if parsed := getEnvOptionalBool(key); parsed != nil {
		return *parsed
	}
	return fallback
}

func getEnvOptionalBool(key string) *bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch value {
	case "1", "true", "yes", "on":
		return util.BoolPtr(true)
	case "0", "false", "no", "off":
		return util.BoolPtr(false)
	default:
		return nil
	}
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
