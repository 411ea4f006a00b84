package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"intercepts/internal/config"
	"intercepts/internal/storage"
)

const smokeCodes = `sid,code,pls,suffix,indent,desc,start,end,kind
1,1234000000,80,80,0,Gadgets,2020-01-01,,heading
2,4201000000,80,80,0,Saddlery,2020-01-01,,heading
3,9999000000,80,80,0,Valves,2020-01-01,,commodity
`

func smokeConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		ResourceDir:         dir,
		DBPath:              filepath.Join(dir, "data", "app.db"),
		SourceFile:          filepath.Join(dir, "source", "intercepts.xlsx"),
		YAMLFile:            filepath.Join(dir, "yml", "intercept-messages.yml"),
		ExcelOutput:         filepath.Join(dir, "excel", "intercept-messages.xlsx"),
		ReportFile:          filepath.Join(dir, "log", "log.json"),
		TyposFile:           filepath.Join(dir, "config", "typos.csv"),
		CountryFailuresFile: filepath.Join(dir, "config", "country_failures.json"),
		CodesFile:           filepath.Join(dir, "config", "commodities.csv"),
		StatusesToInclude:   []string{"ready"},
		BatchWorkers:        2,
		Variant:             "generic",
	}

	workbook := mkXLSX("", [][]any{
		sourceHeader,
		sourceRow("Valve", 10, "See heading 9999 for details", "Ready", "tap"),
		sourceRow("gadget", 7, "TERM CHEAD 1234", "ready", ""),
		sourceRow("lamp", 3, "See 12345", "ready", ""),
		sourceRow("handbags", 2, "|4201", "ready", ""),
		sourceRow("bolt", 1, "123|bolts", "ready", ""),
		sourceRow("horse", 1, "Use commodity 0101210000", "draft", ""),
	})
	write := func(path string, blob []byte) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, blob, 0o644))
	}
	write(cfg.SourceFile, workbook)
	write(cfg.CodesFile, []byte(smokeCodes))
	write(cfg.TyposFile, []byte("recieve,receive\n"))
	write(cfg.CountryFailuresFile, []byte(`["France"]`))
	return cfg
}

func TestSmokeBuild(t *testing.T) {
	cfg := smokeConfig(t)
	db, err := storage.Open(cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	res, err := NewBuildService(db, cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Success)
	assert.Equal(t, 1, res.Skipped)
	assert.NotEmpty(t, res.TraceID)
	assert.NotZero(t, res.RunID)

	blob, err := os.ReadFile(cfg.YAMLFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(blob), "en:\n"))

	var locale map[string]map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(blob, &locale))
	assert.Equal(t, "See commodity 9999000000 for details.", locale["en"]["valve"]["message"])
	assert.Equal(t, "tap", locale["en"]["tap"]["title"])
	assert.Equal(t, "Gadget is classified under heading 1234.", locale["en"]["gadget"]["message"])
	assert.NotContains(t, locale["en"], "bolt")
	assert.NotContains(t, locale["en"], "horse")

	var report map[string]any
	reportBlob, err := os.ReadFile(cfg.ReportFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(reportBlob, &report))
	assert.EqualValues(t, 5, report["success_count"])
	assert.Equal(t, []any{}, report["typos"])
	assert.Len(t, report["erroneous_digits"], 1)
	assert.Contains(t, string(reportBlob), "\n      \"success_count\"")

	f, err := excelize.OpenFile(cfg.ExcelOutput)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Term", "Message"}, rows[0])
	assert.Equal(t, "valve", rows[1][0])

	exported, err := db.GetExportRows(int(res.RunID))
	require.NoError(t, err)
	assert.Len(t, exported, 5)

	runs, err := db.ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].SkippedCount)
}

func TestSmokeBuildSortedWithoutDB(t *testing.T) {
	cfg := smokeConfig(t)
	cfg.SortResults = true
	cfg.ExcelOutput = ""

	res, err := NewBuildService(nil, cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.RunID)

	blob, err := os.ReadFile(cfg.YAMLFile)
	require.NoError(t, err)
	order := []string{}
	for _, line := range strings.Split(string(blob), "\n") {
		if strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "    ") {
			order = append(order, strings.TrimSuffix(strings.TrimSpace(line), ":"))
		}
	}
	assert.Equal(t, []string{"gadget", "handbags", "lamp", "tap", "valve"}, order)

	_, err = os.Stat(filepath.Join(cfg.ResourceDir, "excel"))
	assert.True(t, os.IsNotExist(err))
}

func TestNormalizeOne(t *testing.T) {
	cfg := smokeConfig(t)
	cfg.Variant = "business"

	rec, diag, err := NewBuildService(nil, cfg, zerolog.Nop()).NormalizeOne(context.Background(), "Australia", "COUNTRY", "")
	require.NoError(t, err)
	assert.True(t, rec.CountryReference)
	assert.Contains(t, rec.Message, "https://www.gov.uk/world/australia")
	assert.Empty(t, diag.IncorrectCommodities)
}

func TestVariantFromConfig(t *testing.T) {
	off := false
	v, err := VariantFromConfig(config.Config{Variant: "generic", ExtraShorthandOverride: &off})
	require.NoError(t, err)
	assert.False(t, v.ExtraShorthand)
	assert.True(t, v.EightDigitHeadingFix)

	_, err = VariantFromConfig(config.Config{Variant: "retail"})
	assert.Error(t, err)
}
