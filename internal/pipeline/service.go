package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"intercepts/internal"
	"intercepts/internal/config"
	"intercepts/internal/intercept"
	"intercepts/internal/reference"
	"intercepts/internal/storage"
)

func VariantFromConfig(cfg config.Config) (intercept.Variant, error) {
	v, err := intercept.VariantByName(cfg.Variant)
	if err != nil {
		return intercept.Variant{}, err
	}
	if cfg.ExtraShorthandOverride != nil {
		v.ExtraShorthand = *cfg.ExtraShorthandOverride
	}
	if cfg.EightDigitFixOverride != nil {
		v.EightDigitHeadingFix = *cfg.EightDigitFixOverride
	}
	return v, nil
}

// BuildService runs a whole batch: reference data, source workbook, outputs
// and, when a database is configured, the run history.
type BuildService struct {
	cfg config.Config
	db  *storage.DB
	log zerolog.Logger
}

// NewBuildService accepts a nil db; the run is then not persisted.
func NewBuildService(db *storage.DB, cfg config.Config, log zerolog.Logger) *BuildService {
	return &BuildService{db: db, cfg: cfg, log: log}
}

type BuildResult struct {
	RunID       int64
	TraceID     string
	Success     int
	Skipped     int
	Excluded    int
	Diagnostics *intercept.Diagnostics
}

func (s *BuildService) Run(ctx context.Context) (BuildResult, error) {
	start := time.Now()
	traceID := uuid.NewString()
	log := s.log.With().Str("trace_id", traceID).Logger()

	variant, err := VariantFromConfig(s.cfg)
	if err != nil {
		return BuildResult{}, err
	}
	data, err := reference.NewProvider(s.cfg, s.db, log).Load(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	rows, err := ReadSourceRows(s.cfg.SourceFile, s.cfg.SheetName)
	if err != nil {
		return BuildResult{}, err
	}
	log.Info().Str("source", s.cfg.SourceFile).Int("rows", len(rows)).Str("variant", variant.Name).Msg("build started")

	builder := NewBatchBuilder(intercept.NewNormalizer(variant, data), s.cfg.StatusesToInclude, s.cfg.BatchWorkers, log)
	batch, err := builder.Build(ctx, rows)
	if err != nil {
		return BuildResult{}, err
	}
	if s.cfg.SortResults {
		sort.SliceStable(batch.Records, func(i, j int) bool { return batch.Records[i].Term < batch.Records[j].Term })
	}

	if err := WriteYAML(s.cfg.YAMLFile, batch.Records); err != nil {
		return BuildResult{}, fmt.Errorf("write yaml: %w", err)
	}
	if s.cfg.ExcelOutput != "" {
		if err := ExportRowsToXLSX(ExportRows(batch.Records), s.cfg.ExcelOutput); err != nil {
			return BuildResult{}, fmt.Errorf("write xlsx: %w", err)
		}
	}
	report := NewReport(len(batch.Records), batch.Diagnostics)
	if err := WriteReport(s.cfg.ReportFile, report); err != nil {
		return BuildResult{}, fmt.Errorf("write report: %w", err)
	}

	res := BuildResult{
		TraceID:     traceID,
		Success:     len(batch.Records),
		Skipped:     batch.Skipped,
		Excluded:    batch.Excluded,
		Diagnostics: batch.Diagnostics,
	}
	if s.db != nil {
		runID, err := s.persist(traceID, variant.Name, report, batch.Records, res)
		if err != nil {
			return BuildResult{}, fmt.Errorf("persist run: %w", err)
		}
		res.RunID = runID
	}

	log.Info().
		Int64("run_id", res.RunID).
		Int("success", res.Success).
		Int("skipped", res.Skipped).
		Int("excluded", res.Excluded).
		Int("erroneous_digits", len(res.Diagnostics.ErroneousDigits)).
		Int("incorrect_commodities", len(res.Diagnostics.IncorrectCommodities)).
		Int("useless_messages", len(res.Diagnostics.UselessMessages)).
		Dur("took", time.Since(start)).
		Msg("build finished")
	return res, nil
}

func (s *BuildService) persist(traceID, variant string, report Report, records []*intercept.Record, res BuildResult) (int64, error) {
	blob, err := report.JSON()
	if err != nil {
		return 0, err
	}
	rows := make([]internal.RecordRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, internal.RecordRow{
			Position:             i,
			Term:                 rec.Term,
			Message:              rec.Message,
			Valid:                rec.Valid,
			CountryReference:     rec.CountryReference,
			ErroneousDigitLength: rec.ErroneousDigitLength,
		})
	}
	return s.db.InsertRun(internal.RunRow{
		TraceID:         traceID,
		SourceFile:      s.cfg.SourceFile,
		Variant:         variant,
		SuccessCount:    res.Success,
		SkippedCount:    res.Skipped,
		ExcludedCount:   res.Excluded,
		DiagnosticsJSON: string(blob),
	}, rows)
}

// NormalizeOne runs a single message through the configured pipeline.
func (s *BuildService) NormalizeOne(ctx context.Context, term, message, genuineTerm string) (*intercept.Record, *intercept.Diagnostics, error) {
	variant, err := VariantFromConfig(s.cfg)
	if err != nil {
		return nil, nil, err
	}
	data, err := reference.NewProvider(s.cfg, s.db, s.log).Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	diag := intercept.NewDiagnostics()
	rec, err := intercept.NewRecord(intercept.NewNormalizer(variant, data), diag, term, message, genuineTerm)
	if err != nil {
		return nil, nil, err
	}
	return rec, diag, nil
}
