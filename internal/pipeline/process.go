package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"intercepts/internal"
	"intercepts/internal/intercept"
	"intercepts/internal/util"
)

// BatchBuilder turns source rows into intercept records.
type BatchBuilder struct {
	normalizer *intercept.Normalizer
	statuses   map[string]struct{}
	workers    int
	log        zerolog.Logger
}

type BatchResult struct {
	Records     []*intercept.Record
	Diagnostics *intercept.Diagnostics
	Skipped     int
	Excluded    int
}

func NewBatchBuilder(n *intercept.Normalizer, statuses []string, workers int, log zerolog.Logger) *BatchBuilder {
	if workers < 1 {
		workers = 1
	}
	allowed := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}
	return &BatchBuilder{normalizer: n, statuses: allowed, workers: workers, log: log}
}

type partition struct {
	records  []*intercept.Record
	diag     *intercept.Diagnostics
	skipped  int
	excluded int
}

// Build keeps input order and produces the same records and diagnostics for
// any worker count. Invalid records are counted as excluded and dropped.
func (b *BatchBuilder) Build(ctx context.Context, rows []internal.SourceRow) (BatchResult, error) {
	workers := b.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}
	size := (len(rows) + workers - 1) / workers

	parts := make([]partition, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * size
		hi := min(lo+size, len(rows))
		if lo >= hi {
			parts[w] = partition{diag: intercept.NewDiagnostics()}
			continue
		}
		part := &parts[w]
		chunk := rows[lo:hi]
		g.Go(func() error {
			*part = partition{diag: intercept.NewDiagnostics()}
			for _, row := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}
				b.buildRow(row, part)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Records: []*intercept.Record{}, Diagnostics: intercept.NewDiagnostics()}
	for _, p := range parts {
		res.Records = append(res.Records, p.records...)
		res.Diagnostics.Merge(p.diag)
		res.Skipped += p.skipped
		res.Excluded += p.excluded
	}
	return res, nil
}

func (b *BatchBuilder) buildRow(row internal.SourceRow, part *partition) {
	if _, ok := b.statuses[row.Status]; !ok || row.Message == "" {
		return
	}

	primary := b.buildRecord(row, row.Term, part)
	term := intercept.NormalizeTerm(row.Term, row.Message)
	if primary != nil {
		term = primary.Term
	}

	for _, synonym := range util.SplitList(row.GenuineTerm) {
		if synonym == term {
			continue
		}
		b.buildRecord(row, synonym, part)
	}
}

// buildRecord passes no genuine term: every record, synonyms included,
// pluralizes its own term.
func (b *BatchBuilder) buildRecord(row internal.SourceRow, term string, part *partition) *intercept.Record {
	rec, err := intercept.NewRecord(b.normalizer, part.diag, term, row.Message, "")
	if err != nil {
		part.skipped++
		event := b.log.Warn().Err(err).Int("row", row.RowNumber).Str("term", term)
		if errors.Is(err, intercept.ErrUnknownTier) {
			event = event.Bool("unknown_tier", true)
		}
		event.Msg("record skipped")
		return nil
	}
	if !rec.Valid {
		part.excluded++
		b.log.Debug().Int("row", row.RowNumber).Str("term", rec.Term).Msg("record excluded")
		return rec
	}
	part.records = append(part.records, rec)
	return rec
}
