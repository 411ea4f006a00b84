package reference

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"intercepts/internal"
	"intercepts/internal/config"
	"intercepts/internal/storage"
)

// Provider assembles the reference data for a run. Codes come from the
// database when it has been populated by an import, otherwise from CODES_FILE.
type Provider struct {
	cfg    config.Config
	db     *storage.DB
	client *Client
	log    zerolog.Logger
}

// NewProvider accepts a nil db.
func NewProvider(cfg config.Config, db *storage.DB, log zerolog.Logger) *Provider {
	return &Provider{cfg: cfg, db: db, client: NewClient(cfg), log: log}
}

func (p *Provider) Load(ctx context.Context) (*Data, error) {
	records, origin, err := p.commodities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load commodity codes: %w", err)
	}

	typos, err := LoadTypos(p.cfg.TyposFile)
	if err != nil {
		return nil, fmt.Errorf("load typos: %w", err)
	}
	if typos == nil {
		p.log.Warn().Str("path", p.cfg.TyposFile).Msg("typos file not found, no typo rules applied")
	}

	countries, err := LoadCountryFailures(p.cfg.CountryFailuresFile)
	if err != nil {
		return nil, fmt.Errorf("load country failures: %w", err)
	}
	if countries == nil {
		p.log.Warn().Str("path", p.cfg.CountryFailuresFile).Msg("country failures file not found")
	}

	table := BuildTable(records)
	p.log.Info().
		Str("origin", origin).
		Int("codes", table.Len()).
		Int("typos", len(typos)).
		Int("country_failures", len(countries)).
		Msg("reference data loaded")

	return NewData(table, typos, countries), nil
}

func (p *Provider) commodities(ctx context.Context) ([]internal.CommodityRecord, string, error) {
	if p.db != nil {
		n, err := p.db.CountCommodities()
		if err != nil {
			return nil, "", err
		}
		if n > 0 {
			records, err := p.db.ListCommodities()
			return records, "database", err
		}
	}

	blob, err := ReadSource(ctx, p.client, p.cfg.CodesFile)
	if err != nil {
		return nil, "", err
	}
	records, err := ParseCommodities(bytes.NewReader(blob))
	return records, p.cfg.CodesFile, err
}
