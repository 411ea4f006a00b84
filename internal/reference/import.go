package reference

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"intercepts/internal/config"
	"intercepts/internal/storage"
)

const (
	metaLastImport  = "codes.last_import"
	metaImportCount = "codes.last_import_count"
	metaSource      = "codes.source"
)

// ImportService loads the tariff code extract into the local database.
type ImportService struct {
	db     *storage.DB
	client *Client
	log    zerolog.Logger
}

func NewImportService(db *storage.DB, cfg config.Config, log zerolog.Logger) *ImportService {
	return &ImportService{db: db, client: NewClient(cfg), log: log}
}

// Import reads source (a path or http(s) URL) and upserts the published codes.
func (s *ImportService) Import(ctx context.Context, source string) (int, error) {
	blob, err := ReadSource(ctx, s.client, source)
	if err != nil {
		return 0, err
	}
	records, err := ParseCommodities(bytes.NewReader(blob))
	if err != nil {
		return 0, err
	}
	if err := s.db.UpsertCommodities(records); err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_ = s.db.SetMetadata(metaLastImport, now)
	_ = s.db.SetMetadata(metaImportCount, fmt.Sprint(len(records)))
	_ = s.db.SetMetadata(metaSource, source)

	s.log.Info().Str("source", source).Int("codes", len(records)).Msg("commodity codes imported")
	return len(records), nil
}

func ReadSource(ctx context.Context, client *Client, source string) ([]byte, error) {
	if config.IsRemote(source) {
		return client.Fetch(ctx, source)
	}
	return os.ReadFile(source)
}
