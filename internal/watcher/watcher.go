package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"intercepts/internal/config"
	"intercepts/internal/pipeline"
	"intercepts/internal/storage"
)

// Service rebuilds the outputs whenever the source workbook or one of the
// local reference files changes.
type Service struct {
	cfg      config.Config
	build    func(context.Context) (pipeline.BuildResult, error)
	log      zerolog.Logger
	debounce time.Duration
}

func NewService(db *storage.DB, cfg config.Config, log zerolog.Logger) *Service {
	debounce := time.Duration(cfg.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Service{
		cfg:      cfg,
		build:    pipeline.NewBuildService(db, cfg, log).Run,
		log:      log,
		debounce: debounce,
	}
}

func (s *Service) watchedFiles() map[string]struct{} {
	files := map[string]struct{}{}
	for _, p := range []string{s.cfg.SourceFile, s.cfg.TyposFile, s.cfg.CountryFailuresFile, s.cfg.CodesFile} {
		if p == "" || config.IsRemote(p) {
			continue
		}
		files[filepath.Clean(p)] = struct{}{}
	}
	return files
}

// Run builds once, then again after every burst of changes. It returns nil
// when ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()

	files := s.watchedFiles()
	dirs := map[string]struct{}{}
	for f := range files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	s.log.Info().Int("files", len(files)).Int("directories", len(dirs)).Msg("watching for changes")

	s.runCycle(ctx)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, watched := files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			fire = time.After(s.debounce)
		case <-fire:
			fire = nil
			s.runCycle(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	res, err := s.build(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("rebuild failed")
		return
	}
	s.log.Info().Str("trace_id", res.TraceID).Int("success", res.Success).Int("skipped", res.Skipped).Msg("rebuild done")
}
