package app

import (
	"context"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/fsutil"
	"github.com/vk/propreg/internal/scanner"
	"github.com/vk/propreg/internal/watcher"
)

// BuildFunc receives the outcome of every build in watch mode.
type BuildFunc func(*Report, error)

// Watch generates once, then again whenever Go sources below the module root
// change, until ctx is done. Build failures are passed to onBuild and do not
// stop watching. Scan results of unchanged declarations are reused between
// builds.
func (a *App) Watch(ctx context.Context, onBuild BuildFunc) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	w, err := watcher.New(watcher.Config{
		Debounce:     a.debounce,
		IgnoreSuffix: a.settings.Output.SourceSuffix,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	sc := scanner.NewCached(scanner.New(a.settings.Marker), scanner.DefaultExpiration, scanner.DefaultCleanupInterval)
	rebuild := func() error {
		dirs, err := fsutil.FindDirsWithExtension(a.root, ".go")
		if err != nil {
			return err
		}
		if err := w.Watch(dirs); err != nil {
			return err
		}
		report, err := a.generate(ctx, sc)
		if err != nil {
			logger.Error("Build failed", "error", err)
		}
		if onBuild != nil {
			onBuild(report, err)
		}
		return nil
	}

	if err := rebuild(); err != nil {
		return err
	}
	changes := w.Start(ctx)
	logger.Info("Watching for changes", "root", a.root)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case <-changes:
			logger.Info("Change detected, rebuilding")
			if err := rebuild(); err != nil {
				return err
			}
			logger.Debug("Scan cache", "entries", sc.Len())
		}
	}
}
