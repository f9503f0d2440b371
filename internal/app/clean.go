package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/filer"
)

// Clean removes every output recorded in the ledger, then the ledger itself.
// It returns the removed output paths.
func (a *App) Clean(ctx context.Context) ([]string, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	ledger, err := filer.ReadLedger(a.ledgerPath())
	if err != nil {
		return nil, err
	}
	removed, err := filer.Remove(a.root, ledger.Outputs)
	if err != nil {
		return removed, err
	}
	if err := os.Remove(a.ledgerPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return removed, fmt.Errorf("failed to remove ledger: %w", err)
	}
	logger.Info("Clean complete", "removed", len(removed))
	return removed, nil
}
