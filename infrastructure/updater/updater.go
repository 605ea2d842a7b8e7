// Package updater keeps the extractor tool current via the package manager.
package updater

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"media-gateway/infrastructure/logger"
)

// Updater periodically re-invokes the package manager to upgrade the
// extractor tool. Failures are logged and ignored; the loop never shares
// failure semantics with request handling.
type Updater struct {
	interval time.Duration
	command  []string
}

func NewUpdater(interval time.Duration, command []string) *Updater {
	return &Updater{interval: interval, command: command}
}

// Run loops until ctx is cancelled. The first update fires one full
// interval after start.
func (u *Updater) Run(ctx context.Context) error {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			u.UpdateOnce(ctx)
		}
	}
}

// UpdateOnce runs a single upgrade attempt, discarding output.
func (u *Updater) UpdateOnce(ctx context.Context) {
	if len(u.command) == 0 {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(runCtx, u.command[0], u.command[1:]...)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		logger.GetLogger().WithField("error", err).Warn("Extractor self-update failed")
		return
	}
	logger.GetLogger().Info("Extractor self-update completed")
}
