package service

import (
	"context"

	"abstractdesk/internal/config"
	"abstractdesk/internal/domain"
	"abstractdesk/internal/logging"
)

// PostCommitNotifier applies the configured notification policy after a
// status change has been committed.
type PostCommitNotifier struct {
	mode          string
	notifications NotificationService
	runner        *DispatchRunner
}

// NewPostCommitNotifier creates a PostCommitNotifier. runner is required for
// the detach mode only.
func NewPostCommitNotifier(mode string, notifications NotificationService, runner *DispatchRunner) *PostCommitNotifier {
	if mode == config.NotifyModeDetach && runner == nil {
		mode = config.NotifyModeAwait
	}
	return &PostCommitNotifier{mode: mode, notifications: notifications, runner: runner}
}

// Mode returns the effective policy.
func (p *PostCommitNotifier) Mode() string {
	if p == nil {
		return config.NotifyModeOff
	}
	return p.mode
}

// Notify dispatches notifications for ids. In await mode the summary is
// returned; in detach and off modes it returns nil.
func (p *PostCommitNotifier) Notify(ctx context.Context, ids []int64, status domain.AbstractStatus, comments *string) *DispatchSummary {
	if p == nil || len(ids) == 0 {
		return nil
	}
	logger := logging.LoggerFrom(ctx)

	switch p.mode {
	case config.NotifyModeAwait:
		summary, err := p.notifications.NotifyAbstracts(ctx, ids, status, comments)
		if err != nil {
			logger.Error("post-commit notification failed", "error", err)
			return nil
		}
		return summary
	case config.NotifyModeDetach:
		idsCopy := append([]int64(nil), ids...)
		accepted := p.runner.Go(ctx, "notify", func(jobCtx context.Context) {
			if _, err := p.notifications.NotifyAbstracts(jobCtx, idsCopy, status, comments); err != nil {
				logging.LoggerFrom(jobCtx).Error("detached notification failed", "error", err)
			}
		})
		if !accepted {
			logger.Warn("detached notification dropped", "count", len(ids))
		}
		return nil
	default:
		return nil
	}
}
