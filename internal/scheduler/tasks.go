package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/session"
)

// TaskPurgeSessions 过期会话清理任务名
const TaskPurgeSessions = "purge_sessions"

// PurgeSessions 清理过期会话条目
func PurgeSessions(purger session.Purger, logger *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := purger.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("已清理过期会话", zap.Int64("count", n))
		}
		return nil
	}
}
