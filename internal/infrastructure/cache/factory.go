package cache

import (
	appaccounting "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewReportCache builds the report cache selected by configuration. When
// Redis is configured but unreachable it falls back to the in-memory
// cache with a warning rather than refusing to start; "none" disables
// caching entirely.
func NewReportCache(cfg *config.Config, logger *zap.Logger) appaccounting.ReportCache {
	switch cfg.Cache.Backend {
	case "none":
		return nil
	case "redis":
		cache, err := NewRedisReportCache(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
				"Cached reports will not be shared across instances.",
				zap.Error(err),
			)
			return NewMemoryReportCache()
		}
		logger.Info("using Redis report cache", zap.String("addr", cfg.Redis.Addr()))
		return cache
	default:
		return NewMemoryReportCache()
	}
}
