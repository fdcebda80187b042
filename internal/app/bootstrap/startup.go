// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// retentionWorker is started in Startup and stopped in Shutdown.
var retentionWorker *workers.AuditRetention

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AuditRetention > 0 {
		retentionWorker = workers.NewAuditRetention(
			audit.New(deps.MongoDatabase),
			logger,
			appCfg.AuditPruneInterval,
			appCfg.AuditRetention,
		)
		retentionWorker.Start()
	}
	return nil
}
