// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles framework-level settings like HTTP ports, TLS, and log level.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer-token verification. Tokens are issued by the identity
	// service; this backend only verifies them.
	JWTSecret string

	// CORS allowed origins, comma-separated ("*" allows any).
	CORSOrigins string

	// Audit logging: 'all' (db+log), 'db', 'log', or 'off'.
	AuditLog string

	// Audit retention pruning. Zero retention disables the pruner.
	AuditRetention     time.Duration
	AuditPruneInterval time.Duration
}
