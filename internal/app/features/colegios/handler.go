// Package colegios serves the school CRUD endpoints. The same router is
// mounted at /api/colegios and /api/universidades; older clients use the
// second path.
package colegios

import (
	colegiostore "github.com/grupovertice/captacion/internal/app/store/colegios"
	titulacionstore "github.com/grupovertice/captacion/internal/app/store/titulaciones"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the school endpoints.
type Handler struct {
	colegios     *colegiostore.Store
	titulaciones *titulacionstore.Store
	permits      *permits.Checker
	audit        *auditlog.Logger
	log          *zap.Logger
}

func NewHandler(db *mongo.Database, checker *permits.Checker, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		colegios:     colegiostore.New(db),
		titulaciones: titulacionstore.New(db),
		permits:      checker,
		audit:        auditLog,
		log:          logger,
	}
}
