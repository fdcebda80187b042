// Package graduaciones serves the /api/graduaciones endpoints: the
// per-year pipeline view, the distinct-year listing, pipeline-record
// edits, and the sync pass that materializes records for the active year.
package graduaciones

import (
	colegiostore "github.com/grupovertice/captacion/internal/app/store/colegios"
	configstore "github.com/grupovertice/captacion/internal/app/store/configuracion"
	contactostore "github.com/grupovertice/captacion/internal/app/store/contactos"
	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	usuariostore "github.com/grupovertice/captacion/internal/app/store/usuarios"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the graduation endpoints.
type Handler struct {
	db           *mongo.Database
	graduaciones *graduacionstore.Store
	contactos    *contactostore.Store
	colegios     *colegiostore.Store
	usuarios     *usuariostore.Store
	config       *configstore.Store
	permits      *permits.Checker
	audit        *auditlog.Logger
	sanitize     *bluemonday.Policy
	log          *zap.Logger
}

func NewHandler(db *mongo.Database, checker *permits.Checker, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		db:           db,
		graduaciones: graduacionstore.New(db),
		contactos:    contactostore.New(db),
		colegios:     colegiostore.New(db),
		usuarios:     usuariostore.New(db),
		config:       configstore.New(db),
		permits:      checker,
		audit:        auditLog,
		sanitize:     bluemonday.StrictPolicy(),
		log:          logger,
	}
}
