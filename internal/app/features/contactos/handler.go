// Package contactos serves the /api/contactos endpoints: CRUD, bulk
// import, and per-agent listings, all filtered through the visibility
// resolver.
package contactos

import (
	colegiostore "github.com/grupovertice/captacion/internal/app/store/colegios"
	contactostore "github.com/grupovertice/captacion/internal/app/store/contactos"
	usuariostore "github.com/grupovertice/captacion/internal/app/store/usuarios"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/grupovertice/captacion/internal/app/system/visibility"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the contact endpoints.
type Handler struct {
	contactos *contactostore.Store
	colegios  *colegiostore.Store
	usuarios  *usuariostore.Store
	vis       *visibility.Resolver
	permits   *permits.Checker
	audit     *auditlog.Logger
	log       *zap.Logger
}

func NewHandler(db *mongo.Database, vis *visibility.Resolver, checker *permits.Checker, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		contactos: contactostore.New(db),
		colegios:  colegiostore.New(db),
		usuarios:  usuariostore.New(db),
		vis:       vis,
		permits:   checker,
		audit:     auditLog,
		log:       logger,
	}
}
