// Package configuracion serves the versioned key/value settings endpoints
// and the one-shot permission-catalog seeding used at rollout.
package configuracion

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	configstore "github.com/grupovertice/captacion/internal/app/store/configuracion"
	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	config   *configstore.Store
	permisos *permisostore.Store
	permits  *permits.Checker
	audit    *auditlog.Logger
	log      *zap.Logger
}

func NewHandler(db *mongo.Database, checker *permits.Checker, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		config:   configstore.New(db),
		permisos: permisostore.New(db),
		permits:  checker,
		audit:    auditLog,
		log:      logger,
	}
}

// Routes returns the subrouter mounted under /api/configuracion.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{clave}", h.Get)
	r.Put("/{clave}", h.Set)
	r.Post("/init-permissions", h.InitPermissions)
	return r
}

// Get handles GET /{clave}. Unset keys come back with version 0 and an
// empty value rather than a 404, so clients need no special first-run
// handling.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}

	cfg, err := h.config.GetOrDefault(ctx, chi.URLParam(r, "clave"), "")
	if err != nil {
		h.log.Error("config read failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	httpjson.OK(w, cfg)
}

type valorPayload struct {
	Valor string `json:"valor"`
}

// Set handles PUT /{clave}: admin or configuracion.editar permit. The
// write bumps the version counter; the response carries the stored entry
// so the caller can confirm its own write.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rol, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !h.permits.Has(ctx, userID, rol, models.PermisoEditarConfig) {
		httpjson.Forbidden(w, "no tienes permiso para editar la configuración")
		return
	}

	var p valorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}

	clave := chi.URLParam(r, "clave")
	antes, err := h.config.GetOrDefault(ctx, clave, "")
	if err != nil {
		h.log.Error("config read failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	cfg, err := h.config.Set(ctx, clave, p.Valor, &userID)
	if err != nil {
		h.log.Error("config write failed", zap.String("clave", clave), zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Actualizado(ctx, r, auditlog.Actor{ID: userID, Nombre: nombre},
		audit.EntidadConfiguracion, cfg.ID, auditlog.Snapshot(antes), auditlog.Snapshot(cfg))
	httpjson.OK(w, cfg)
}

// InitPermissions handles POST /init-permissions: idempotent seeding of
// the permission catalog. Safe to call repeatedly; existing entries are
// skipped.
func (h *Handler) InitPermissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rol, _, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if rol != models.RolAdmin {
		httpjson.Forbidden(w, "solo administradores")
		return
	}

	creados, err := h.permisos.SeedCatalogo(ctx, []models.Permiso{
		{Clave: models.PermisoEliminarContactos, Descripcion: "Eliminar contactos"},
		{Clave: models.PermisoGestionarColegios, Descripcion: "Gestionar colegios y titulaciones"},
		{Clave: models.PermisoEditarConfig, Descripcion: "Editar la configuración del sistema"},
		{Clave: models.PermisoVerGraduaciones, Descripcion: "Ver el panel de graduaciones"},
	})
	if err != nil {
		h.log.Error("permission seed failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	httpjson.OK(w, map[string]int{"creados": creados})
}
