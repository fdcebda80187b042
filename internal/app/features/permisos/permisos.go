// Package permisos serves the permission catalog and per-user assignment
// endpoints. Assignments are admin-only.
package permisos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	usuariostore "github.com/grupovertice/captacion/internal/app/store/usuarios"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	permisos *permisostore.Store
	usuarios *usuariostore.Store
	audit    *auditlog.Logger
	log      *zap.Logger
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		permisos: permisostore.New(db),
		usuarios: usuariostore.New(db),
		audit:    auditLog,
		log:      logger,
	}
}

// Routes returns the subrouter mounted under /api/permisos.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Catalogo)
	r.Get("/usuario/{id}", h.DeUsuario)
	r.Put("/usuario/{id}", h.Asignar)
	return r
}

// Catalogo handles GET /: the permission catalog.
func (h *Handler) Catalogo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}

	cat, err := h.permisos.ListCatalogo(ctx)
	if err != nil {
		h.log.Error("permission catalog failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if cat == nil {
		cat = []models.Permiso{}
	}
	httpjson.OK(w, cat)
}

// DeUsuario handles GET /usuario/{id}: the permission keys one user
// holds. Admins can inspect anyone; other callers only themselves.
func (h *Handler) DeUsuario(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rol, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}
	if rol != models.RolAdmin && id != callerID {
		httpjson.Forbidden(w, "")
		return
	}

	claves, err := h.permisos.ClavesDeUsuario(ctx, id)
	if err != nil {
		h.log.Error("permission lookup failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if claves == nil {
		claves = []string{}
	}
	httpjson.OK(w, claves)
}

type asignacionPayload struct {
	Claves []string `json:"claves"`
}

// Asignar handles PUT /usuario/{id}: admin-only replacement of a user's
// permission set with the given keys. Unknown keys are a 400; nothing is
// written in that case.
func (h *Handler) Asignar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rol, nombre, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if rol != models.RolAdmin {
		httpjson.Forbidden(w, "solo administradores")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}
	if _, err := h.usuarios.GetByID(ctx, id); err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "usuario no encontrado")
		return
	} else if err != nil {
		h.log.Error("user get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	var p asignacionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}

	antes, err := h.permisos.ClavesDeUsuario(ctx, id)
	if err != nil {
		h.log.Error("permission lookup failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(p.Claves))
	for _, clave := range p.Claves {
		perm, err := h.permisos.GetByClave(ctx, clave)
		if err == mongo.ErrNoDocuments {
			httpjson.BadRequest(w, "permiso desconocido: "+clave)
			return
		}
		if err != nil {
			h.log.Error("permission lookup failed", zap.String("clave", clave), zap.Error(err))
			httpjson.Internal(w)
			return
		}
		ids = append(ids, perm.ID)
	}

	if err := h.permisos.ReemplazarAsignaciones(ctx, id, ids); err != nil {
		h.log.Error("permission assignment failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Actualizado(ctx, r, auditlog.Actor{ID: callerID, Nombre: nombre},
		audit.EntidadPermiso, id,
		bson.M{"claves": antes}, bson.M{"claves": p.Claves})
	httpjson.OK(w, p.Claves)
}
