// internal/app/features/colegios/crud.go
package colegios

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	colegiostore "github.com/grupovertice/captacion/internal/app/store/colegios"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/inputval"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type colegioPayload struct {
	Nombre  string `json:"nombre" validate:"required"`
	Regimen string `json:"regimen" validate:"omitempty,oneof=publico privado concertado"`
	Ciudad  string `json:"ciudad"`
	Activo  *bool  `json:"activo"`
}

// gestiona checks the school-management permit (admins pass).
func (h *Handler) gestiona(ctx context.Context, r *http.Request) (auditlog.Actor, bool, bool) {
	rol, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}, false, false
	}
	actor := auditlog.Actor{ID: userID, Nombre: nombre}
	return actor, h.permits.Has(ctx, userID, rol, models.PermisoGestionarColegios), true
}

// List handles GET /: every school, active or not, name order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}

	cols, err := h.colegios.List(ctx)
	if err != nil {
		h.log.Error("school list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if cols == nil {
		cols = []models.Colegio{}
	}
	httpjson.OK(w, cols)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	col, err := h.colegios.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "colegio no encontrado")
		return
	}
	if err != nil {
		h.log.Error("school get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	httpjson.OK(w, col)
}

// Create handles POST /. Duplicate names (case and accent insensitive)
// are a 400: the unique index on nombre_ci is the authority.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, permitido, ok := h.gestiona(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !permitido {
		httpjson.Forbidden(w, "no tienes permiso para gestionar colegios")
		return
	}

	var p colegioPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if err := inputval.Struct(p); err != nil {
		httpjson.BadRequest(w, inputval.Message(err))
		return
	}

	activo := true
	if p.Activo != nil {
		activo = *p.Activo
	}
	col, err := h.colegios.Create(ctx, models.Colegio{
		Nombre:  p.Nombre,
		Regimen: p.Regimen,
		Ciudad:  p.Ciudad,
		Activo:  activo,
	})
	if err == colegiostore.ErrDuplicateColegio {
		httpjson.BadRequest(w, "ya existe un colegio con ese nombre")
		return
	}
	if err != nil {
		h.log.Error("school create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Creado(ctx, r, actor, audit.EntidadColegio, col.ID, auditlog.Snapshot(col))
	httpjson.Created(w, col)
}

// Update handles PUT /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, permitido, ok := h.gestiona(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !permitido {
		httpjson.Forbidden(w, "no tienes permiso para gestionar colegios")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	var p colegioPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if err := inputval.Struct(p); err != nil {
		httpjson.BadRequest(w, inputval.Message(err))
		return
	}

	antes, err := h.colegios.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "colegio no encontrado")
		return
	}
	if err != nil {
		h.log.Error("school get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	upd := antes
	upd.Nombre = p.Nombre
	upd.Regimen = p.Regimen
	upd.Ciudad = p.Ciudad
	if p.Activo != nil {
		upd.Activo = *p.Activo
	}
	if err := h.colegios.Update(ctx, id, upd); err != nil {
		if err == colegiostore.ErrDuplicateColegio {
			httpjson.BadRequest(w, "ya existe un colegio con ese nombre")
			return
		}
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "colegio no encontrado")
			return
		}
		h.log.Error("school update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	despues, err := h.colegios.GetByID(ctx, id)
	if err != nil {
		h.log.Error("school reload failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	h.audit.Actualizado(ctx, r, actor, audit.EntidadColegio, id,
		auditlog.Snapshot(antes), auditlog.Snapshot(despues))
	httpjson.OK(w, despues)
}

// Delete handles DELETE /{id}. Titulaciones cascade with the school;
// contacts keep their colegio_id and denormalized school name.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, permitido, ok := h.gestiona(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !permitido {
		httpjson.Forbidden(w, "no tienes permiso para gestionar colegios")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	antes, err := h.colegios.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "colegio no encontrado")
		return
	}
	if err != nil {
		h.log.Error("school get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	if _, err := h.titulaciones.DeleteByColegio(ctx, id); err != nil {
		h.log.Error("degree cascade delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if n, err := h.colegios.Delete(ctx, id); err != nil {
		h.log.Error("school delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	} else if n == 0 {
		httpjson.NotFound(w, "colegio no encontrado")
		return
	}

	h.audit.Eliminado(ctx, r, actor, audit.EntidadColegio, id, auditlog.Snapshot(antes))
	httpjson.Message(w, "colegio eliminado")
}
