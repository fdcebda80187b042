// internal/app/features/colegios/titulaciones.go
package colegios

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/inputval"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type titulacionPayload struct {
	Nombre string `json:"nombre" validate:"required"`
	Nivel  string `json:"nivel"`
}

// ListTitulaciones handles GET /{id}/titulaciones.
func (h *Handler) ListTitulaciones(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	tits, err := h.titulaciones.ListByColegio(ctx, id)
	if err != nil {
		h.log.Error("degree list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if tits == nil {
		tits = []models.Titulacion{}
	}
	httpjson.OK(w, tits)
}

// CreateTitulacion handles POST /{id}/titulaciones.
func (h *Handler) CreateTitulacion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, permitido, ok := h.gestiona(ctx, r)
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
	if _, err := h.colegios.GetByID(ctx, id); err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "colegio no encontrado")
		return
	} else if err != nil {
		h.log.Error("school get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	var p titulacionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if err := inputval.Struct(p); err != nil {
		httpjson.BadRequest(w, inputval.Message(err))
		return
	}

	t, err := h.titulaciones.Create(ctx, models.Titulacion{
		ColegioID: id,
		Nombre:    p.Nombre,
		Nivel:     p.Nivel,
	})
	if err != nil {
		h.log.Error("degree create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	httpjson.Created(w, t)
}

// DeleteTitulacion handles DELETE /{id}/titulaciones/{titulacionId}.
func (h *Handler) DeleteTitulacion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, permitido, ok := h.gestiona(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !permitido {
		httpjson.Forbidden(w, "no tienes permiso para gestionar colegios")
		return
	}
	titID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "titulacionId"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	n, err := h.titulaciones.Delete(ctx, titID)
	if err != nil {
		h.log.Error("degree delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "titulación no encontrada")
		return
	}
	httpjson.Message(w, "titulación eliminada")
}
