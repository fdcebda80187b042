// internal/app/features/graduaciones/upsert.go
package graduaciones

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// graduacionPayload carries the editable pipeline fields of an update.
// Pointer fields distinguish "absent" from "set to empty": absent fields
// keep their stored (or seeded) value.
type graduacionPayload struct {
	ResponsableID   *string `json:"responsableId"`
	TipoProducto    *string `json:"tipoProducto"`
	Prevision       *string `json:"prevision"`
	Estado          *string `json:"estado"`
	Observaciones   *string `json:"observaciones"`
	FechaGraduacion *string `json:"fechaGraduacion"`
}

// anioActivo reads the admin-selected birth year from configuration.
func (h *Handler) anioActivo(ctx context.Context) (int, error) {
	cfg, err := h.config.GetOrDefault(ctx, models.ClaveAnioActivo, "")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(cfg.Valor)
}

// Upsert handles PUT /api/graduaciones/{nombreColegio}: admin-only edit of
// the pipeline record at the active year. Missing records are created
// lazily, seeded from the school's most recent prior-year record.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !authz.IsAdmin(r) {
		httpjson.Forbidden(w, "solo administradores")
		return
	}

	nombreColegio := strings.TrimSpace(chi.URLParam(r, "nombreColegio"))
	if nombreColegio == "" {
		httpjson.BadRequest(w, "colegio no válido")
		return
	}

	anio, err := h.anioActivo(ctx)
	if err != nil {
		httpjson.BadRequest(w, "año activo no configurado")
		return
	}

	var p graduacionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}

	campos, err := h.camposDe(ctx, p)
	if err != nil {
		httpjson.BadRequest(w, "responsable no válido")
		return
	}

	antes, err := h.graduaciones.Get(ctx, nombreColegio, anio)
	if err != nil && err != mongo.ErrNoDocuments {
		h.log.Error("graduation lookup failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	existia := err == nil

	g, err := h.graduaciones.Upsert(ctx, nombreColegio, anio, campos)
	if err != nil {
		h.log.Error("graduation upsert failed",
			zap.String("colegio", nombreColegio), zap.Int("anio", anio), zap.Error(err))
		httpjson.Internal(w)
		return
	}

	actor := auditlog.Actor{ID: userID, Nombre: nombre}
	if existia {
		h.audit.Actualizado(ctx, r, actor, audit.EntidadGraduacion, g.ID,
			auditlog.Snapshot(antes), auditlog.Snapshot(g))
	} else {
		h.audit.Creado(ctx, r, actor, audit.EntidadGraduacion, g.ID, auditlog.Snapshot(g))
	}
	httpjson.OK(w, g)
}

// camposDe builds the store update from the payload, sanitizing free-text
// fields and resolving the responsible agent's display name.
func (h *Handler) camposDe(ctx context.Context, p graduacionPayload) (graduacionstore.Campos, error) {
	campos := graduacionstore.Campos{
		TipoProducto:    p.TipoProducto,
		Prevision:       p.Prevision,
		Estado:          p.Estado,
		FechaGraduacion: p.FechaGraduacion,
	}
	if p.Observaciones != nil {
		obs := h.sanitize.Sanitize(*p.Observaciones)
		campos.Observaciones = &obs
	}
	if p.ResponsableID != nil {
		if *p.ResponsableID == "" {
			campos.ResponsableID = &primitive.NilObjectID
			vacio := ""
			campos.ResponsableNombre = &vacio
			return campos, nil
		}
		id, err := primitive.ObjectIDFromHex(*p.ResponsableID)
		if err != nil {
			return graduacionstore.Campos{}, err
		}
		campos.ResponsableID = &id
		if u, err := h.usuarios.GetByID(ctx, id); err == nil {
			campos.ResponsableNombre = &u.Nombre
		}
	}
	return campos, nil
}
