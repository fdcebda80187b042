// internal/app/features/graduaciones/resumen.go
package graduaciones

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/queries/graduacionqueries"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.uber.org/zap"
)

// Anios handles GET /api/graduaciones/anios: the distinct birth years
// present in the contacts collection, newest first.
func (h *Handler) Anios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}

	anios, err := h.contactos.AniosDistintos(ctx)
	if err != nil {
		h.log.Error("distinct years query failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if anios == nil {
		anios = []int{}
	}
	httpjson.OK(w, anios)
}

// Resumen handles GET /api/graduaciones/colegios/{anio}: one row per
// active school for the given birth year. Non-admin callers need the
// graduaciones.ver permit, and their rows arrive without the embedded
// contact lists when the mostrar_contactos_comerciales toggle is off.
func (h *Handler) Resumen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	anio, err := strconv.Atoi(chi.URLParam(r, "anio"))
	if err != nil {
		httpjson.BadRequest(w, "año no válido")
		return
	}

	rol, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !h.permits.Has(ctx, userID, rol, models.PermisoVerGraduaciones) {
		httpjson.Forbidden(w, "no tienes permiso para ver graduaciones")
		return
	}

	filas, err := graduacionqueries.ResumenPorAnio(ctx, h.db, anio)
	if err != nil {
		h.log.Error("graduation summary failed", zap.Int("anio", anio), zap.Error(err))
		httpjson.Internal(w)
		return
	}

	if !authz.IsAdmin(r) {
		cfg, err := h.config.GetOrDefault(ctx, models.ClaveMostrarContactos, "true")
		if err != nil {
			h.log.Error("config read failed", zap.String("clave", models.ClaveMostrarContactos), zap.Error(err))
			httpjson.Internal(w)
			return
		}
		if !cfg.Bool() {
			graduacionqueries.OcultarContactos(filas)
		}
	}
	httpjson.OK(w, filas)
}
