// internal/app/features/graduaciones/sync.go
package graduaciones

import (
	"context"
	"net/http"

	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type syncResultado struct {
	Anio     int `json:"anio"`
	Creadas  int `json:"creadas"`
	Omitidas int `json:"omitidas"`
}

// Sync handles POST /api/graduaciones/sync: admin-only pass that ensures a
// pipeline record exists for every active school at the active year.
// Missing records are created with prior-year seeding; existing ones are
// left untouched.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !authz.IsAdmin(r) {
		httpjson.Forbidden(w, "solo administradores")
		return
	}

	anio, err := h.anioActivo(ctx)
	if err != nil {
		httpjson.BadRequest(w, "año activo no configurado")
		return
	}

	cols, err := h.colegios.ListActivos(ctx)
	if err != nil {
		h.log.Error("active school list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	res := syncResultado{Anio: anio}
	for _, c := range cols {
		existe, err := h.graduaciones.Existe(ctx, c.Nombre, anio)
		if err != nil {
			h.log.Error("graduation existence check failed",
				zap.String("colegio", c.Nombre), zap.Error(err))
			httpjson.Internal(w)
			return
		}
		if existe {
			res.Omitidas++
			continue
		}
		if _, err := h.graduaciones.Upsert(ctx, c.Nombre, anio, graduacionstore.Campos{}); err != nil {
			h.log.Error("graduation sync insert failed",
				zap.String("colegio", c.Nombre), zap.Int("anio", anio), zap.Error(err))
			httpjson.Internal(w)
			return
		}
		res.Creadas++
	}
	httpjson.OK(w, res)
}
