// internal/app/features/contactos/create.go
package contactos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/inputval"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Create handles POST /api/contactos.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	var p contactoPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if err := inputval.Struct(p); err != nil {
		httpjson.BadRequest(w, inputval.Message(err))
		return
	}

	col, err := h.resolverColegio(ctx, p)
	if err == mongo.ErrNoDocuments {
		httpjson.BadRequest(w, "colegio desconocido")
		return
	}
	if err != nil {
		h.log.Error("school lookup failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	comID, err := comercialID(p, userID)
	if err != nil {
		httpjson.BadRequest(w, "comercial no válido")
		return
	}

	con, err := h.contactos.Create(ctx, models.Contacto{
		Nombre:         p.Nombre,
		Telefono:       p.Telefono,
		Instagram:      p.Instagram,
		ColegioID:      col.ID,
		NombreColegio:  col.Nombre,
		AnioNacimiento: p.AnioNacimiento,
		ComercialID:    comID,
		CreadoPor:      userID,
	})
	if err != nil {
		h.log.Error("contact create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Creado(ctx, r, auditlog.Actor{ID: userID, Nombre: nombre},
		audit.EntidadContacto, con.ID, auditlog.Snapshot(con))
	httpjson.Created(w, con)
}
