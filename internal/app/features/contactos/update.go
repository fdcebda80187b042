// internal/app/features/contactos/update.go
package contactos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/inputval"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Update handles PUT /api/contactos/{id}. Out-of-scope contacts read as
// not found, the same as Get.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	_, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	scope, _, ok := h.scopeFor(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	antes, err := h.contactos.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "contacto no encontrado")
		return
	}
	if err != nil {
		h.log.Error("contact get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if !scope.Contains(antes.ComercialID) && !scope.Contains(antes.CreadoPor) {
		httpjson.NotFound(w, "contacto no encontrado")
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

	upd := antes
	upd.Nombre = p.Nombre
	upd.Telefono = p.Telefono
	upd.Instagram = p.Instagram
	upd.ColegioID = col.ID
	upd.NombreColegio = col.Nombre
	upd.AnioNacimiento = p.AnioNacimiento
	if p.ComercialID != "" {
		comID, err := primitive.ObjectIDFromHex(p.ComercialID)
		if err != nil {
			httpjson.BadRequest(w, "comercial no válido")
			return
		}
		upd.ComercialID = comID
	}

	if err := h.contactos.Update(ctx, id, upd); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "contacto no encontrado")
			return
		}
		h.log.Error("contact update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	despues, err := h.contactos.GetByID(ctx, id)
	if err != nil {
		h.log.Error("contact reload failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Actualizado(ctx, r, auditlog.Actor{ID: userID, Nombre: nombre},
		audit.EntidadContacto, id, auditlog.Snapshot(antes), auditlog.Snapshot(despues))
	httpjson.OK(w, despues)
}
