// internal/app/features/contactos/delete.go
package contactos

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Delete handles DELETE /api/contactos/{id}. Admins may always delete;
// anyone else needs the contactos.eliminar permit, and only for contacts
// inside their scope. One audit entry is written per successful delete,
// carrying the pre-delete snapshot.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	rol, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !h.permits.Has(ctx, userID, rol, models.PermisoEliminarContactos) {
		httpjson.Forbidden(w, "no tienes permiso para eliminar contactos")
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

	n, err := h.contactos.Delete(ctx, id)
	if err != nil {
		h.log.Error("contact delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "contacto no encontrado")
		return
	}

	h.audit.Eliminado(ctx, r, auditlog.Actor{ID: userID, Nombre: nombre},
		audit.EntidadContacto, id, auditlog.Snapshot(antes))
	httpjson.Message(w, "contacto eliminado")
}
