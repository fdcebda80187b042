// internal/app/features/contactos/list.go
package contactos

import (
	"context"
	"net/http"

	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/app/system/visibility"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// scopeFor resolves the caller's visibility scope. Admins get the
// unfiltered scope; everyone else gets their jerarquia closure.
func (h *Handler) scopeFor(ctx context.Context, r *http.Request) (visibility.Scope, primitive.ObjectID, bool) {
	rol, _, userID, ok := authz.UserCtx(r)
	if !ok {
		return visibility.Scope{}, primitive.NilObjectID, false
	}
	if rol == models.RolAdmin {
		return visibility.AdminScope(), userID, true
	}
	return h.vis.ScopeFor(ctx, userID), userID, true
}

// List handles GET /api/contactos: every contact visible to the caller,
// newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	scope, _, ok := h.scopeFor(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	cons, err := h.contactos.Find(ctx, scope.Filter())
	if err != nil {
		h.log.Error("contact list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if cons == nil {
		cons = []models.Contacto{}
	}
	httpjson.OK(w, cons)
}

// Get handles GET /api/contactos/{id}. Contacts outside the caller's
// scope are reported as not found rather than forbidden, so the endpoint
// does not confirm their existence.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	scope, _, ok := h.scopeFor(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	con, err := h.contactos.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "contacto no encontrado")
		return
	}
	if err != nil {
		h.log.Error("contact get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if !scope.Contains(con.ComercialID) && !scope.Contains(con.CreadoPor) {
		httpjson.NotFound(w, "contacto no encontrado")
		return
	}
	httpjson.OK(w, con)
}

// ListByComercial handles GET /api/contactos/comercial/{id}: one agent's
// contacts, visible to admins and to callers whose scope includes the
// agent (themselves or a manager up the jerarquia).
func (h *Handler) ListByComercial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	agentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	scope, _, ok := h.scopeFor(ctx, r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !scope.Contains(agentID) {
		httpjson.Forbidden(w, "")
		return
	}

	cons, err := h.contactos.ListByComercial(ctx, agentID)
	if err != nil {
		h.log.Error("contact list by agent failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if cons == nil {
		cons = []models.Contacto{}
	}
	httpjson.OK(w, cons)
}
