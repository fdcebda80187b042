// Package jerarquia serves the management-edge endpoints. Edges are
// admin-only: they define which agents' contacts a manager can see, so
// changing them is an access-control operation.
package jerarquia

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	jerarquiastore "github.com/grupovertice/captacion/internal/app/store/jerarquia"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	jerarquia *jerarquiastore.Store
	audit     *auditlog.Logger
	log       *zap.Logger
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{jerarquia: jerarquiastore.New(db), audit: auditLog, log: logger}
}

// Routes returns the subrouter mounted under /api/jerarquia.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
	return r
}

// admin resolves the caller and requires the admin role.
func admin(r *http.Request) (auditlog.Actor, bool, bool) {
	rol, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}, false, false
	}
	return auditlog.Actor{ID: userID, Nombre: nombre}, rol == models.RolAdmin, true
}

// List handles GET /: every management edge.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, esAdmin, ok := admin(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !esAdmin {
		httpjson.Forbidden(w, "solo administradores")
		return
	}

	edges, err := h.jerarquia.List(ctx)
	if err != nil {
		h.log.Error("hierarchy list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if edges == nil {
		edges = []models.Jerarquia{}
	}
	httpjson.OK(w, edges)
}

type edgePayload struct {
	JefeID        string `json:"jefeId"`
	SubordinadoID string `json:"subordinadoId"`
}

// Create handles POST /. Self-edges and duplicates are rejected with 400.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, esAdmin, ok := admin(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !esAdmin {
		httpjson.Forbidden(w, "solo administradores")
		return
	}

	var p edgePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	jefeID, err := primitive.ObjectIDFromHex(p.JefeID)
	if err != nil {
		httpjson.BadRequest(w, "jefe no válido")
		return
	}
	subID, err := primitive.ObjectIDFromHex(p.SubordinadoID)
	if err != nil {
		httpjson.BadRequest(w, "subordinado no válido")
		return
	}

	edge, err := h.jerarquia.Create(ctx, models.Jerarquia{JefeID: jefeID, SubordinadoID: subID})
	if err == jerarquiastore.ErrSelfEdge {
		httpjson.BadRequest(w, "un comercial no puede ser su propio jefe")
		return
	}
	if err == jerarquiastore.ErrDuplicateEdge {
		httpjson.BadRequest(w, "la relación ya existe")
		return
	}
	if err != nil {
		h.log.Error("hierarchy create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	h.audit.Creado(ctx, r, actor, audit.EntidadJerarquia, edge.ID, auditlog.Snapshot(edge))
	httpjson.Created(w, edge)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actor, esAdmin, ok := admin(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	if !esAdmin {
		httpjson.Forbidden(w, "solo administradores")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	n, err := h.jerarquia.Delete(ctx, id)
	if err != nil {
		h.log.Error("hierarchy delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "relación no encontrada")
		return
	}

	h.audit.Eliminado(ctx, r, actor, audit.EntidadJerarquia, id, nil)
	httpjson.Message(w, "relación eliminada")
}
