// Package productos serves the /api/productos reference-data endpoints.
// Writes are admin-only; every authenticated user can read the list.
package productos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	productostore "github.com/grupovertice/captacion/internal/app/store/productos"
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

type Handler struct {
	productos *productostore.Store
	audit     *auditlog.Logger
	log       *zap.Logger
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{productos: productostore.New(db), audit: auditLog, log: logger}
}

// Routes returns the subrouter mounted under /api/productos.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

type productoPayload struct {
	Nombre string `json:"nombre" validate:"required"`
	Tipo   string `json:"tipo"`
	Activo *bool  `json:"activo"`
}

// admin resolves the caller and requires the admin role for writes.
func admin(r *http.Request) (auditlog.Actor, bool, bool) {
	rol, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		return auditlog.Actor{}, false, false
	}
	return auditlog.Actor{ID: userID, Nombre: nombre}, rol == models.RolAdmin, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}
	prods, err := h.productos.List(ctx)
	if err != nil {
		h.log.Error("product list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if prods == nil {
		prods = []models.Producto{}
	}
	httpjson.OK(w, prods)
}

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

	var p productoPayload
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
	prod, err := h.productos.Create(ctx, models.Producto{
		Nombre: p.Nombre,
		Tipo:   p.Tipo,
		Activo: activo,
	})
	if err != nil {
		h.log.Error("product create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	h.audit.Creado(ctx, r, actor, audit.EntidadProducto, prod.ID, auditlog.Snapshot(prod))
	httpjson.Created(w, prod)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "identificador no válido")
		return
	}

	var p productoPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if err := inputval.Struct(p); err != nil {
		httpjson.BadRequest(w, inputval.Message(err))
		return
	}

	antes, err := h.productos.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "producto no encontrado")
		return
	}
	if err != nil {
		h.log.Error("product get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	upd := antes
	upd.Nombre = p.Nombre
	upd.Tipo = p.Tipo
	if p.Activo != nil {
		upd.Activo = *p.Activo
	}
	if err := h.productos.Update(ctx, id, upd); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "producto no encontrado")
			return
		}
		h.log.Error("product update failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	despues, err := h.productos.GetByID(ctx, id)
	if err != nil {
		h.log.Error("product reload failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	h.audit.Actualizado(ctx, r, actor, audit.EntidadProducto, id,
		auditlog.Snapshot(antes), auditlog.Snapshot(despues))
	httpjson.OK(w, despues)
}

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

	antes, err := h.productos.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "producto no encontrado")
		return
	}
	if err != nil {
		h.log.Error("product get failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	n, err := h.productos.Delete(ctx, id)
	if err != nil {
		h.log.Error("product delete failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "producto no encontrado")
		return
	}
	h.audit.Eliminado(ctx, r, actor, audit.EntidadProducto, id, auditlog.Snapshot(antes))
	httpjson.Message(w, "producto eliminado")
}
