// Package usuarios serves the user listings the assignment UIs need. User
// lifecycle (creation, credentials) lives in the identity service.
package usuarios

import (
	"context"
	"net/http"

	usuariostore "github.com/grupovertice/captacion/internal/app/store/usuarios"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	usuarios *usuariostore.Store
	log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{usuarios: usuariostore.New(db), log: logger}
}

// Routes returns the subrouter mounted under /api/usuarios.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/comerciales", h.Comerciales)
	return r
}

// Comerciales handles GET /comerciales: active commercial agents, name
// order, for assignment dropdowns.
func (h *Handler) Comerciales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Unauthorized(w)
		return
	}

	users, err := h.usuarios.ListComerciales(ctx)
	if err != nil {
		h.log.Error("agent list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}
	if users == nil {
		users = []models.Usuario{}
	}
	httpjson.OK(w, users)
}
