// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grupovertice/captacion/internal/app/system/auth"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly instead of
// through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithUser injects an authenticated user into the request context,
// bypassing bearer-token verification.
func WithUser(r *http.Request, u models.Usuario) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:     u.ID.Hex(),
		Nombre: u.Nombre,
		Email:  u.Email,
		Rol:    u.Rol,
	})
}

// AdminUser returns an in-memory admin user (not persisted).
func AdminUser() models.Usuario {
	return models.Usuario{
		ID:     primitive.NewObjectID(),
		Nombre: "Admin Test",
		Email:  "admin@test.com",
		Rol:    models.RolAdmin,
		Activo: true,
	}
}

// ComercialUser returns an in-memory commercial agent (not persisted).
func ComercialUser() models.Usuario {
	return models.Usuario{
		ID:     primitive.NewObjectID(),
		Nombre: "Comercial Test",
		Email:  "comercial@test.com",
		Rol:    models.RolComercial,
		Activo: true,
	}
}
