// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/grupovertice/captacion/internal/app/system/auth"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and
// a found flag. If no user is present in context or the user ID is
// malformed it returns "", "", NilObjectID, false, so ok=true always means
// a valid authenticated user with a valid ObjectID. Fail closed.
func UserCtx(r *http.Request) (rol string, nombre string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed subject claim. Should not happen with a well-behaved
		// issuer; treat as unauthenticated.
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Rol), user.Nombre, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	rol, _, _, ok := UserCtx(r)
	return ok && rol == models.RolAdmin
}
