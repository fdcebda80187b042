// Package permits is the permission gate: a boolean check for "does user
// X hold permission K". Admins bypass every check here, in one place,
// instead of ad hoc at each call site. Any lookup error resolves to
// false: a broken gate denies access, it never leaks it.
package permits

import (
	"context"

	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Checker answers permission queries against the assignment table.
// No caching, no expiry: every check is a fresh query.
type Checker struct {
	store *permisostore.Store
	log   *zap.Logger
}

func NewChecker(store *permisostore.Store, logger *zap.Logger) *Checker {
	return &Checker{store: store, log: logger}
}

// Has reports whether the user holds the permission with key clave.
// The admin role passes unconditionally.
func (c *Checker) Has(ctx context.Context, userID primitive.ObjectID, rol, clave string) bool {
	if rol == models.RolAdmin {
		return true
	}
	ok, err := c.store.UsuarioTiene(ctx, userID, clave)
	if err != nil {
		c.log.Error("permission check failed",
			zap.String("usuario_id", userID.Hex()),
			zap.String("clave", clave),
			zap.Error(err))
		return false
	}
	return ok
}
