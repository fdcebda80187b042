package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. There is no role inheritance: admins bypass permission
// checks, comerciales are subject to the permission and visibility layers.
const (
	RolAdmin     = "admin"
	RolComercial = "comercial"
)

// Usuario represents an application user: an administrator or a commercial
// agent. Credentials and token issuance live in an external identity
// service; this backend only stores the profile needed for assignment,
// visibility, and display.
type Usuario struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre   string             `bson:"nombre" json:"nombre"`
	NombreCI string             `bson:"nombre_ci" json:"-"` // lowercase, diacritics-stripped
	Email    string             `bson:"email" json:"email"`
	Rol      string             `bson:"rol" json:"rol"` // admin | comercial
	Activo   bool               `bson:"activo" json:"activo"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
