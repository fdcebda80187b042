package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission keys seeded by /api/configuracion/init-permissions.
// Each is an independent boolean per user; there is no inheritance.
const (
	PermisoEliminarContactos = "contactos.eliminar"
	PermisoGestionarColegios = "colegios.gestionar"
	PermisoEditarConfig      = "configuracion.editar"
	PermisoVerGraduaciones   = "graduaciones.ver"
)

// Permiso is an entry in the permission catalog.
type Permiso struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Clave       string             `bson:"clave" json:"clave"` // unique
	Descripcion string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// UsuarioPermiso assigns one permission to one user. Unique on
// (usuario_id, permiso_id).
type UsuarioPermiso struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UsuarioID primitive.ObjectID `bson:"usuario_id" json:"usuarioId"`
	PermisoID primitive.ObjectID `bson:"permiso_id" json:"permisoId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
