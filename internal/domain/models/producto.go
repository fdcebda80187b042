package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Producto is reference data: a product/course offering that graduation
// pipeline records point at via TipoProducto.
type Producto struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre string             `bson:"nombre" json:"nombre"`
	Tipo   string             `bson:"tipo,omitempty" json:"tipo,omitempty"`
	Activo bool               `bson:"activo" json:"activo"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
