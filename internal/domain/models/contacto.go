package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contacto is a prospective student captured by a commercial agent.
//
// The school is stored twice: ColegioID is the referential key used by
// queries and aggregation, NombreColegio is a denormalized display copy
// kept in sync on every write so listings never need a join.
//
// At least one of Telefono/Instagram must be present. That rule lives in
// the API validation layer, not in the collection schema, so legacy rows
// imported from older systems remain readable.
type Contacto struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre   string             `bson:"nombre" json:"nombre"`
	NombreCI string             `bson:"nombre_ci" json:"-"` // lowercase, diacritics-stripped

	Telefono  string `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`

	ColegioID      primitive.ObjectID `bson:"colegio_id" json:"colegioId"`
	NombreColegio  string             `bson:"nombre_colegio" json:"nombreColegio"`
	AnioNacimiento int                `bson:"anio_nacimiento" json:"anioNacimiento"`

	ComercialID primitive.ObjectID `bson:"comercial_id" json:"comercialId"`
	CreadoPor   primitive.ObjectID `bson:"creado_por" json:"creadoPor"`

	FechaAlta time.Time `bson:"fecha_alta" json:"fechaAlta"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
