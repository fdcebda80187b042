package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School regimen values.
const (
	RegimenPublico    = "publico"
	RegimenPrivado    = "privado"
	RegimenConcertado = "concertado"
)

// Colegio is a school (the original system used "colegio" and
// "universidad" interchangeably; both API mounts serve this entity).
// Nombre is a natural key: nombre_ci carries a unique index.
type Colegio struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Codigo   string             `bson:"codigo" json:"codigo"` // generated, stable
	Nombre   string             `bson:"nombre" json:"nombre"`
	NombreCI string             `bson:"nombre_ci" json:"-"` // lowercase, diacritics-stripped
	Regimen  string             `bson:"regimen,omitempty" json:"regimen,omitempty"`
	Ciudad   string             `bson:"ciudad,omitempty" json:"ciudad,omitempty"`
	Activo   bool               `bson:"activo" json:"activo"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Titulacion is a degree/program offered by a school. Titulaciones are
// owned by their colegio and are cascade-deleted with it.
type Titulacion struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ColegioID primitive.ObjectID `bson:"colegio_id" json:"colegioId"`
	Nombre    string             `bson:"nombre" json:"nombre"`
	Nivel     string             `bson:"nivel,omitempty" json:"nivel,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
