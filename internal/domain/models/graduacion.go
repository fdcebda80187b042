package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Graduacion is a sales-pipeline record keyed by (school name, birth year).
// It is not derived from contact counts: it holds manually entered
// follow-up fields and persists whether or not contacts currently exist
// for its key. Unique index on (nombre_colegio_ci, anio_nacimiento).
//
// Records are created lazily the first time an admin edits pipeline fields
// for a new (school, year) pair; unset fields are seeded from the most
// recent prior-year record for the same school so switching the active
// year does not look like data loss.
type Graduacion struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NombreColegio   string             `bson:"nombre_colegio" json:"nombreColegio"`
	NombreColegioCI string             `bson:"nombre_colegio_ci" json:"-"`
	AnioNacimiento  int                `bson:"anio_nacimiento" json:"anioNacimiento"`

	ResponsableID     *primitive.ObjectID `bson:"responsable_id,omitempty" json:"responsableId,omitempty"`
	ResponsableNombre string              `bson:"responsable_nombre,omitempty" json:"responsableNombre,omitempty"`
	TipoProducto      string              `bson:"tipo_producto,omitempty" json:"tipoProducto,omitempty"`
	Prevision         string              `bson:"prevision,omitempty" json:"prevision,omitempty"`
	Estado            string              `bson:"estado,omitempty" json:"estado,omitempty"`
	Observaciones     string              `bson:"observaciones,omitempty" json:"observaciones,omitempty"`
	FechaGraduacion   string              `bson:"fecha_graduacion,omitempty" json:"fechaGraduacion,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
