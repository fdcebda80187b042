package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known configuration keys.
const (
	ClaveMostrarContactos = "mostrar_contactos_comerciales" // "true"/"false"
	ClaveAnioActivo       = "anio_activo"                   // birth year selected by the admin
)

// Configuracion is one entry of the system-wide key/value store. It lives
// in the database rather than process memory so every server instance sees
// the same value. Version increments on every write, which lets callers
// detect that a read reflects a given write without any in-memory
// coordination.
type Configuracion struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Clave   string             `bson:"clave" json:"clave"` // unique
	Valor   string             `bson:"valor" json:"valor"`
	Version int64              `bson:"version" json:"version"`

	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
}

// Bool interprets the stored value as a boolean toggle.
func (c *Configuracion) Bool() bool { return c.Valor == "true" }
