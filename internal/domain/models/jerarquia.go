package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Jerarquia is one directed "manages" edge between commercial agents.
// The transitive closure of these edges (jefe -> subordinado) determines
// which agents' contacts a manager can see. Unique on
// (jefe_id, subordinado_id); self-edges are rejected at the API layer.
type Jerarquia struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JefeID        primitive.ObjectID `bson:"jefe_id" json:"jefeId"`
	SubordinadoID primitive.ObjectID `bson:"subordinado_id" json:"subordinadoId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
