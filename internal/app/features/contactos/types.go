// internal/app/features/contactos/types.go
package contactos

import (
	"context"
	"strings"

	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// contactoPayload is the request body for create, update, and import.
// Either colegioId or nombreColegio identifies the school; when only the
// name is supplied it is resolved against the colegios collection by
// folded name.
type contactoPayload struct {
	Nombre         string `json:"nombre" validate:"required"`
	Telefono       string `json:"telefono" validate:"required_without=Instagram"`
	Instagram      string `json:"instagram" validate:"required_without=Telefono"`
	ColegioID      string `json:"colegioId"`
	NombreColegio  string `json:"nombreColegio"`
	AnioNacimiento int    `json:"anioNacimiento" validate:"required,gte=1950,lte=2100"`
	ComercialID    string `json:"comercialId"`
}

// resolverColegio turns the payload's school reference into a Colegio.
// mongo.ErrNoDocuments means the school is unknown (a 400 for the caller:
// schools are reference data managed separately).
func (h *Handler) resolverColegio(ctx context.Context, p contactoPayload) (models.Colegio, error) {
	if p.ColegioID != "" {
		id, err := primitive.ObjectIDFromHex(p.ColegioID)
		if err != nil {
			return models.Colegio{}, mongo.ErrNoDocuments
		}
		return h.colegios.GetByID(ctx, id)
	}
	nombre := strings.TrimSpace(p.NombreColegio)
	if nombre == "" {
		return models.Colegio{}, mongo.ErrNoDocuments
	}
	return h.colegios.GetByNombreCI(ctx, text.Fold(nombre))
}

// comercialID resolves the owning agent for a write: an explicit
// comercialId in the payload (admins assigning), else the caller.
func comercialID(p contactoPayload, caller primitive.ObjectID) (primitive.ObjectID, error) {
	if p.ComercialID == "" {
		return caller, nil
	}
	return primitive.ObjectIDFromHex(p.ComercialID)
}
