// internal/app/store/usuarios/usuariostore.go
package usuariostore

import (
	"context"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("usuarios")}
}

func (s *Store) Create(ctx context.Context, u models.Usuario) (models.Usuario, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.NombreCI = text.Fold(u.Nombre)
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.Usuario{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Usuario, error) {
	var u models.Usuario
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.Usuario{}, err
	}
	return u, nil
}

// ListComerciales returns active commercial agents sorted by folded name.
func (s *Store) ListComerciales(ctx context.Context) ([]models.Usuario, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"rol": models.RolComercial, "activo": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Usuario
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
