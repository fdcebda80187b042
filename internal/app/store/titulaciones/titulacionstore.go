// internal/app/store/titulaciones/titulacionstore.go
package titulacionstore

import (
	"context"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("titulaciones")}
}

func (s *Store) Create(ctx context.Context, t models.Titulacion) (models.Titulacion, error) {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Titulacion{}, err
	}
	return t, nil
}

// ListByColegio returns a school's titulaciones sorted by name.
func (s *Store) ListByColegio(ctx context.Context, colegioID primitive.ObjectID) ([]models.Titulacion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"colegio_id": colegioID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Titulacion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByColegio removes every titulacion owned by a school. Called when
// the school itself is deleted. Returns the number of documents removed.
func (s *Store) DeleteByColegio(ctx context.Context, colegioID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"colegio_id": colegioID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
