// internal/app/store/jerarquia/jerarquiastore.go
package jerarquiastore

import (
	"context"
	"errors"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEdge = errors.New("this manager/subordinate pair already exists")
	ErrSelfEdge      = errors.New("a user cannot manage themselves")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("jerarquia")}
}

func (s *Store) Create(ctx context.Context, j models.Jerarquia) (models.Jerarquia, error) {
	if j.JefeID == j.SubordinadoID {
		return models.Jerarquia{}, ErrSelfEdge
	}
	j.ID = primitive.NewObjectID()
	j.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, j); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Jerarquia{}, ErrDuplicateEdge
		}
		return models.Jerarquia{}, err
	}
	return j, nil
}

func (s *Store) List(ctx context.Context) ([]models.Jerarquia, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Jerarquia
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubordinadosDe returns the direct subordinates of every manager in
// jefes. One query per closure level, not per node.
func (s *Store) SubordinadosDe(ctx context.Context, jefes []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(jefes) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"jefe_id": bson.M{"$in": jefes}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var edges []models.Jerarquia
	if err := cur.All(ctx, &edges); err != nil {
		return nil, err
	}
	subs := make([]primitive.ObjectID, 0, len(edges))
	for _, e := range edges {
		subs = append(subs, e.SubordinadoID)
	}
	return subs, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
