// internal/app/store/configuracion/configstore.go
package configstore

import (
	"context"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the configuracion collection: a versioned
// key/value store shared by every server instance. Reads go to the
// primary, so a caller that observes version N is guaranteed to see the
// value written with it.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("configuracion")}
}

// Get returns the entry for a key, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, clave string) (models.Configuracion, error) {
	var cfg models.Configuracion
	if err := s.c.FindOne(ctx, bson.M{"clave": clave}).Decode(&cfg); err != nil {
		return models.Configuracion{}, err
	}
	return cfg, nil
}

// GetOrDefault returns the entry for a key, or a zero-version entry
// carrying the given default value when none is stored.
func (s *Store) GetOrDefault(ctx context.Context, clave, def string) (models.Configuracion, error) {
	cfg, err := s.Get(ctx, clave)
	if err == mongo.ErrNoDocuments {
		return models.Configuracion{Clave: clave, Valor: def}, nil
	}
	if err != nil {
		return models.Configuracion{}, err
	}
	return cfg, nil
}

// Set upserts a key and bumps its version counter. Returns the stored
// entry, including the new version.
func (s *Store) Set(ctx context.Context, clave, valor string, updatedBy *primitive.ObjectID) (models.Configuracion, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"valor":      valor,
			"updated_at": now,
			"updated_by": updatedBy,
		},
		"$inc": bson.M{"version": int64(1)},
		"$setOnInsert": bson.M{
			"_id":   primitive.NewObjectID(),
			"clave": clave,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var cfg models.Configuracion
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"clave": clave}, update, opts).Decode(&cfg); err != nil {
		return models.Configuracion{}, err
	}
	return cfg, nil
}
