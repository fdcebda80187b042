// internal/app/store/colegios/colegiostore.go
package colegiostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateColegio = errors.New("a school with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("colegios")}
}

// NuevoCodigo generates a stable short school code (COL-xxxxxxxx).
func NuevoCodigo() string {
	return "COL-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Store) Create(ctx context.Context, col models.Colegio) (models.Colegio, error) {
	now := time.Now().UTC()
	col.ID = primitive.NewObjectID()
	col.NombreCI = text.Fold(col.Nombre)
	if col.Codigo == "" {
		col.Codigo = NuevoCodigo()
	}
	col.CreatedAt = now
	col.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, col); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Colegio{}, ErrDuplicateColegio
		}
		return models.Colegio{}, err
	}
	return col, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Colegio, error) {
	var col models.Colegio
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&col); err != nil {
		return models.Colegio{}, err
	}
	return col, nil
}

// GetByNombreCI looks a school up by its folded name.
func (s *Store) GetByNombreCI(ctx context.Context, nombreCI string) (models.Colegio, error) {
	var col models.Colegio
	if err := s.c.FindOne(ctx, bson.M{"nombre_ci": nombreCI}).Decode(&col); err != nil {
		return models.Colegio{}, err
	}
	return col, nil
}

// ListActivos returns all active schools sorted by folded name.
func (s *Store) ListActivos(ctx context.Context) ([]models.Colegio, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"activo": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var cols []models.Colegio
	if err := cur.All(ctx, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// List returns all schools, active or not, sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Colegio, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var cols []models.Colegio
	if err := cur.All(ctx, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// Update modifies a school's mutable fields and refreshes UpdatedAt.
// Only non-zero fields overwrite; the Activo flag is handled separately
// via SetActivo so a false value is not mistaken for "unset".
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, col models.Colegio) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if col.Nombre != "" {
		set["nombre"] = col.Nombre
		set["nombre_ci"] = text.Fold(col.Nombre)
	}
	if col.Regimen != "" {
		set["regimen"] = col.Regimen
	}
	if col.Ciudad != "" {
		set["ciudad"] = col.Ciudad
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateColegio
	}
	return err
}

// SetActivo flips the soft-delete flag.
func (s *Store) SetActivo(ctx context.Context, id primitive.ObjectID, activo bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"activo":     activo,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a school by ID. Returns the number of documents deleted
// (0 or 1). Cascading titulacion cleanup is the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
