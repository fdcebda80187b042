// internal/app/store/graduaciones/graduacionstore.go
package graduacionstore

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
	return &Store{c: db.Collection("graduaciones")}
}

// Get returns the record for an exact (school, year) key.
func (s *Store) Get(ctx context.Context, nombreColegio string, anio int) (models.Graduacion, error) {
	var g models.Graduacion
	err := s.c.FindOne(ctx, bson.M{
		"nombre_colegio_ci": text.Fold(nombreColegio),
		"anio_nacimiento":   anio,
	}).Decode(&g)
	if err != nil {
		return models.Graduacion{}, err
	}
	return g, nil
}

// UltimaAnterior returns the most recent record for a school with a year
// strictly before anio. Used to seed new records so pipeline fields carry
// over when the admin switches the active year.
func (s *Store) UltimaAnterior(ctx context.Context, nombreColegio string, anio int) (models.Graduacion, error) {
	var g models.Graduacion
	opts := options.FindOne().SetSort(bson.D{{Key: "anio_nacimiento", Value: -1}})
	err := s.c.FindOne(ctx, bson.M{
		"nombre_colegio_ci": text.Fold(nombreColegio),
		"anio_nacimiento":   bson.M{"$lt": anio},
	}, opts).Decode(&g)
	if err != nil {
		return models.Graduacion{}, err
	}
	return g, nil
}

// ListByColegios loads every graduation record whose folded school name is
// in the given set, without filtering by year. The aggregator picks the
// exact-year match per school, falling back to the newest record, so
// edited pipeline fields stay visible across year switches.
func (s *Store) ListByColegios(ctx context.Context, nombresCI []string) ([]models.Graduacion, error) {
	if len(nombresCI) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "nombre_colegio_ci", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{"nombre_colegio_ci": bson.M{"$in": nombresCI}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Graduacion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Campos holds the editable pipeline fields of an update request. Nil
// pointers mean "not supplied": the stored (or seeded) value is kept.
type Campos struct {
	ResponsableID     *primitive.ObjectID
	ResponsableNombre *string
	TipoProducto      *string
	Prevision         *string
	Estado            *string
	Observaciones     *string
	FechaGraduacion   *string
}

// Upsert writes pipeline fields for (school, year). If no record exists
// one is created, initialized from the latest prior-year record for the
// school, then the supplied fields overwrite. Returns the stored record.
func (s *Store) Upsert(ctx context.Context, nombreColegio string, anio int, campos Campos) (models.Graduacion, error) {
	now := time.Now().UTC()

	g, err := s.Get(ctx, nombreColegio, anio)
	switch {
	case err == mongo.ErrNoDocuments:
		g = models.Graduacion{
			ID:              primitive.NewObjectID(),
			NombreColegio:   nombreColegio,
			NombreColegioCI: text.Fold(nombreColegio),
			AnioNacimiento:  anio,
			CreatedAt:       now,
		}
		if prev, prevErr := s.UltimaAnterior(ctx, nombreColegio, anio); prevErr == nil {
			g.ResponsableID = prev.ResponsableID
			g.ResponsableNombre = prev.ResponsableNombre
			g.TipoProducto = prev.TipoProducto
			g.Prevision = prev.Prevision
			g.Estado = prev.Estado
			g.Observaciones = prev.Observaciones
			g.FechaGraduacion = prev.FechaGraduacion
		} else if prevErr != mongo.ErrNoDocuments {
			return models.Graduacion{}, prevErr
		}
	case err != nil:
		return models.Graduacion{}, err
	}

	if campos.ResponsableID != nil {
		g.ResponsableID = campos.ResponsableID
	}
	if campos.ResponsableNombre != nil {
		g.ResponsableNombre = *campos.ResponsableNombre
	}
	if campos.TipoProducto != nil {
		g.TipoProducto = *campos.TipoProducto
	}
	if campos.Prevision != nil {
		g.Prevision = *campos.Prevision
	}
	if campos.Estado != nil {
		g.Estado = *campos.Estado
	}
	if campos.Observaciones != nil {
		g.Observaciones = *campos.Observaciones
	}
	if campos.FechaGraduacion != nil {
		g.FechaGraduacion = *campos.FechaGraduacion
	}
	g.UpdatedAt = now

	filter := bson.M{
		"nombre_colegio_ci": g.NombreColegioCI,
		"anio_nacimiento":   anio,
	}
	update := bson.M{
		"$set": bson.M{
			"nombre_colegio":     g.NombreColegio,
			"nombre_colegio_ci":  g.NombreColegioCI,
			"anio_nacimiento":    g.AnioNacimiento,
			"responsable_id":     g.ResponsableID,
			"responsable_nombre": g.ResponsableNombre,
			"tipo_producto":      g.TipoProducto,
			"prevision":          g.Prevision,
			"estado":             g.Estado,
			"observaciones":      g.Observaciones,
			"fecha_graduacion":   g.FechaGraduacion,
			"updated_at":         g.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        g.ID,
			"created_at": g.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, filter, update, opts); err != nil {
		return models.Graduacion{}, err
	}
	return s.Get(ctx, nombreColegio, anio)
}

// Existe reports whether a record exists for the exact (school, year) key.
func (s *Store) Existe(ctx context.Context, nombreColegio string, anio int) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"nombre_colegio_ci": text.Fold(nombreColegio),
		"anio_nacimiento":   anio,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
