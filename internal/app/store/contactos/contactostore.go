// internal/app/store/contactos/contactostore.go
package contactostore

import (
	"context"
	"sort"
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
	return &Store{c: db.Collection("contactos")}
}

func (s *Store) Create(ctx context.Context, con models.Contacto) (models.Contacto, error) {
	now := time.Now().UTC()
	con.ID = primitive.NewObjectID()
	con.NombreCI = text.Fold(con.Nombre)
	if con.FechaAlta.IsZero() {
		con.FechaAlta = now
	}
	con.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, con); err != nil {
		return models.Contacto{}, err
	}
	return con, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Contacto, error) {
	var con models.Contacto
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&con); err != nil {
		return models.Contacto{}, err
	}
	return con, nil
}

// Find returns contacts matching the given filter, newest first. The
// caller builds the filter (typically via visibility.Scope.Filter).
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.Contacto, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_alta", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Contacto
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByComercial returns the contacts owned by one agent, newest first.
func (s *Store) ListByComercial(ctx context.Context, comercialID primitive.ObjectID) ([]models.Contacto, error) {
	return s.Find(ctx, bson.M{"comercial_id": comercialID})
}

// Update overwrites a contact's mutable fields. Empty optional channels
// (telefono/instagram) are unset rather than written as "", so the
// at-least-one-channel rule stays visible in the stored document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, con models.Contacto) error {
	set := bson.M{
		"nombre":          con.Nombre,
		"nombre_ci":       text.Fold(con.Nombre),
		"colegio_id":      con.ColegioID,
		"nombre_colegio":  con.NombreColegio,
		"anio_nacimiento": con.AnioNacimiento,
		"comercial_id":    con.ComercialID,
		"updated_at":      time.Now().UTC(),
	}
	unset := bson.M{}
	if con.Telefono != "" {
		set["telefono"] = con.Telefono
	} else {
		unset["telefono"] = ""
	}
	if con.Instagram != "" {
		set["instagram"] = con.Instagram
	} else {
		unset["instagram"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete hard-deletes a contact. Audit logging of the pre-delete snapshot
// is the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AniosDistintos returns the distinct birth years present, newest first.
func (s *Store) AniosDistintos(ctx context.Context) ([]int, error) {
	raw, err := s.c.Distinct(ctx, "anio_nacimiento", bson.M{})
	if err != nil {
		return nil, err
	}
	anios := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int32:
			anios = append(anios, int(n))
		case int64:
			anios = append(anios, int(n))
		case int:
			anios = append(anios, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(anios)))
	return anios, nil
}

// SinColegioID streams contacts that predate the referential school key
// (legacy free-text school name only). Used by the migration tool.
func (s *Store) SinColegioID(ctx context.Context) (*mongo.Cursor, error) {
	return s.c.Find(ctx, bson.M{"colegio_id": bson.M{"$in": bson.A{nil, primitive.NilObjectID}}})
}

// VincularColegio backfills the referential school key on one contact.
func (s *Store) VincularColegio(ctx context.Context, id, colegioID primitive.ObjectID, nombreColegio string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"colegio_id":     colegioID,
		"nombre_colegio": nombreColegio,
		"updated_at":     time.Now().UTC(),
	}})
	return err
}
