// internal/app/store/permisos/permisostore.go
package permisostore

import (
	"context"
	"time"

	"github.com/grupovertice/captacion/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the permission catalog (permisos) and the per-user
// assignment table (usuario_permisos).
type Store struct {
	catalogo     *mongo.Collection
	asignaciones *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		catalogo:     db.Collection("permisos"),
		asignaciones: db.Collection("usuario_permisos"),
	}
}

// SeedCatalogo inserts the known permission keys, skipping any that
// already exist. Idempotent; returns the number inserted.
func (s *Store) SeedCatalogo(ctx context.Context, permisos []models.Permiso) (int, error) {
	inserted := 0
	now := time.Now().UTC()
	for _, p := range permisos {
		p.ID = primitive.NewObjectID()
		p.CreatedAt = now
		if _, err := s.catalogo.InsertOne(ctx, p); err != nil {
			if wafflemongo.IsDup(err) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ListCatalogo returns the full permission catalog sorted by key.
func (s *Store) ListCatalogo(ctx context.Context) ([]models.Permiso, error) {
	opts := options.Find().SetSort(bson.D{{Key: "clave", Value: 1}})
	cur, err := s.catalogo.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Permiso
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByClave looks a permission up by its key.
func (s *Store) GetByClave(ctx context.Context, clave string) (models.Permiso, error) {
	var p models.Permiso
	if err := s.catalogo.FindOne(ctx, bson.M{"clave": clave}).Decode(&p); err != nil {
		return models.Permiso{}, err
	}
	return p, nil
}

// UsuarioTiene reports whether the user holds the permission with the
// given key: an existence query over the assignment table joined to the
// catalog by clave.
func (s *Store) UsuarioTiene(ctx context.Context, usuarioID primitive.ObjectID, clave string) (bool, error) {
	p, err := s.GetByClave(ctx, clave)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = s.asignaciones.FindOne(ctx, bson.M{
		"usuario_id": usuarioID,
		"permiso_id": p.ID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClavesDeUsuario returns the permission keys assigned to a user.
func (s *Store) ClavesDeUsuario(ctx context.Context, usuarioID primitive.ObjectID) ([]string, error) {
	cur, err := s.asignaciones.Find(ctx, bson.M{"usuario_id": usuarioID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var asigns []models.UsuarioPermiso
	if err := cur.All(ctx, &asigns); err != nil {
		return nil, err
	}
	if len(asigns) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(asigns))
	for _, a := range asigns {
		ids = append(ids, a.PermisoID)
	}
	pcur, err := s.catalogo.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer pcur.Close(ctx)
	var perms []models.Permiso
	if err := pcur.All(ctx, &perms); err != nil {
		return nil, err
	}
	claves := make([]string, 0, len(perms))
	for _, p := range perms {
		claves = append(claves, p.Clave)
	}
	return claves, nil
}

// Asignar grants a permission to a user. Granting an already-held
// permission is a no-op.
func (s *Store) Asignar(ctx context.Context, usuarioID, permisoID primitive.ObjectID) error {
	_, err := s.asignaciones.InsertOne(ctx, models.UsuarioPermiso{
		ID:        primitive.NewObjectID(),
		UsuarioID: usuarioID,
		PermisoID: permisoID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil && wafflemongo.IsDup(err) {
		return nil
	}
	return err
}

// ReemplazarAsignaciones replaces a user's full assignment set with the
// given permission IDs. Not transactional: callers accept the brief window
// where the old set is gone and the new one partially written.
func (s *Store) ReemplazarAsignaciones(ctx context.Context, usuarioID primitive.ObjectID, permisoIDs []primitive.ObjectID) error {
	if _, err := s.asignaciones.DeleteMany(ctx, bson.M{"usuario_id": usuarioID}); err != nil {
		return err
	}
	for _, pid := range permisoIDs {
		if err := s.Asignar(ctx, usuarioID, pid); err != nil {
			return err
		}
	}
	return nil
}
