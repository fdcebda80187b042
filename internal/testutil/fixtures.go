// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUsuario inserts a user with the given name and role.
func (f *Fixtures) CreateUsuario(ctx context.Context, nombre, rol string) models.Usuario {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.Usuario{
		ID:        primitive.NewObjectID(),
		Nombre:    nombre,
		NombreCI:  text.Fold(nombre),
		Email:     text.Fold(nombre) + "@test.com",
		Rol:       rol,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("usuarios").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateColegio inserts an active school with the given name.
func (f *Fixtures) CreateColegio(ctx context.Context, nombre string) models.Colegio {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Colegio{
		ID:        primitive.NewObjectID(),
		Codigo:    "COL-TEST",
		Nombre:    nombre,
		NombreCI:  text.Fold(nombre),
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("colegios").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test school: %v", err)
	}
	return c
}

// CreateContacto inserts a contact tied to a school and an owning agent.
func (f *Fixtures) CreateContacto(ctx context.Context, nombre string, col models.Colegio, anio int, comercialID primitive.ObjectID) models.Contacto {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contacto{
		ID:             primitive.NewObjectID(),
		Nombre:         nombre,
		NombreCI:       text.Fold(nombre),
		Telefono:       "600000000",
		ColegioID:      col.ID,
		NombreColegio:  col.Nombre,
		AnioNacimiento: anio,
		ComercialID:    comercialID,
		CreadoPor:      comercialID,
		FechaAlta:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("contactos").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contact: %v", err)
	}
	return c
}

// CreateJerarquia inserts one jefe -> subordinado edge.
func (f *Fixtures) CreateJerarquia(ctx context.Context, jefeID, subID primitive.ObjectID) models.Jerarquia {
	f.t.Helper()

	j := models.Jerarquia{
		ID:            primitive.NewObjectID(),
		JefeID:        jefeID,
		SubordinadoID: subID,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("jerarquia").InsertOne(ctx, j); err != nil {
		f.t.Fatalf("failed to create test hierarchy edge: %v", err)
	}
	return j
}

// GrantPermiso seeds a catalog entry for clave (if needed) and assigns it
// to the user.
func (f *Fixtures) GrantPermiso(ctx context.Context, usuarioID primitive.ObjectID, clave string) {
	f.t.Helper()

	perm := models.Permiso{
		ID:        primitive.NewObjectID(),
		Clave:     clave,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("permisos").InsertOne(ctx, perm); err != nil {
		f.t.Fatalf("failed to seed test permission: %v", err)
	}
	asig := models.UsuarioPermiso{
		ID:        primitive.NewObjectID(),
		UsuarioID: usuarioID,
		PermisoID: perm.ID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("usuario_permisos").InsertOne(ctx, asig); err != nil {
		f.t.Fatalf("failed to assign test permission: %v", err)
	}
}
