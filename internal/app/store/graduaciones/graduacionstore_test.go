package graduacionstore_test

import (
	"testing"

	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	"github.com/grupovertice/captacion/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func strPtr(s string) *string { return &s }

func TestUpsert_CreatesAndUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := graduacionstore.New(db)
	ctx := testutil.TestContext(t)

	g, err := store.Upsert(ctx, "Colegio San José", 2007, graduacionstore.Campos{
		Estado:    strPtr("contactado"),
		Prevision: strPtr("alta"),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if g.Estado != "contactado" || g.Prevision != "alta" {
		t.Errorf("fields not stored: %+v", g)
	}
	if g.AnioNacimiento != 2007 {
		t.Errorf("anio = %d, want 2007", g.AnioNacimiento)
	}

	// A second write with one field keeps the rest.
	g, err = store.Upsert(ctx, "Colegio San José", 2007, graduacionstore.Campos{
		Estado: strPtr("reunion"),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if g.Estado != "reunion" {
		t.Errorf("estado = %q, want reunion", g.Estado)
	}
	if g.Prevision != "alta" {
		t.Errorf("prevision lost on partial update: %q", g.Prevision)
	}
}

func TestUpsert_SeedsFromPriorYear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := graduacionstore.New(db)
	ctx := testutil.TestContext(t)

	_, err := store.Upsert(ctx, "IES Goya", 2006, graduacionstore.Campos{
		TipoProducto:  strPtr("grado"),
		Observaciones: strPtr("llamar en mayo"),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// First write at the new year carries the 2006 fields over.
	g, err := store.Upsert(ctx, "IES Goya", 2007, graduacionstore.Campos{
		Estado: strPtr("pendiente"),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if g.TipoProducto != "grado" {
		t.Errorf("tipo producto not seeded: %q", g.TipoProducto)
	}
	if g.Observaciones != "llamar en mayo" {
		t.Errorf("observaciones not seeded: %q", g.Observaciones)
	}
	if g.Estado != "pendiente" {
		t.Errorf("supplied field not applied: %q", g.Estado)
	}

	// The prior year's record is untouched.
	prev, err := store.Get(ctx, "IES Goya", 2006)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if prev.Estado != "" {
		t.Errorf("prior year mutated: %+v", prev)
	}
}

func TestGet_MatchesFoldedName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := graduacionstore.New(db)
	ctx := testutil.TestContext(t)

	if _, err := store.Upsert(ctx, "Colegio Alemán", 2007, graduacionstore.Campos{}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Accents and case do not matter for the key.
	g, err := store.Get(ctx, "colegio aleman", 2007)
	if err != nil {
		t.Fatalf("folded lookup failed: %v", err)
	}
	if g.NombreColegio != "Colegio Alemán" {
		t.Errorf("nombre = %q", g.NombreColegio)
	}

	if _, err := store.Get(ctx, "colegio aleman", 2008); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for other year, got %v", err)
	}
}

func TestExiste(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := graduacionstore.New(db)
	ctx := testutil.TestContext(t)

	ok, err := store.Existe(ctx, "IES Goya", 2007)
	if err != nil {
		t.Fatalf("Existe failed: %v", err)
	}
	if ok {
		t.Error("expected no record")
	}

	if _, err := store.Upsert(ctx, "IES Goya", 2007, graduacionstore.Campos{}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	ok, err = store.Existe(ctx, "IES Goya", 2007)
	if err != nil {
		t.Fatalf("Existe failed: %v", err)
	}
	if !ok {
		t.Error("expected record to exist")
	}
}
