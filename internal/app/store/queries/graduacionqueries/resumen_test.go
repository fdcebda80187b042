package graduacionqueries_test

import (
	"testing"

	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	"github.com/grupovertice/captacion/internal/app/store/queries/graduacionqueries"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/grupovertice/captacion/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestResumenPorAnio_SortAndZeroContactSchools(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	colA := fx.CreateColegio(ctx, "Colegio A")
	colB := fx.CreateColegio(ctx, "Colegio B")
	colC := fx.CreateColegio(ctx, "Colegio C")

	// A has 3 contacts for 2007, B has 1, C has none.
	fx.CreateContacto(ctx, "c1", colA, 2007, comercial.ID)
	fx.CreateContacto(ctx, "c2", colA, 2007, comercial.ID)
	fx.CreateContacto(ctx, "c3", colA, 2007, comercial.ID)
	fx.CreateContacto(ctx, "c4", colB, 2007, comercial.ID)
	// A contact from another year must not count.
	fx.CreateContacto(ctx, "c5", colB, 2006, comercial.ID)

	filas, err := graduacionqueries.ResumenPorAnio(ctx, db, 2007)
	if err != nil {
		t.Fatalf("ResumenPorAnio failed: %v", err)
	}
	if len(filas) != 3 {
		t.Fatalf("rows = %d, want 3 (zero-contact school included)", len(filas))
	}

	if filas[0].ColegioID != colA.ID || filas[0].TotalContactos != 3 {
		t.Errorf("row 0 = %s (%d)", filas[0].NombreColegio, filas[0].TotalContactos)
	}
	if filas[1].ColegioID != colB.ID || filas[1].TotalContactos != 1 {
		t.Errorf("row 1 = %s (%d)", filas[1].NombreColegio, filas[1].TotalContactos)
	}
	if filas[2].ColegioID != colC.ID || filas[2].TotalContactos != 0 {
		t.Errorf("row 2 = %s (%d)", filas[2].NombreColegio, filas[2].TotalContactos)
	}
	if filas[2].Contactos == nil {
		t.Error("zero-contact row must carry an empty, not nil, contact list")
	}

	// Owning agent's name is joined into the embedded rows.
	if filas[0].Contactos[0].ComercialNombre != "Carlos" {
		t.Errorf("comercial nombre = %q", filas[0].Contactos[0].ComercialNombre)
	}
}

func TestResumenPorAnio_GraduacionFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	fx.CreateColegio(ctx, "IES Goya")
	grads := graduacionstore.New(db)

	if _, err := grads.Upsert(ctx, "IES Goya", 2006, graduacionstore.Campos{
		Estado: strPtr("cerrado"),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// No 2007 record yet: the newest record for the school shows.
	filas, err := graduacionqueries.ResumenPorAnio(ctx, db, 2007)
	if err != nil {
		t.Fatalf("ResumenPorAnio failed: %v", err)
	}
	if len(filas) != 1 {
		t.Fatalf("rows = %d, want 1", len(filas))
	}
	if filas[0].Graduacion.Estado != "cerrado" {
		t.Errorf("fallback estado = %q, want cerrado", filas[0].Graduacion.Estado)
	}

	// Once a 2007 record exists it wins over the fallback.
	if _, err := grads.Upsert(ctx, "IES Goya", 2007, graduacionstore.Campos{
		Estado: strPtr("pendiente"),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	filas, err = graduacionqueries.ResumenPorAnio(ctx, db, 2007)
	if err != nil {
		t.Fatalf("ResumenPorAnio failed: %v", err)
	}
	if filas[0].Graduacion.Estado != "pendiente" || filas[0].Graduacion.AnioNacimiento != 2007 {
		t.Errorf("exact-year record did not win: %+v", filas[0].Graduacion)
	}
}

func TestOcultarContactos(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	col := fx.CreateColegio(ctx, "Colegio A")
	fx.CreateContacto(ctx, "c1", col, 2007, comercial.ID)

	filas, err := graduacionqueries.ResumenPorAnio(ctx, db, 2007)
	if err != nil {
		t.Fatalf("ResumenPorAnio failed: %v", err)
	}

	graduacionqueries.OcultarContactos(filas)
	if filas[0].TotalContactos != 1 {
		t.Error("count must survive hiding")
	}
	if len(filas[0].Contactos) != 0 {
		t.Error("contact details must be hidden")
	}
}
