package contactos_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	contactosfeature "github.com/grupovertice/captacion/internal/app/features/contactos"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	contactostore "github.com/grupovertice/captacion/internal/app/store/contactos"
	jerarquiastore "github.com/grupovertice/captacion/internal/app/store/jerarquia"
	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/grupovertice/captacion/internal/app/system/visibility"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/grupovertice/captacion/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *contactosfeature.Handler {
	logger := zap.NewNop()
	vis := visibility.NewResolver(jerarquiastore.New(db), logger)
	checker := permits.NewChecker(permisostore.New(db), logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Destination: "db"})
	return contactosfeature.NewHandler(db, vis, checker, auditLog, logger)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func TestCreate_Envelope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	col := fx.CreateColegio(ctx, "IES Goya")

	body, _ := json.Marshal(map[string]any{
		"nombre":         "María",
		"telefono":       "600111222",
		"colegioId":      col.ID.Hex(),
		"anioNacimiento": 2007,
	})
	req := httptest.NewRequest("POST", "/api/contactos", bytes.NewReader(body))
	req = testutil.WithUser(req, comercial)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if !env.Success {
		t.Error("success = false")
	}
	var con models.Contacto
	if err := json.Unmarshal(env.Data, &con); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if con.ComercialID != comercial.ID || con.CreadoPor != comercial.ID {
		t.Errorf("ownership not defaulted to caller: %+v", con)
	}
	if con.NombreColegio != "IES Goya" {
		t.Errorf("school name not denormalized: %q", con.NombreColegio)
	}
}

func TestCreate_RequiresContactChannel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	col := fx.CreateColegio(ctx, "IES Goya")

	body, _ := json.Marshal(map[string]any{
		"nombre":         "María",
		"colegioId":      col.ID.Hex(),
		"anioNacimiento": 2007,
	})
	req := httptest.NewRequest("POST", "/api/contactos", bytes.NewReader(body))
	req = testutil.WithUser(req, comercial)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_UnknownSchool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)

	body, _ := json.Marshal(map[string]any{
		"nombre":         "María",
		"telefono":       "600111222",
		"nombreColegio":  "No Existe",
		"anioNacimiento": 2007,
	})
	req := httptest.NewRequest("POST", "/api/contactos", bytes.NewReader(body))
	req = testutil.WithUser(req, comercial)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGet_OutOfScopeReads404(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	owner := fx.CreateUsuario(ctx, "Dueño", models.RolComercial)
	otro := fx.CreateUsuario(ctx, "Otro", models.RolComercial)
	col := fx.CreateColegio(ctx, "IES Goya")
	con := fx.CreateContacto(ctx, "María", col, 2007, owner.ID)

	req := httptest.NewRequest("GET", "/api/contactos/"+con.ID.Hex(), nil)
	req = testutil.WithUser(req, otro)
	req = testutil.WithChiURLParam(req, "id", con.ID.Hex())
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (no existence leak)", rec.Code)
	}

	// An admin sees it.
	req = httptest.NewRequest("GET", "/api/contactos/"+con.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", con.ID.Hex())
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}
}

func TestDelete_RequiresPermission(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	owner := fx.CreateUsuario(ctx, "Dueño", models.RolComercial)
	col := fx.CreateColegio(ctx, "IES Goya")
	con := fx.CreateContacto(ctx, "María", col, 2007, owner.ID)

	req := httptest.NewRequest("DELETE", "/api/contactos/"+con.ID.Hex(), nil)
	req = testutil.WithUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", con.ID.Hex())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	// The contact is still there.
	n, err := db.Collection("contactos").CountDocuments(ctx, bson.M{"_id": con.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Error("contact must not be deleted without the permit")
	}
}

func TestImportar_MixedBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	col := fx.CreateColegio(ctx, "IES Goya")

	body, _ := json.Marshal([]map[string]any{
		{
			"nombre":         "María",
			"telefono":       "600111222",
			"colegioId":      col.ID.Hex(),
			"anioNacimiento": 2007,
		},
		{
			// No phone and no Instagram: fails validation.
			"nombre":         "Lucía",
			"colegioId":      col.ID.Hex(),
			"anioNacimiento": 2007,
		},
		{
			"nombre":         "Pablo",
			"instagram":      "@pablo",
			"nombreColegio":  "No Existe",
			"anioNacimiento": 2006,
		},
		{
			"nombre":         "Elena",
			"instagram":      "@elena",
			"nombreColegio":  "ies goya",
			"anioNacimiento": 2006,
		},
	})
	req := httptest.NewRequest("POST", "/api/contactos/importar", bytes.NewReader(body))
	req = testutil.WithUser(req, comercial)
	rec := httptest.NewRecorder()
	h.Importar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	var filas []struct {
		Fila    int    `json:"fila"`
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(env.Data, &filas); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if len(filas) != 4 {
		t.Fatalf("results = %d, want 4", len(filas))
	}
	for i, f := range filas {
		if f.Fila != i+1 {
			t.Errorf("result %d has fila = %d", i, f.Fila)
		}
	}
	if !filas[0].Success || !filas[3].Success {
		t.Fatalf("valid rows must succeed: %+v", filas)
	}
	if filas[1].Success || filas[1].Error == "" {
		t.Errorf("row without a contact channel must fail with a message: %+v", filas[1])
	}
	if filas[2].Success || filas[2].Error != "colegio desconocido" {
		t.Errorf("unknown-school row: %+v", filas[2])
	}

	// Each created row round-trips by its reported ID.
	store := contactostore.New(db)
	id, err := primitive.ObjectIDFromHex(filas[0].ID)
	if err != nil {
		t.Fatalf("bad id %q: %v", filas[0].ID, err)
	}
	con, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if con.Nombre != "María" || con.Telefono != "600111222" ||
		con.AnioNacimiento != 2007 || con.ColegioID != col.ID {
		t.Errorf("imported contact does not match the row: %+v", con)
	}
	if con.ComercialID != comercial.ID || con.CreadoPor != comercial.ID {
		t.Errorf("ownership not defaulted to caller: %+v", con)
	}

	// The folded school name resolved to the same school and was
	// denormalized in canonical form.
	id, err = primitive.ObjectIDFromHex(filas[3].ID)
	if err != nil {
		t.Fatalf("bad id %q: %v", filas[3].ID, err)
	}
	con, err = store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if con.ColegioID != col.ID || con.NombreColegio != "IES Goya" {
		t.Errorf("folded school lookup: %+v", con)
	}

	// One audit CREATE entry per created row, none for the failures.
	events, err := audit.New(db).Query(ctx, audit.QueryFilter{Entidad: audit.EntidadContacto})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(events))
	}
	for _, ev := range events {
		if ev.Accion != audit.AccionCreate {
			t.Errorf("accion = %q, want CREATE", ev.Accion)
		}
	}
}

func TestImportar_EmptyBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)

	req := httptest.NewRequest("POST", "/api/contactos/importar", bytes.NewReader([]byte("[]")))
	req = testutil.WithUser(req, comercial)
	rec := httptest.NewRecorder()
	h.Importar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDelete_WritesOneAuditEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	owner := fx.CreateUsuario(ctx, "Dueño", models.RolComercial)
	fx.GrantPermiso(ctx, owner.ID, models.PermisoEliminarContactos)
	col := fx.CreateColegio(ctx, "IES Goya")
	con := fx.CreateContacto(ctx, "María", col, 2007, owner.ID)

	req := httptest.NewRequest("DELETE", "/api/contactos/"+con.ID.Hex(), nil)
	req = testutil.WithUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", con.ID.Hex())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{
		Entidad:   audit.EntidadContacto,
		EntidadID: &con.ID,
	})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("audit entries = %d, want exactly 1", len(events))
	}
	ev := events[0]
	if ev.Accion != audit.AccionDelete {
		t.Errorf("accion = %q, want DELETE", ev.Accion)
	}
	if ev.Antes == nil || ev.Antes["nombre"] != "María" {
		t.Errorf("pre-delete snapshot missing: %v", ev.Antes)
	}
	if ev.Despues != nil {
		t.Error("delete event must not carry an after snapshot")
	}
}
