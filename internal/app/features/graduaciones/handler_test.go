package graduaciones_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	graduacionesfeature "github.com/grupovertice/captacion/internal/app/features/graduaciones"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	configstore "github.com/grupovertice/captacion/internal/app/store/configuracion"
	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	"github.com/grupovertice/captacion/internal/app/store/queries/graduacionqueries"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/grupovertice/captacion/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *graduacionesfeature.Handler {
	logger := zap.NewNop()
	checker := permits.NewChecker(permisostore.New(db), logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Destination: "db"})
	return graduacionesfeature.NewHandler(db, checker, auditLog, logger)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func TestResumen_HidesContactsForNonAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	fx.GrantPermiso(ctx, comercial.ID, models.PermisoVerGraduaciones)
	col := fx.CreateColegio(ctx, "IES Goya")
	fx.CreateContacto(ctx, "María", col, 2007, comercial.ID)

	if _, err := configstore.New(db).Set(ctx, models.ClaveMostrarContactos, "false", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/graduaciones/colegios/2007", nil)
	req = testutil.WithUser(req, comercial)
	req = testutil.WithChiURLParam(req, "anio", "2007")
	rec := httptest.NewRecorder()
	h.Resumen(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	var filas []graduacionqueries.FilaColegio
	if err := json.Unmarshal(env.Data, &filas); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if len(filas) != 1 {
		t.Fatalf("rows = %d, want 1", len(filas))
	}
	if filas[0].TotalContactos != 1 {
		t.Error("count must survive hiding")
	}
	if len(filas[0].Contactos) != 0 {
		t.Error("non-admin with toggle off must not see contact details")
	}

	// Admins always get full rows.
	req = httptest.NewRequest("GET", "/api/graduaciones/colegios/2007", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "anio", "2007")
	rec = httptest.NewRecorder()
	h.Resumen(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, &filas); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if len(filas[0].Contactos) != 1 {
		t.Error("admin must see contact details")
	}
}

func TestResumen_RequiresPermit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)

	req := httptest.NewRequest("GET", "/api/graduaciones/colegios/2007", nil)
	req = testutil.WithUser(req, comercial)
	req = testutil.WithChiURLParam(req, "anio", "2007")
	rec := httptest.NewRecorder()
	h.Resumen(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpsert_AdminOnlyAtActiveYear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	fx.CreateColegio(ctx, "IES Goya")
	if _, err := configstore.New(db).Set(ctx, models.ClaveAnioActivo, "2007", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	body, _ := json.Marshal(map[string]any{"estado": "contactado"})

	// Non-admin is rejected.
	comercial := fx.CreateUsuario(ctx, "Carlos", models.RolComercial)
	req := httptest.NewRequest("PUT", "/api/graduaciones/IES Goya", bytes.NewReader(body))
	req = testutil.WithUser(req, comercial)
	req = testutil.WithChiURLParam(req, "nombreColegio", "IES Goya")
	rec := httptest.NewRecorder()
	h.Upsert(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", rec.Code)
	}

	// Admin write lands on the active year.
	req = httptest.NewRequest("PUT", "/api/graduaciones/IES Goya", bytes.NewReader(body))
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "nombreColegio", "IES Goya")
	rec = httptest.NewRecorder()
	h.Upsert(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body = %s", rec.Code, rec.Body.String())
	}

	g, err := graduacionstore.New(db).Get(ctx, "IES Goya", 2007)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if g.Estado != "contactado" {
		t.Errorf("estado = %q", g.Estado)
	}
}

func TestUpsert_SanitizesObservaciones(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	fx.CreateColegio(ctx, "IES Goya")
	if _, err := configstore.New(db).Set(ctx, models.ClaveAnioActivo, "2007", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	body, _ := json.Marshal(map[string]any{
		"observaciones": `<script>alert(1)</script>llamar en mayo`,
	})
	req := httptest.NewRequest("PUT", "/api/graduaciones/IES Goya", bytes.NewReader(body))
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "nombreColegio", "IES Goya")
	rec := httptest.NewRecorder()
	h.Upsert(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	g, err := graduacionstore.New(db).Get(ctx, "IES Goya", 2007)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if g.Observaciones != "llamar en mayo" {
		t.Errorf("observaciones = %q, want HTML stripped", g.Observaciones)
	}
}

func TestSync_CreatesMissingRecords(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	fx.CreateColegio(ctx, "Colegio A")
	fx.CreateColegio(ctx, "Colegio B")
	if _, err := configstore.New(db).Set(ctx, models.ClaveAnioActivo, "2007", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	grads := graduacionstore.New(db)
	if _, err := grads.Upsert(ctx, "Colegio A", 2007, graduacionstore.Campos{}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/graduaciones/sync", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.Sync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	var res struct {
		Anio     int `json:"anio"`
		Creadas  int `json:"creadas"`
		Omitidas int `json:"omitidas"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if res.Creadas != 1 || res.Omitidas != 1 {
		t.Errorf("creadas = %d, omitidas = %d, want 1/1", res.Creadas, res.Omitidas)
	}

	ok, err := grads.Existe(ctx, "Colegio B", 2007)
	if err != nil {
		t.Fatalf("Existe failed: %v", err)
	}
	if !ok {
		t.Error("sync must create the missing record")
	}
}
