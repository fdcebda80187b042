package configstore_test

import (
	"testing"

	configstore "github.com/grupovertice/captacion/internal/app/store/configuracion"
	"github.com/grupovertice/captacion/internal/domain/models"
	"github.com/grupovertice/captacion/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_SetIncrementsVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := configstore.New(db)
	ctx := testutil.TestContext(t)

	userID := primitive.NewObjectID()

	first, err := store.Set(ctx, models.ClaveMostrarContactos, "true", &userID)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("first version = %d, want 1", first.Version)
	}
	if !first.Bool() {
		t.Error("stored value should read as true")
	}

	second, err := store.Set(ctx, models.ClaveMostrarContactos, "false", &userID)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second version = %d, want 2", second.Version)
	}
	if second.Bool() {
		t.Error("stored value should read as false")
	}

	// A read after the write must observe the written value and version.
	got, err := store.Get(ctx, models.ClaveMostrarContactos)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Version != second.Version || got.Valor != "false" {
		t.Errorf("read-after-write mismatch: got %+v", got)
	}
}

func TestStore_GetOrDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := configstore.New(db)
	ctx := testutil.TestContext(t)

	cfg, err := store.GetOrDefault(ctx, models.ClaveAnioActivo, "2007")
	if err != nil {
		t.Fatalf("GetOrDefault failed: %v", err)
	}
	if cfg.Valor != "2007" {
		t.Errorf("default value = %q, want 2007", cfg.Valor)
	}
	if cfg.Version != 0 {
		t.Errorf("unset key version = %d, want 0", cfg.Version)
	}

	if _, err := store.Set(ctx, models.ClaveAnioActivo, "2008", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cfg, err = store.GetOrDefault(ctx, models.ClaveAnioActivo, "2007")
	if err != nil {
		t.Fatalf("GetOrDefault failed: %v", err)
	}
	if cfg.Valor != "2008" {
		t.Errorf("stored value = %q, want 2008", cfg.Valor)
	}
}
