package audit_test

import (
	"testing"
	"time"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx := testutil.TestContext(t)

	actorID := primitive.NewObjectID()
	entidadID := primitive.NewObjectID()
	event := audit.Event{
		Accion:      audit.AccionDelete,
		Entidad:     audit.EntidadContacto,
		EntidadID:   &entidadID,
		ActorID:     &actorID,
		ActorNombre: "Ana",
		IP:          "192.168.1.1",
		Antes:       bson.M{"nombre": "Luis"},
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{Entidad: audit.EntidadContacto, EntidadID: &entidadID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Accion != audit.AccionDelete {
		t.Errorf("accion = %q, want DELETE", got.Accion)
	}
	if got.ActorNombre != "Ana" {
		t.Errorf("actor nombre = %q, want Ana", got.ActorNombre)
	}
	if got.Antes["nombre"] != "Luis" {
		t.Errorf("antes snapshot not preserved: %v", got.Antes)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp was not defaulted")
	}
}

func TestStore_QueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx := testutil.TestContext(t)

	actorA := primitive.NewObjectID()
	actorB := primitive.NewObjectID()
	for i, ev := range []audit.Event{
		{Accion: audit.AccionCreate, Entidad: audit.EntidadColegio, ActorID: &actorA},
		{Accion: audit.AccionUpdate, Entidad: audit.EntidadColegio, ActorID: &actorA},
		{Accion: audit.AccionCreate, Entidad: audit.EntidadContacto, ActorID: &actorB},
	} {
		ev.Timestamp = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Entidad: audit.EntidadColegio})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("colegio events = %d, want 2", n)
	}

	events, err := store.Query(ctx, audit.QueryFilter{ActorID: &actorB})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].Entidad != audit.EntidadContacto {
		t.Errorf("actor filter returned %v", events)
	}

	events, err = store.Query(ctx, audit.QueryFilter{Accion: audit.AccionCreate})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("create events = %d, want 2", len(events))
	}
}

func TestStore_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx := testutil.TestContext(t)

	old := audit.Event{
		Accion:    audit.AccionCreate,
		Entidad:   audit.EntidadProducto,
		Timestamp: time.Now().UTC().Add(-48 * time.Hour),
	}
	recent := audit.Event{
		Accion:  audit.AccionCreate,
		Entidad: audit.EntidadProducto,
	}
	if err := store.Log(ctx, old); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(ctx, recent); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	removed, err := store.DeleteOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Entidad: audit.EntidadProducto})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}
