// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination controls where audit events go:
// "all" (MongoDB + zap), "db", "log", or "off".
type Config struct {
	Destination string
}

// Logger records CRUD audit events to MongoDB (via audit.Store) and to
// structured logs. Database writes are best-effort: a failed write is
// logged and never fails the triggering request.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger. A nil *Logger is safe to call (no-op),
// which lets handler tests skip audit wiring.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// clientIP extracts the caller address, preferring reverse-proxy headers.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("accion", event.Accion),
		zap.String("entidad", event.Entidad),
		zap.String("ip", event.IP),
	}
	if event.EntidadID != nil {
		fields = append(fields, zap.String("entidad_id", event.EntidadID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	for k, v := range event.Detalles {
		fields = append(fields, zap.String("detalle_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event according to the configured destination.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil || l.config.Destination == "off" {
		return
	}
	if l.config.Destination == "all" || l.config.Destination == "log" {
		l.logToZap(event)
	}
	if l.config.Destination == "all" || l.config.Destination == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("accion", event.Accion),
				zap.String("entidad", event.Entidad))
		}
	}
}

// Actor identifies who performed an action.
type Actor struct {
	ID     primitive.ObjectID
	Nombre string
}

// Creado logs a CREATE with the resulting document snapshot.
func (l *Logger) Creado(ctx context.Context, r *http.Request, actor Actor, entidad string, id primitive.ObjectID, despues bson.M) {
	l.Log(ctx, audit.Event{
		Accion:      audit.AccionCreate,
		Entidad:     entidad,
		EntidadID:   &id,
		ActorID:     &actor.ID,
		ActorNombre: actor.Nombre,
		IP:          clientIP(r),
		Despues:     despues,
	})
}

// Actualizado logs an UPDATE with before/after snapshots.
func (l *Logger) Actualizado(ctx context.Context, r *http.Request, actor Actor, entidad string, id primitive.ObjectID, antes, despues bson.M) {
	l.Log(ctx, audit.Event{
		Accion:      audit.AccionUpdate,
		Entidad:     entidad,
		EntidadID:   &id,
		ActorID:     &actor.ID,
		ActorNombre: actor.Nombre,
		IP:          clientIP(r),
		Antes:       antes,
		Despues:     despues,
	})
}

// Eliminado logs a DELETE with the pre-delete document snapshot.
func (l *Logger) Eliminado(ctx context.Context, r *http.Request, actor Actor, entidad string, id primitive.ObjectID, antes bson.M) {
	l.Log(ctx, audit.Event{
		Accion:      audit.AccionDelete,
		Entidad:     entidad,
		EntidadID:   &id,
		ActorID:     &actor.ID,
		ActorNombre: actor.Nombre,
		IP:          clientIP(r),
		Antes:       antes,
	})
}

// Snapshot converts a model value to the raw document stored in Antes/
// Despues. Marshal errors surface as an empty snapshot; the event is
// still recorded.
func Snapshot(v any) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		return bson.M{}
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return bson.M{}
	}
	return doc
}
