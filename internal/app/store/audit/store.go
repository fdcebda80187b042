// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Actions recorded in the audit log.
const (
	AccionCreate = "CREATE"
	AccionUpdate = "UPDATE"
	AccionDelete = "DELETE"
)

// Entity names used in audit events.
const (
	EntidadContacto      = "contacto"
	EntidadColegio       = "colegio"
	EntidadGraduacion    = "graduacion"
	EntidadProducto      = "producto"
	EntidadConfiguracion = "configuracion"
	EntidadPermiso       = "permiso"
	EntidadJerarquia     = "jerarquia"
)

// Event is one audit record: who did what to which document, with
// before/after snapshots where they apply. Snapshots are stored as raw
// documents so the log survives model changes.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	Accion    string              `bson:"accion"`
	Entidad   string              `bson:"entidad"`
	EntidadID *primitive.ObjectID `bson:"entidad_id,omitempty"`

	ActorID     *primitive.ObjectID `bson:"actor_id,omitempty"`
	ActorNombre string              `bson:"actor_nombre,omitempty"`
	IP          string              `bson:"ip,omitempty"`

	Antes   bson.M `bson:"antes,omitempty"`
	Despues bson.M `bson:"despues,omitempty"`

	Detalles map[string]string `bson:"detalles,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	Entidad   string
	EntidadID *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Accion    string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (f QueryFilter) build() bson.M {
	query := bson.M{}
	if f.Entidad != "" {
		query["entidad"] = f.Entidad
	}
	if f.EntidadID != nil {
		query["entidad_id"] = f.EntidadID
	}
	if f.ActorID != nil {
		query["actor_id"] = f.ActorID
	}
	if f.Accion != "" {
		query["accion"] = f.Accion
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.build(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.build())
}

// DeleteOlderThan removes events with a timestamp before the cutoff.
// Used by the retention worker. Returns the number removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
