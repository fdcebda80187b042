// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsuarios(ctx, db); err != nil {
		problems = append(problems, "usuarios: "+err.Error())
	}
	if err := ensureColegios(ctx, db); err != nil {
		problems = append(problems, "colegios: "+err.Error())
	}
	if err := ensureTitulaciones(ctx, db); err != nil {
		problems = append(problems, "titulaciones: "+err.Error())
	}
	if err := ensureContactos(ctx, db); err != nil {
		problems = append(problems, "contactos: "+err.Error())
	}
	if err := ensureGraduaciones(ctx, db); err != nil {
		problems = append(problems, "graduaciones: "+err.Error())
	}
	if err := ensureConfiguracion(ctx, db); err != nil {
		problems = append(problems, "configuracion: "+err.Error())
	}
	if err := ensurePermisos(ctx, db); err != nil {
		problems = append(problems, "permisos: "+err.Error())
	}
	if err := ensureJerarquia(ctx, db); err != nil {
		problems = append(problems, "jerarquia: "+err.Error())
	}
	if err := ensureAuditLog(ctx, db); err != nil {
		problems = append(problems, "audit_log: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		existing := listExisting(ctx, coll)

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern already there. Reuse when options and name
			// line up; otherwise drop and recreate with the desired shape.
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// An equivalent index already exists under another name.
				zap.L().Info("reusing existing index (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("keys", desiredSig))
				continue
			}
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				helper := ""
				if coll.Name() == "colegios" && strings.Contains(desiredSig, "nombre_ci:1") {
					helper = ": duplicate school names exist, deduplicate them before restarting"
				}
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), desiredName, helper))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}

		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsuarios(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("usuarios")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_usuarios_email"),
		},
		// Comerciales listing: role filter + folded-name sort
		{
			Keys: bson.D{
				{Key: "rol", Value: 1},
				{Key: "activo", Value: 1},
				{Key: "nombre_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_usuarios_rol_activo_nombreci"),
		},
	})
}

func ensureColegios(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("colegios")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// The school name is a natural key (case/diacritics folded).
		{
			Keys:    bson.D{{Key: "nombre_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_colegios_nombreci"),
		},
		{
			Keys:    bson.D{{Key: "activo", Value: 1}, {Key: "nombre_ci", Value: 1}},
			Options: options.Index().SetName("idx_colegios_activo_nombreci"),
		},
	})
}

func ensureTitulaciones(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("titulaciones")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "colegio_id", Value: 1}, {Key: "nombre", Value: 1}},
			Options: options.Index().SetName("idx_titulaciones_colegio_nombre"),
		},
	})
}

func ensureContactos(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("contactos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Aggregation path: year filter then school grouping
		{
			Keys:    bson.D{{Key: "anio_nacimiento", Value: 1}, {Key: "colegio_id", Value: 1}},
			Options: options.Index().SetName("idx_contactos_anio_colegio"),
		},
		// Visibility filters
		{
			Keys:    bson.D{{Key: "comercial_id", Value: 1}, {Key: "fecha_alta", Value: -1}},
			Options: options.Index().SetName("idx_contactos_comercial_fecha"),
		},
		{
			Keys:    bson.D{{Key: "creado_por", Value: 1}},
			Options: options.Index().SetName("idx_contactos_creadopor"),
		},
	})
}

func ensureGraduaciones(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("graduaciones")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One pipeline record per (school, birth year)
		{
			Keys: bson.D{
				{Key: "nombre_colegio_ci", Value: 1},
				{Key: "anio_nacimiento", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_graduaciones_colegio_anio"),
		},
	})
}

func ensureConfiguracion(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("configuracion")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clave", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_configuracion_clave"),
		},
	})
}

func ensurePermisos(ctx context.Context, db *mongo.Database) error {
	if err := ensureIndexSet(ctx, db.Collection("permisos"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clave", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_permisos_clave"),
		},
	}); err != nil {
		return err
	}
	return ensureIndexSet(ctx, db.Collection("usuario_permisos"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "usuario_id", Value: 1},
				{Key: "permiso_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_usuariopermisos_par"),
		},
	})
}

func ensureJerarquia(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("jerarquia")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "jefe_id", Value: 1},
				{Key: "subordinado_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_jerarquia_par"),
		},
		{
			Keys:    bson.D{{Key: "subordinado_id", Value: 1}},
			Options: options.Index().SetName("idx_jerarquia_subordinado"),
		},
	})
}

func ensureAuditLog(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_log")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "entidad", Value: 1},
				{Key: "entidad_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_entidad_id_ts"),
		},
	})
}
