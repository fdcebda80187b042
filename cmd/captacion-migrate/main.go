// Command captacion-migrate backfills the referential school key on
// legacy contacts that only carry a free-text school name. School names
// are matched case- and accent-insensitively against the colegios
// collection; --create-missing inserts a school for names with no match.
//
// Usage:
//
//	captacion-migrate [--dry-run] [--create-missing]
//
// Connection settings come from CAPTACION_MONGO_URI and
// CAPTACION_MONGO_DATABASE (a .env file is honored).
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/joho/godotenv"
	colegiostore "github.com/grupovertice/captacion/internal/app/store/colegios"
	contactostore "github.com/grupovertice/captacion/internal/app/store/contactos"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	createMissing := flag.Bool("create-missing", false, "create schools for unmatched names")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	_ = godotenv.Load()
	uri := os.Getenv("CAPTACION_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("CAPTACION_MONGO_DATABASE")
	if dbName == "" {
		dbName = "captacion"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	if err := run(ctx, db, logger, *dryRun, *createMissing); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}

func run(ctx context.Context, db *mongo.Database, logger *zap.Logger, dryRun, createMissing bool) error {
	contactos := contactostore.New(db)
	colegios := colegiostore.New(db)

	cur, err := contactos.SinColegioID(ctx)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var vinculados, creados, sinMatch, total int
	for cur.Next(ctx) {
		var con models.Contacto
		if err := cur.Decode(&con); err != nil {
			return err
		}
		total++

		nombreCI := text.Fold(con.NombreColegio)
		if nombreCI == "" {
			sinMatch++
			logger.Warn("contact has no school name", zap.String("contacto_id", con.ID.Hex()))
			continue
		}

		col, err := colegios.GetByNombreCI(ctx, nombreCI)
		switch {
		case err == mongo.ErrNoDocuments && createMissing:
			if dryRun {
				creados++
				logger.Info("would create school", zap.String("nombre", con.NombreColegio))
			} else {
				col, err = colegios.Create(ctx, models.Colegio{
					Nombre: con.NombreColegio,
					Activo: true,
				})
				if err != nil {
					return err
				}
				creados++
				logger.Info("created school",
					zap.String("nombre", col.Nombre), zap.String("colegio_id", col.ID.Hex()))
			}
		case err == mongo.ErrNoDocuments:
			sinMatch++
			logger.Warn("no school matches contact",
				zap.String("contacto_id", con.ID.Hex()),
				zap.String("nombre_colegio", con.NombreColegio))
			continue
		case err != nil:
			return err
		}

		if dryRun {
			vinculados++
			continue
		}
		if err := contactos.VincularColegio(ctx, con.ID, col.ID, col.Nombre); err != nil {
			return err
		}
		vinculados++
	}
	if err := cur.Err(); err != nil {
		return err
	}

	logger.Info("migration complete",
		zap.Bool("dry_run", dryRun),
		zap.Int("total", total),
		zap.Int("vinculados", vinculados),
		zap.Int("colegios_creados", creados),
		zap.Int("sin_match", sinMatch))
	return nil
}
