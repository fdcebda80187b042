// Package graduacionqueries provides the read-only aggregation behind the
// graduaciones pipeline view: one row per active school for a birth year,
// merging contact counts, the embedded contact list, and the editable
// pipeline record.
package graduacionqueries

import (
	"context"
	"sort"
	"time"

	graduacionstore "github.com/grupovertice/captacion/internal/app/store/graduaciones"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactoResumen is the contact projection embedded in a school row.
type ContactoResumen struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Nombre          string             `bson:"nombre" json:"nombre"`
	Telefono        string             `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Instagram       string             `bson:"instagram,omitempty" json:"instagram,omitempty"`
	AnioNacimiento  int                `bson:"anio_nacimiento" json:"anioNacimiento"`
	FechaAlta       time.Time          `bson:"fecha_alta" json:"fechaAlta"`
	ComercialNombre string             `bson:"comercial_nombre,omitempty" json:"comercialNombre,omitempty"`
}

// FilaColegio is one row of the pipeline view.
type FilaColegio struct {
	ColegioID      primitive.ObjectID `json:"colegioId"`
	NombreColegio  string             `json:"nombreColegio"`
	Ciudad         string             `json:"ciudad,omitempty"`
	Regimen        string             `json:"regimen,omitempty"`
	TotalContactos int                `json:"totalContactos"`
	Contactos      []ContactoResumen  `json:"contactos"`
	Graduacion     models.Graduacion  `json:"graduacion"`
}

type grupoContactos struct {
	ColegioID primitive.ObjectID `bson:"_id"`
	Total     int                `bson:"total"`
	Contactos []ContactoResumen  `bson:"contactos"`
}

// contactosPorColegio groups the year's contacts by school, joining the
// owning agent's display name.
func contactosPorColegio(ctx context.Context, db *mongo.Database, anio int) (map[primitive.ObjectID]grupoContactos, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"anio_nacimiento": anio}},
		{"$lookup": bson.M{
			"from":         "usuarios",
			"localField":   "comercial_id",
			"foreignField": "_id",
			"as":           "comercial",
		}},
		{"$unwind": bson.M{"path": "$comercial", "preserveNullAndEmptyArrays": true}},
		{"$group": bson.M{
			"_id":   "$colegio_id",
			"total": bson.M{"$sum": 1},
			"contactos": bson.M{"$push": bson.M{
				"_id":              "$_id",
				"nombre":           "$nombre",
				"telefono":         "$telefono",
				"instagram":        "$instagram",
				"anio_nacimiento":  "$anio_nacimiento",
				"fecha_alta":       "$fecha_alta",
				"comercial_nombre": "$comercial.nombre",
			}},
		}},
	}

	cur, err := db.Collection("contactos").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	grupos := make(map[primitive.ObjectID]grupoContactos)
	for cur.Next(ctx) {
		var g grupoContactos
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		grupos[g.ColegioID] = g
	}
	return grupos, cur.Err()
}

// ResumenPorAnio builds the pipeline view for one birth year. Every active
// school appears exactly once, including schools with zero contacts for
// the year. The pipeline record per school is the exact-year match when
// one exists, otherwise the most recently created record for that school,
// otherwise a blank record keyed to (school, anio). Rows are sorted by
// contact count descending, then school name ascending, so repeated calls
// with no intervening writes return identical output.
func ResumenPorAnio(ctx context.Context, db *mongo.Database, anio int) ([]FilaColegio, error) {
	colegios, err := listColegiosActivos(ctx, db)
	if err != nil {
		return nil, err
	}

	grupos, err := contactosPorColegio(ctx, db, anio)
	if err != nil {
		return nil, err
	}

	nombresCI := make([]string, 0, len(colegios))
	for _, c := range colegios {
		nombresCI = append(nombresCI, c.NombreCI)
	}
	grads, err := graduacionstore.New(db).ListByColegios(ctx, nombresCI)
	if err != nil {
		return nil, err
	}

	// Exact-year record wins; otherwise keep the newest record per school.
	// grads arrive sorted by (nombre_colegio_ci asc, created_at desc).
	porColegio := make(map[string]models.Graduacion)
	for _, g := range grads {
		cur, seen := porColegio[g.NombreColegioCI]
		if !seen {
			porColegio[g.NombreColegioCI] = g
			continue
		}
		if cur.AnioNacimiento != anio && g.AnioNacimiento == anio {
			porColegio[g.NombreColegioCI] = g
		}
	}

	filas := make([]FilaColegio, 0, len(colegios))
	for _, c := range colegios {
		fila := FilaColegio{
			ColegioID:     c.ID,
			NombreColegio: c.Nombre,
			Ciudad:        c.Ciudad,
			Regimen:       c.Regimen,
			Contactos:     []ContactoResumen{},
		}
		if g, ok := grupos[c.ID]; ok {
			fila.TotalContactos = g.Total
			fila.Contactos = g.Contactos
			sort.Slice(fila.Contactos, func(i, j int) bool {
				return fila.Contactos[i].Nombre < fila.Contactos[j].Nombre
			})
		}
		if g, ok := porColegio[c.NombreCI]; ok {
			fila.Graduacion = g
		} else {
			fila.Graduacion = models.Graduacion{
				NombreColegio:   c.Nombre,
				NombreColegioCI: c.NombreCI,
				AnioNacimiento:  anio,
			}
		}
		filas = append(filas, fila)
	}

	sort.Slice(filas, func(i, j int) bool {
		if filas[i].TotalContactos != filas[j].TotalContactos {
			return filas[i].TotalContactos > filas[j].TotalContactos
		}
		return filas[i].NombreColegio < filas[j].NombreColegio
	})
	return filas, nil
}

// OcultarContactos blanks the embedded contact lists in place while
// keeping counts and pipeline fields. Applied for non-admin callers when
// the mostrar_contactos_comerciales toggle is off.
func OcultarContactos(filas []FilaColegio) {
	for i := range filas {
		filas[i].Contactos = []ContactoResumen{}
	}
}

func listColegiosActivos(ctx context.Context, db *mongo.Database) ([]models.Colegio, error) {
	cur, err := db.Collection("colegios").Find(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var cols []models.Colegio
	if err := cur.All(ctx, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}
