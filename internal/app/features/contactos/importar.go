// internal/app/features/contactos/importar.go
package contactos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/authz"
	"github.com/grupovertice/captacion/internal/app/system/httpjson"
	"github.com/grupovertice/captacion/internal/app/system/inputval"
	"github.com/grupovertice/captacion/internal/app/system/timeouts"
	"github.com/grupovertice/captacion/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// filaResultado reports the outcome of one imported row. Fila is the
// 1-based position in the request array.
type filaResultado struct {
	Fila    int    `json:"fila"`
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Importar handles POST /api/contactos/importar: a JSON array of contact
// payloads inserted one by one. Rows are independent; a failed row is
// reported in its result and the rest keep going. There is no batch
// rollback.
func (h *Handler) Importar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	_, nombre, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	var filas []contactoPayload
	if err := json.NewDecoder(r.Body).Decode(&filas); err != nil {
		httpjson.BadRequest(w, "cuerpo de la petición no válido")
		return
	}
	if len(filas) == 0 {
		httpjson.BadRequest(w, "no hay filas que importar")
		return
	}

	actor := auditlog.Actor{ID: userID, Nombre: nombre}
	resultados := make([]filaResultado, 0, len(filas))
	for i, p := range filas {
		res := filaResultado{Fila: i + 1}
		con, err := h.importarFila(ctx, p, userID)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Success = true
			res.ID = con.ID.Hex()
			h.audit.Creado(ctx, r, actor, audit.EntidadContacto, con.ID, auditlog.Snapshot(con))
		}
		resultados = append(resultados, res)
	}
	httpjson.OK(w, resultados)
}

func (h *Handler) importarFila(ctx context.Context, p contactoPayload, caller primitive.ObjectID) (models.Contacto, error) {
	if err := inputval.Struct(p); err != nil {
		return models.Contacto{}, errFila(inputval.Message(err))
	}
	col, err := h.resolverColegio(ctx, p)
	if err == mongo.ErrNoDocuments {
		return models.Contacto{}, errFila("colegio desconocido")
	}
	if err != nil {
		h.log.Error("school lookup failed", zap.Error(err))
		return models.Contacto{}, errFila("error interno")
	}
	comID, err := comercialID(p, caller)
	if err != nil {
		return models.Contacto{}, errFila("comercial no válido")
	}
	con, err := h.contactos.Create(ctx, models.Contacto{
		Nombre:         p.Nombre,
		Telefono:       p.Telefono,
		Instagram:      p.Instagram,
		ColegioID:      col.ID,
		NombreColegio:  col.Nombre,
		AnioNacimiento: p.AnioNacimiento,
		ComercialID:    comID,
		CreadoPor:      caller,
	})
	if err != nil {
		h.log.Error("row insert failed", zap.Error(err))
		return models.Contacto{}, errFila("error interno")
	}
	return con, nil
}

type errFila string

func (e errFila) Error() string { return string(e) }
