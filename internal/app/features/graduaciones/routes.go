// internal/app/features/graduaciones/routes.go
package graduaciones

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/graduaciones.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/anios", h.Anios)
	r.Get("/colegios/{anio}", h.Resumen)
	r.Post("/sync", h.Sync)
	r.Put("/{nombreColegio}", h.Upsert)
	return r
}
