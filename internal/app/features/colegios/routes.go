// internal/app/features/colegios/routes.go
package colegios

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/colegios (and, for
// legacy clients, /api/universidades).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/titulaciones", h.ListTitulaciones)
	r.Post("/{id}/titulaciones", h.CreateTitulacion)
	r.Delete("/{id}/titulaciones/{titulacionId}", h.DeleteTitulacion)
	return r
}
